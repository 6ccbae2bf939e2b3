package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/shipy/pkg/cookie"
	"github.com/dmitrymomot/shipy/pkg/health"
	"github.com/dmitrymomot/shipy/pkg/logger"
	"github.com/dmitrymomot/shipy/pkg/render"
	"github.com/dmitrymomot/shipy/pkg/session"
	"github.com/dmitrymomot/shipy/pkg/signer"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Defaults for the request pipeline.
const (
	// DevSecret signs sessions in development mode when no secret is configured.
	DevSecret = "dev-secret-change-me"

	// HealthPath always answers 200 OK.
	HealthPath = "/health"

	DefaultStaticPrefix  = "/public/"
	DefaultStaticDir     = "public"
	DefaultMaxBodySize   = 10 << 20 // 10MB
	defaultReadinessPath = "/health/ready"
	defaultMetricsPath   = "/metrics"
)

// App is the application: a route table, the dispatcher that serves it and
// the configuration both read. App is immutable after creation; all
// configuration is done via New.
type App struct {
	mux             chi.Router
	table           *routeTable
	logger          *slog.Logger
	codec           *session.Codec
	static          *staticFiles
	errorPages      *render.Engine
	readiness       *healthConfig
	metricsHandler  http.Handler
	cookiePolicy    cookie.Policy
	secret          string
	errorDirs       []string
	httpMiddlewares []func(http.Handler) http.Handler
	middlewares     []Middleware
	handlers        []Handler
	routeFns        []func(Router)
	metricsPath     string
	maxBodySize     int64
	debug           bool
	csrfPreseed     bool
}

// New creates a new application with the given options.
// Configuration errors (malformed route patterns, a weak secret in production,
// unreadable error templates) panic: they are programming errors that must
// surface at startup.
//
// Example:
//
//	app := shipy.New(
//	    shipy.WithSecret(os.Getenv("SHIPY_SECRET")),
//	    shipy.WithHandlers(handlers.NewTodos(pool)),
//	)
func New(opts ...Option) *App {
	a := &App{
		mux:         chi.NewRouter(),
		table:       &routeTable{},
		logger:      logger.NewNope(),
		static:      &staticFiles{prefix: DefaultStaticPrefix, dir: DefaultStaticDir},
		maxBodySize: DefaultMaxBodySize,
		metricsPath: defaultMetricsPath,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.setupSigner(); err != nil {
		panic(err.Error())
	}

	pages, err := loadErrorPages(a.errorDirs)
	if err != nil {
		panic(fmt.Sprintf("error templates: %v", err))
	}
	a.errorPages = pages

	a.cookiePolicy.Production = !a.debug
	if a.static != nil {
		a.static.debug = a.debug
	}

	a.setupRoutes()
	if len(a.table.errs) > 0 {
		msgs := make([]string, len(a.table.errs))
		for i, e := range a.table.errs {
			msgs[i] = e.Error()
		}
		panic("route registration: " + strings.Join(msgs, "; "))
	}

	a.setupMux()
	return a
}

// setupSigner builds the session codec from the configured secret.
func (a *App) setupSigner() error {
	var (
		s   *signer.Signer
		err error
	)
	switch {
	case a.debug && len(a.secret) == 0:
		a.logger.Warn("no secret configured, using the development secret")
		s, err = signer.New(DevSecret)
	case a.debug:
		s, err = signer.New(a.secret)
	default:
		s, err = signer.NewStrict(a.secret)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrWeakSecret, err)
		}
	}
	if err != nil {
		return err
	}
	a.codec = session.NewCodec(s)
	return nil
}

// setupRoutes fills the route table from handlers and route functions.
func (a *App) setupRoutes() {
	r := &routerAdapter{table: a.table, middlewares: a.middlewares}
	for _, h := range a.handlers {
		h.Routes(r)
	}
	for _, fn := range a.routeFns {
		fn(r)
	}
}

// setupMux builds the transport-level router.
// Everything except the metrics and readiness endpoints goes to the dispatcher.
func (a *App) setupMux() {
	for _, mw := range a.httpMiddlewares {
		a.mux.Use(mw)
	}

	if a.metricsHandler != nil {
		a.mount(a.metricsPath, a.metricsHandler)
	}
	if a.readiness != nil {
		a.mount(a.readiness.path, health.ReadinessHandler(a.readiness.checks, health.WithLogger(a.logger)))
	}

	a.mux.NotFound(a.dispatch)
	a.mux.MethodNotAllowed(a.dispatch)
	a.mux.HandleFunc("/*", a.dispatch)
}

// mount serves h for GET and HEAD next to the dispatcher. Production
// responses get the same default security headers as dispatched ones.
func (a *App) mount(path string, h http.Handler) {
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.debug {
			hdr := w.Header()
			for _, sh := range securityHeaders {
				if hdr.Get(sh.Name) == "" {
					hdr.Set(sh.Name, sh.Value)
				}
			}
		}
		h.ServeHTTP(w, r)
	})
	a.mux.Method(http.MethodGet, path, wrapped)
	a.mux.Method(http.MethodHead, path, wrapped)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Debug reports whether the app runs in development mode.
func (a *App) Debug() bool {
	return a.debug
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8000", shipy.Logger(log), shipy.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// healthConfig holds readiness endpoint configuration.
type healthConfig struct {
	checks health.Checks
	path   string
}

// HealthOption configures the readiness endpoint.
type HealthOption func(*healthConfig)

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	shipy.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
