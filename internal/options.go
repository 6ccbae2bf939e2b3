package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/shipy/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithDebug switches development mode on or off.
// Development mode renders failures with their trace, does not force Secure
// cookies, skips security headers and accepts any secret.
func WithDebug(debug bool) Option {
	return func(a *App) {
		a.debug = debug
	}
}

// WithSecret sets the key that signs session cookies.
// Production mode requires at least 32 bytes.
func WithSecret(secret string) Option {
	return func(a *App) {
		a.secret = secret
	}
}

// WithStatic serves dir under the URL prefix. The prefix is normalized to
// end with "/". Defaults to "/public/" and "public".
//
// Example:
//
//	shipy.New(
//	    shipy.WithStatic("/assets/", "web/assets"),
//	)
func WithStatic(prefix, dir string) Option {
	return func(a *App) {
		if prefix == "" || dir == "" {
			return
		}
		if prefix[len(prefix)-1] != '/' {
			prefix += "/"
		}
		if prefix[0] != '/' {
			prefix = "/" + prefix
		}
		a.static = &staticFiles{prefix: prefix, dir: dir}
	}
}

// WithoutStatic disables static file serving.
func WithoutStatic() Option {
	return func(a *App) {
		a.static = nil
	}
}

// WithErrorTemplates sets directories searched for 404.html and 500.html.
// The first directory containing a template wins.
func WithErrorTemplates(dirs ...string) Option {
	return func(a *App) {
		a.errorDirs = append(a.errorDirs, dirs...)
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
//
// Example:
//
//	shipy.New(
//	    shipy.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware adds route-level middleware wrapping every handler.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware adds transport-level middleware.
// It runs for every request, including static files, health checks,
// 404s and 405s, before the dispatcher.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithRoutes registers routes with a function.
//
// Example:
//
//	shipy.WithRoutes(func(r shipy.Router) {
//	    r.GET("/", home)
//	    r.GET("/todos/{id:int}", showTodo)
//	})
func WithRoutes(fn func(r Router)) Option {
	return func(a *App) {
		if fn != nil {
			a.routeFns = append(a.routeFns, fn)
		}
	}
}

// WithHealthChecks enables the readiness endpoint (/health/ready) running
// the configured checks. The liveness endpoint (/health) is always on.
//
// Example:
//
//	shipy.WithHealthChecks(
//	    shipy.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    shipy.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{path: defaultReadinessPath}
		for _, opt := range opts {
			opt(cfg)
		}
		a.readiness = cfg
	}
}

// WithMetricsHandler exposes h on GET /metrics.
//
// Example:
//
//	shipy.WithMetricsHandler(promhttp.Handler())
func WithMetricsHandler(h http.Handler) Option {
	return func(a *App) {
		a.metricsHandler = h
	}
}

// WithMaxBodySize limits request bodies. Larger bodies are answered with 413.
// Defaults to 10MB.
func WithMaxBodySize(n int64) Option {
	return func(a *App) {
		if n > 0 {
			a.maxBodySize = n
		}
	}
}

// WithCSRFPreseed stores a CSRF token in the session of every safe-method
// response whose session lacks one, so the first form post of a new visitor
// already carries a valid token.
func WithCSRFPreseed() Option {
	return func(a *App) {
		a.csrfPreseed = true
	}
}

// WithCookieDomain sets the Domain attribute for cookies that don't set one.
func WithCookieDomain(domain string) Option {
	return func(a *App) {
		a.cookiePolicy.Domain = domain
	}
}
