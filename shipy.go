package shipy

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/shipy/internal"
	"github.com/dmitrymomot/shipy/pkg/cookie"
	"github.com/dmitrymomot/shipy/pkg/health"
	"github.com/dmitrymomot/shipy/pkg/logger"
	"github.com/dmitrymomot/shipy/pkg/session"
)

// Type aliases - public API
type (
	// App is the application: routes, the dispatcher and its configuration.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Request is the read-only view of an incoming request.
	Request = internal.Request

	// Response accumulates status, headers, body and cookie directives.
	Response = internal.Response

	// Header is a single response header line.
	Header = internal.Header

	// Values is an ordered multi-valued mapping for query strings and forms.
	Values = internal.Values

	// Result is anything a handler can return.
	Result = internal.Result

	// HTML is a handler result rendered as text/html.
	HTML = internal.HTML

	// Text is a handler result rendered as text/plain.
	Text = internal.Text

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures the readiness endpoint.
	HealthOption = internal.HealthOption

	// HTTPError is an error carrying the status to respond with.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// PanicError wraps a value recovered from a panicking handler.
	PanicError = internal.PanicError

	// Extractor tries multiple sources in order and returns the first match.
	Extractor = internal.Extractor

	// ExtractorSource extracts a value from a request.
	ExtractorSource = internal.ExtractorSource

	// ResponseWriter wraps http.ResponseWriter to record status and size.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures a response cookie.
	CookieOption = cookie.Option

	// SessionValues is the decoded session mapping.
	SessionValues = session.Values

	// Flash is a one-time message stored in the session.
	Flash = session.Flash
)

// Defaults.
const (
	DevSecret           = internal.DevSecret
	HealthPath          = internal.HealthPath
	DefaultAddress      = internal.DefaultAddress
	DefaultStaticPrefix = internal.DefaultStaticPrefix
	DefaultStaticDir    = internal.DefaultStaticDir
	DefaultMaxBodySize  = internal.DefaultMaxBodySize
)

// Flash kinds.
const (
	FlashInfo    = session.FlashInfo
	FlashSuccess = session.FlashSuccess
	FlashWarning = session.FlashWarning
	FlashError   = session.FlashError
)

// Errors
var (
	ErrInvalidPattern = internal.ErrInvalidPattern
	ErrInvalidMethod  = internal.ErrInvalidMethod
	ErrNilHandler     = internal.ErrNilHandler
	ErrWeakSecret     = internal.ErrWeakSecret
	ErrBodyTooLarge   = internal.ErrBodyTooLarge
	ErrBodyAborted    = internal.ErrBodyAborted
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation. Invalid configuration panics.
//
// Example:
//
//	app := shipy.New(
//	    shipy.WithSecret(os.Getenv("SHIPY_SECRET")),
//	    shipy.WithHandlers(handlers.NewTodos(pool)),
//	)
//
//	err := app.Run(":8000", shipy.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return internal.NewResponse(status)
}

// NewHTML creates a text/html response.
func NewHTML(status int, body string) *Response {
	return internal.NewHTML(status, body)
}

// NewText creates a text/plain response.
func NewText(status int, body string) *Response {
	return internal.NewText(status, body)
}

// Redirect creates a 303 See Other response to url.
func Redirect(url string) *Response {
	return internal.Redirect(url)
}

// RedirectWithStatus creates a redirect with an explicit 3xx status.
func RedirectWithStatus(status int, url string) *Response {
	return internal.RedirectWithStatus(status, url)
}

// JSON creates an application/json response.
func JSON(status int, v any) (*Response, error) {
	return internal.JSON(status, v)
}

// Render renders a templ component into an HTML response.
//
// Example:
//
//	return shipy.Render(r.Context(), http.StatusOK, views.TodoList(todos))
func Render(ctx context.Context, status int, c templ.Component) (*Response, error) {
	return internal.Render(ctx, status, c)
}

// ParseValues decodes an application/x-www-form-urlencoded string.
func ParseValues(s string) Values {
	return internal.ParseValues(s)
}

// NewResponseWriter wraps w, or returns it unchanged if it is already wrapped.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return internal.NewResponseWriter(w)
}

// App options

// WithDebug switches development mode on or off.
func WithDebug(debug bool) Option {
	return internal.WithDebug(debug)
}

// WithSecret sets the key that signs session cookies.
// Production mode requires at least 32 bytes.
func WithSecret(secret string) Option {
	return internal.WithSecret(secret)
}

// WithStatic serves dir under the URL prefix.
//
// Example:
//
//	shipy.New(
//	    shipy.WithStatic("/assets/", "web/assets"),
//	)
func WithStatic(prefix, dir string) Option {
	return internal.WithStatic(prefix, dir)
}

// WithoutStatic disables static file serving.
func WithoutStatic() Option {
	return internal.WithoutStatic()
}

// WithErrorTemplates sets directories searched for 404.html and 500.html.
func WithErrorTemplates(dirs ...string) Option {
	return internal.WithErrorTemplates(dirs...)
}

// WithMiddleware adds route-level middleware.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHTTPMiddleware adds transport-level middleware that sees every request.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRoutes registers routes with a function.
func WithRoutes(fn func(r Router)) Option {
	return internal.WithRoutes(fn)
}

// WithHealthChecks enables the readiness endpoint with the given checks.
// The liveness endpoint (/health) is always on.
//
// Example:
//
//	shipy.WithHealthChecks(
//	    shipy.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return internal.WithMetricsHandler(h)
}

// WithMaxBodySize limits request bodies. Larger bodies are answered with 413.
func WithMaxBodySize(n int64) Option {
	return internal.WithMaxBodySize(n)
}

// WithCSRFPreseed stores a CSRF token in the session of every safe-method
// response whose session lacks one.
func WithCSRFPreseed() Option {
	return internal.WithCSRFPreseed()
}

// WithCookieDomain sets the Domain attribute for cookies that don't set one.
func WithCookieDomain(domain string) Option {
	return internal.WithCookieDomain(domain)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	shipy.New(
//	    shipy.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health check options

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the server listens.
// If any hook fails, the server does not start.
//
// Example:
//
//	shipy.StartupHook(db.MigrateHook(pool, migrations))
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
//
// Example:
//
//	shipy.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrUnauthorized creates a 401 error.
func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

// ErrForbidden creates a 403 error.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrConflict creates a 409 error.
func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrConflict(message, opts...)
}

// ErrUnprocessable creates a 422 error.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// ErrServiceUnavailable creates a 503 error.
func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrServiceUnavailable(message, opts...)
}

// WithTitle sets the error title.
func WithTitle(title string) HTTPErrorOption {
	return internal.WithTitle(title)
}

// WithDetail sets the extended description.
func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

// WithErrorCode sets an application-specific error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithError sets the underlying error for logging.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// IsHTTPError reports whether err is or wraps an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError extracts the *HTTPError from err, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Extractors

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header. For lists the first entry is used.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromCookie reads a request cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromParam reads a path parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromForm reads a form field. The body must already be loaded.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromSession reads a session value.
func FromSession(key string) ExtractorSource {
	return internal.FromSession(key)
}

// FromRemoteIP reads the peer address without port.
func FromRemoteIP() ExtractorSource {
	return internal.FromRemoteIP()
}

// FromBearerToken reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Session helpers

// SessionValue retrieves a typed value from a session mapping.
// Returns the zero value of T if the key is missing or has another type.
//
// Example:
//
//	theme := shipy.SessionValue[string](r.Session(), "theme")
func SessionValue[T any](v SessionValues, key string) T {
	out, _ := session.Value[T](v, key)
	return out
}
