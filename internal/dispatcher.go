package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/shipy/pkg/cookie"
)

// securityHeaders are added to production responses that don't set them.
var securityHeaders = []Header{
	{Name: "X-Content-Type-Options", Value: "nosniff"},
	{Name: "Referrer-Policy", Value: "no-referrer"},
	{Name: "X-Frame-Options", Value: "DENY"},
}

// Route pattern reported to transport middleware for requests no route handled.
const unmatchedRoute = "unmatched"

// dispatch serves one request: static files, the health path, then the route table.
func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	method, path := r.Method, r.URL.Path
	head := method == http.MethodHead

	if a.static != nil && strings.HasPrefix(path, a.static.prefix) &&
		(method == http.MethodGet || head) {
		setRoutePattern(r, a.static.prefix+"*")
		resp, err := a.static.serve(path, head)
		if err != nil {
			a.logger.DebugContext(ctx, "static file not served",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			resp = a.notFound(ctx, method, path)
		}
		a.write(w, resp, head)
		return
	}

	if path == HealthPath {
		setRoutePattern(r, HealthPath)
		a.write(w, NewText(http.StatusOK, "OK"), head)
		return
	}

	m := a.table.match(method, path)
	switch m.kind {
	case matchNotFound:
		setRoutePattern(r, unmatchedRoute)
		a.write(w, a.notFound(ctx, method, path), head)
		return
	case matchMethodNotAllowed:
		setRoutePattern(r, unmatchedRoute)
		resp := NewText(http.StatusMethodNotAllowed, "Method Not Allowed")
		resp.SetHeader("Allow", strings.Join(m.allow, ", "))
		a.write(w, resp, head)
		return
	}

	setRoutePattern(r, m.route.pattern)
	r.Body = http.MaxBytesReader(w, r.Body, a.maxBodySize)
	req := newRequest(r, m.params, &sessionState{codec: a.codec})

	resp := a.serveRoute(req, m.route)
	if m.headShim {
		resp = stripBody(resp)
	}
	a.write(w, resp, head)
}

// serveRoute runs the CSRF guard and the handler for a matched route.
func (a *App) serveRoute(req *Request, rt *route) *Response {
	ctx := req.Context()

	if isUnsafe(req.Method()) {
		if _, err := req.LoadBody(ctx); err != nil {
			return a.handleError(req, err)
		}
		if !req.verifyCSRF() {
			a.logger.WarnContext(ctx, "csrf check failed",
				slog.String("method", req.Method()),
				slog.String("path", req.Path()),
			)
			return NewText(http.StatusForbidden, "Forbidden (CSRF)")
		}
	}

	res, err := invoke(req, rt.handler)
	if err != nil {
		return a.handleError(req, err)
	}
	resp := toResponse(res)

	if a.csrfPreseed && !isUnsafe(req.Method()) && !req.hasCSRFToken() {
		req.CSRFToken(resp)
	}
	return resp
}

// invoke calls h, turning a panic into a *PanicError.
// http.ErrAbortHandler is re-raised so the server drops the connection.
func invoke(req *Request, h HandlerFunc) (res Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			res, err = nil, &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return h(req)
}

// handleError converts a handler or body error into a response.
func (a *App) handleError(req *Request, err error) *Response {
	ctx := req.Context()
	method, path := req.Method(), req.Path()

	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return NewText(http.StatusRequestEntityTooLarge, "Request Entity Too Large")
	case errors.Is(err, ErrBodyAborted):
		a.logger.DebugContext(ctx, "request abandoned",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		panic(http.ErrAbortHandler)
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		switch {
		case httpErr.Code == http.StatusNotFound:
			return a.notFound(ctx, method, path)
		case httpErr.Code >= 500:
			a.logFailure(req, err)
			return a.serverError(ctx, method, path, httpErr.Code, err)
		case httpErr.Code >= 400:
			return NewText(httpErr.Code, httpErr.Error())
		}
	}

	a.logFailure(req, err)
	return a.serverError(ctx, method, path, http.StatusInternalServerError, err)
}

func (a *App) logFailure(req *Request, err error) {
	attrs := []any{
		slog.String("method", req.Method()),
		slog.String("path", req.Path()),
		slog.String("error", err.Error()),
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	a.logger.ErrorContext(req.Context(), "handler failed", attrs...)
}

// write finalizes resp onto w. Production responses get the default
// security headers; cookies become Set-Cookie lines only here.
func (a *App) write(w http.ResponseWriter, resp *Response, head bool) {
	h := w.Header()
	for _, hd := range resp.headers {
		h.Add(hd.Name, hd.Value)
	}
	if !a.debug {
		for _, sh := range securityHeaders {
			if resp.Header(sh.Name) == "" {
				h.Set(sh.Name, sh.Value)
			}
		}
	}
	for _, c := range resp.cookies {
		c = a.cookiePolicy.Apply(c)
		if err := cookie.Validate(c); err != nil {
			a.logger.Warn("dropping invalid cookie",
				slog.String("name", c.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		h.Add("Set-Cookie", c.String())
	}
	if h.Get("Content-Length") == "" && !bodyless(resp.StatusCode()) {
		h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	}

	w.WriteHeader(resp.StatusCode())
	if !head && len(resp.Body) > 0 && !bodyless(resp.StatusCode()) {
		_, _ = w.Write(resp.Body)
	}
}

// stripBody drops the body of a GET response served for HEAD,
// keeping the Content-Length the GET would have sent.
func stripBody(resp *Response) *Response {
	if resp.Header("Content-Length") == "" && !bodyless(resp.StatusCode()) {
		resp.SetHeader("Content-Length", strconv.Itoa(len(resp.Body)))
	}
	resp.Body = nil
	return resp
}

func bodyless(status int) bool {
	return (status >= 100 && status < 200) || status == http.StatusNoContent || status == http.StatusNotModified
}

func isUnsafe(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// setRoutePattern exposes the matched pattern to transport middleware
// through chi's route context.
func setRoutePattern(r *http.Request, pattern string) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		rctx.RoutePatterns = []string{pattern}
	}
}
