package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/shipy/pkg/render"
)

// Error template names looked up in the configured directories.
const (
	notFoundTemplate    = "404.html"
	serverErrorTemplate = "500.html"
)

// errorPageData is passed to custom error templates.
type errorPageData struct {
	Method  string
	Path    string
	Title   string
	Message string
	Status  int
}

// notFound renders the 404 page, preferring a custom template.
func (a *App) notFound(ctx context.Context, method, path string) *Response {
	if a.errorPages.Has(notFoundTemplate) {
		body, err := a.errorPages.Render(notFoundTemplate, errorPageData{
			Method:  method,
			Path:    path,
			Status:  http.StatusNotFound,
			Title:   http.StatusText(http.StatusNotFound),
			Message: "The page you are looking for does not exist.",
		})
		if err == nil {
			return NewHTML(http.StatusNotFound, body)
		}
		a.logger.ErrorContext(ctx, "failed to render error template",
			slog.String("template", notFoundTemplate),
			slog.String("error", err.Error()),
		)
	}
	return NewText(http.StatusNotFound, "Not Found")
}

// serverError renders a 5xx page for err.
// Development mode shows the failure with its trace; production never does.
func (a *App) serverError(ctx context.Context, method, path string, status int, err error) *Response {
	if a.debug {
		resp, rerr := Render(ctx, status, debugPage(method, path, status, err))
		if rerr == nil {
			return resp
		}
		return NewText(status, fmt.Sprintf("%d %s\n\n%v", status, http.StatusText(status), err))
	}

	if a.errorPages.Has(serverErrorTemplate) {
		body, rerr := a.errorPages.Render(serverErrorTemplate, errorPageData{
			Method:  method,
			Path:    path,
			Status:  status,
			Title:   http.StatusText(status),
			Message: "Something went wrong on our side.",
		})
		if rerr == nil {
			return NewHTML(status, body)
		}
		a.logger.ErrorContext(ctx, "failed to render error template",
			slog.String("template", serverErrorTemplate),
			slog.String("error", rerr.Error()),
		)
	}
	return NewText(status, http.StatusText(status))
}

// debugPage is the development error page.
func debugPage(method, path string, status int, err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := fmt.Sprintf("%d %s", status, http.StatusText(status))

		var b strings.Builder
		b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><title>`)
		b.WriteString(templ.EscapeString(title))
		b.WriteString(`</title><style>body{font-family:system-ui,sans-serif;margin:2rem;color:#222}` +
			`pre{background:#f6f6f6;padding:1rem;overflow:auto;font-size:13px}h1{color:#b00}</style></head><body>`)
		b.WriteString(`<h1>` + templ.EscapeString(title) + `</h1>`)
		b.WriteString(`<p><code>` + templ.EscapeString(method+" "+path) + `</code></p>`)
		b.WriteString(`<h2>` + templ.EscapeString(fmt.Sprintf("%T", err)) + `</h2>`)
		b.WriteString(`<pre>` + templ.EscapeString(err.Error()) + `</pre>`)

		if chain := errorChain(err); len(chain) > 1 {
			b.WriteString(`<h3>Error chain</h3><pre>`)
			for i, e := range chain {
				fmt.Fprintf(&b, "%d. %s\n", i, templ.EscapeString(fmt.Sprintf("%T: %v", e, e)))
			}
			b.WriteString(`</pre>`)
		}

		var pe *PanicError
		if errors.As(err, &pe) && len(pe.Stack) > 0 {
			b.WriteString(`<h3>Stack trace</h3><pre>` + templ.EscapeString(string(pe.Stack)) + `</pre>`)
		}
		b.WriteString(`</body></html>`)

		_, werr := io.WriteString(w, b.String())
		return werr
	})
}

// errorChain flattens err and everything it wraps.
func errorChain(err error) []error {
	var out []error
	for err != nil {
		out = append(out, err)
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				out = append(out, errorChain(e)...)
			}
			return out
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return out
		}
	}
	return out
}

// loadErrorPages loads custom error templates; nil when none are configured.
func loadErrorPages(dirs []string) (*render.Engine, error) {
	if len(dirs) == 0 {
		return nil, nil
	}
	return render.New(dirs...)
}
