package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/shipy/pkg/cookie"
)

// Content types set by the response constructors.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Header is a single response header line.
type Header struct {
	Name  string
	Value string
}

// Response accumulates status, headers, body and cookie directives.
// Headers keep insertion order and may repeat. Cookies are kept apart
// and only turned into Set-Cookie headers when the response is written.
type Response struct {
	headers []Header
	cookies []*http.Cookie

	// Body is the full response body.
	Body []byte

	// Status is the HTTP status code. Zero means 200.
	Status int
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// NewHTML creates a text/html response.
func NewHTML(status int, body string) *Response {
	r := &Response{Status: status, Body: []byte(body)}
	r.AddHeader("Content-Type", ContentTypeHTML)
	return r
}

// NewText creates a text/plain response.
func NewText(status int, body string) *Response {
	r := &Response{Status: status, Body: []byte(body)}
	r.AddHeader("Content-Type", ContentTypeText)
	return r
}

// Redirect creates a 303 See Other response to url.
func Redirect(url string) *Response {
	return RedirectWithStatus(http.StatusSeeOther, url)
}

// RedirectWithStatus creates a redirect with an explicit 3xx status.
func RedirectWithStatus(status int, url string) *Response {
	r := &Response{Status: status}
	r.AddHeader("Location", url)
	return r
}

// JSON creates an application/json response from v.
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	r := &Response{Status: status, Body: body}
	r.AddHeader("Content-Type", ContentTypeJSON)
	return r, nil
}

// Render creates a text/html response from a templ component.
func Render(ctx context.Context, status int, c templ.Component) (*Response, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	r := &Response{Status: status, Body: buf.Bytes()}
	r.AddHeader("Content-Type", ContentTypeHTML)
	return r, nil
}

// AsResponse implements Result.
func (r *Response) AsResponse() *Response {
	return r
}

// StatusCode returns the effective status code.
func (r *Response) StatusCode() int {
	if r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// AddHeader appends a header line. Existing lines with the same name are kept.
func (r *Response) AddHeader(name, value string) *Response {
	r.headers = append(r.headers, Header{Name: http.CanonicalHeaderKey(name), Value: value})
	return r
}

// SetHeader replaces every line named name with a single line,
// placed where the first one was.
func (r *Response) SetHeader(name, value string) *Response {
	name = http.CanonicalHeaderKey(name)
	for i, h := range r.headers {
		if h.Name == name {
			r.headers[i].Value = value
			r.headers = append(r.headers[:i+1], deleteHeader(r.headers[i+1:], name)...)
			return r
		}
	}
	return r.AddHeader(name, value)
}

// DelHeader removes every line named name.
func (r *Response) DelHeader(name string) *Response {
	r.headers = deleteHeader(r.headers, http.CanonicalHeaderKey(name))
	return r
}

// Header returns the first value for name, or "".
func (r *Response) Header(name string) string {
	name = http.CanonicalHeaderKey(name)
	for _, h := range r.headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// Headers returns a copy of the header lines in insertion order.
func (r *Response) Headers() []Header {
	return append([]Header(nil), r.headers...)
}

// SetCookie records a Set-Cookie directive.
// Defaults are Path "/", HttpOnly and SameSite=Lax. A later directive for
// the same name, path and domain replaces the earlier one.
func (r *Response) SetCookie(name, value string, opts ...cookie.Option) *Response {
	r.putCookie(cookie.New(name, value, opts...))
	return r
}

// DeleteCookie records a directive that expires the cookie (empty value, Max-Age=0).
func (r *Response) DeleteCookie(name string, opts ...cookie.Option) *Response {
	r.putCookie(cookie.Expire(name, opts...))
	return r
}

// Cookies returns copies of the pending cookie directives.
func (r *Response) Cookies() []*http.Cookie {
	out := make([]*http.Cookie, len(r.cookies))
	for i, c := range r.cookies {
		cp := *c
		out[i] = &cp
	}
	return out
}

func (r *Response) putCookie(c *http.Cookie) {
	for i, existing := range r.cookies {
		if existing.Name == c.Name && existing.Path == c.Path && existing.Domain == c.Domain {
			r.cookies[i] = c
			return
		}
	}
	r.cookies = append(r.cookies, c)
}

func deleteHeader(headers []Header, name string) []Header {
	out := headers[:0]
	for _, h := range headers {
		if h.Name != name {
			out = append(out, h)
		}
	}
	return out
}
