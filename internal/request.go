package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	readChunkSize   = 32 << 10
)

// Request is the parsed view of an inbound HTTP request handed to handlers.
//
// Query, path parameters and cookies are available immediately. The body is
// read on demand by LoadBody; for unsafe methods the dispatcher loads it
// before any handler runs.
type Request struct {
	raw     *http.Request
	query   Values
	params  map[string]string
	cookies map[string]string
	body    *bodyState
	sess    *sessionState
}

// bodyState is shared between copies made by WithContext.
type bodyState struct {
	reader      io.ReadCloser
	err         error
	contentType string
	data        []byte
	form        Values
	mu          sync.Mutex
	loaded      bool
}

func newRequest(r *http.Request, params map[string]string, sess *sessionState) *Request {
	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		if _, ok := cookies[c.Name]; !ok {
			cookies[c.Name] = c.Value
		}
	}
	if params == nil {
		params = map[string]string{}
	}

	return &Request{
		raw:     r,
		query:   ParseValues(r.URL.RawQuery),
		params:  params,
		cookies: cookies,
		body: &bodyState{
			reader:      r.Body,
			contentType: r.Header.Get("Content-Type"),
		},
		sess: sess,
	}
}

// Method returns the request method.
func (r *Request) Method() string {
	return r.raw.Method
}

// Path returns the decoded request path.
func (r *Request) Path() string {
	return r.raw.URL.Path
}

// Query returns the decoded query string.
func (r *Request) Query() Values {
	return r.query
}

// Param returns the path parameter captured by name, or "".
// Integer placeholders are validated by the pattern but returned as strings.
func (r *Request) Param(name string) string {
	return r.params[name]
}

// Params returns a copy of all captured path parameters.
func (r *Request) Params() map[string]string {
	out := make(map[string]string, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Cookie returns the value of the named request cookie.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}

// Cookies returns a copy of the request cookies.
// When a name repeats, the first occurrence wins.
func (r *Request) Cookies() map[string]string {
	out := make(map[string]string, len(r.cookies))
	for k, v := range r.cookies {
		out[k] = v
	}
	return out
}

// Header returns the first value of the named request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Headers returns a copy of the request headers.
func (r *Request) Headers() http.Header {
	return r.raw.Header.Clone()
}

// RemoteIP returns the client address without the port.
func (r *Request) RemoteIP() string {
	host, _, err := net.SplitHostPort(r.raw.RemoteAddr)
	if err != nil {
		return r.raw.RemoteAddr
	}
	return host
}

// Context returns the request context.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// WithContext returns a shallow copy of r using ctx.
// The copy shares body and session state with r.
func (r *Request) WithContext(ctx context.Context) *Request {
	cp := *r
	cp.raw = r.raw.WithContext(ctx)
	return &cp
}

// Raw returns the underlying *http.Request.
// Its body must not be read directly; use LoadBody.
func (r *Request) Raw() *http.Request {
	return r.raw
}

// LoadBody reads the whole request body and caches it.
// Form-encoded bodies are also decoded into Form. Subsequent calls return the
// cached result without touching the connection.
//
// A dropped connection or a cancelled ctx yields ErrBodyAborted. On a
// net/http server body the dropped connection surfaces as a read error; Close
// cannot interrupt a blocked server read. Cancelling ctx also closes the body,
// which does unblock readers such as io.Pipe. A body over the configured limit
// yields ErrBodyTooLarge.
func (r *Request) LoadBody(ctx context.Context) ([]byte, error) {
	b := r.body
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loaded {
		return b.data, b.err
	}
	b.loaded = true

	b.data, b.err = readBody(ctx, b.reader)
	if b.err == nil && isFormEncoded(b.contentType) {
		b.form = ParseValues(string(b.data))
	}
	return b.data, b.err
}

// Body returns the loaded body, or nil before LoadBody.
func (r *Request) Body() []byte {
	r.body.mu.Lock()
	defer r.body.mu.Unlock()
	return r.body.data
}

// Form returns the decoded form.
// Empty until LoadBody ran on a form-encoded request.
func (r *Request) Form() Values {
	r.body.mu.Lock()
	defer r.body.mu.Unlock()
	return r.body.form
}

// FormValue returns the first form value for key.
func (r *Request) FormValue(key string) string {
	return r.Form().Get(key)
}

func readBody(ctx context.Context, rc io.ReadCloser) ([]byte, error) {
	if rc == nil || rc == http.NoBody {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrBodyAborted, err)
	}

	// Unblocks pipe-like bodies; net/http server bodies end through the read error.
	stop := context.AfterFunc(ctx, func() { _ = rc.Close() })
	defer stop()

	var (
		buf   bytes.Buffer
		chunk = make([]byte, readChunkSize)
	)
	for {
		n, err := rc.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				return nil, ErrBodyTooLarge
			case ctx.Err() != nil:
				return nil, errors.Join(ErrBodyAborted, ctx.Err())
			default:
				return nil, errors.Join(ErrBodyAborted, err)
			}
		}
	}
}

func isFormEncoded(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == contentTypeForm
}
