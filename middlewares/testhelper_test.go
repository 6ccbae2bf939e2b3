package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/shipy/internal"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newApp(t *testing.T, routes func(r internal.Router), opts ...internal.Option) *internal.App {
	t.Helper()
	base := []internal.Option{
		internal.WithSecret(testSecret),
		internal.WithoutStatic(),
		internal.WithRoutes(routes),
	}
	return internal.New(append(base, opts...)...)
}

func get(h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ok(body string) internal.HandlerFunc {
	return func(*internal.Request) (internal.Result, error) {
		return internal.Text(body), nil
	}
}

func newGet(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

func serveReq(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
