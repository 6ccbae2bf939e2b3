package internal_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shipy/internal"
	"github.com/dmitrymomot/shipy/pkg/cookie"
	"github.com/dmitrymomot/shipy/pkg/session"
	"github.com/dmitrymomot/shipy/pkg/signer"
)

const (
	testSecret  = "0123456789abcdef0123456789abcdef"
	formType    = "application/x-www-form-urlencoded"
	tokenRoute  = "/_token"
	sessionName = session.CookieName
)

// newApp builds a production-mode app with a token route used by CSRF tests.
func newApp(t *testing.T, routes func(r internal.Router), opts ...internal.Option) *internal.App {
	t.Helper()

	base := []internal.Option{
		internal.WithSecret(testSecret),
		internal.WithoutStatic(),
		internal.WithRoutes(func(r internal.Router) {
			r.GET(tokenRoute, func(req *internal.Request) (internal.Result, error) {
				resp := internal.NewText(http.StatusOK, "")
				resp.Body = []byte(req.CSRFToken(resp))
				return resp, nil
			})
		}),
	}
	if routes != nil {
		base = append(base, internal.WithRoutes(routes))
	}
	return internal.New(append(base, opts...)...)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// csrfSession fetches a CSRF token and the session cookie that carries it.
func csrfSession(t *testing.T, app http.Handler) (string, *http.Cookie) {
	t.Helper()
	rec := serve(app, httptest.NewRequest(http.MethodGet, tokenRoute, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, sessionName)
	require.NotNil(t, c)
	return rec.Body.String(), c
}

func postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", formType)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRouting(t *testing.T) {
	t.Parallel()

	app := newApp(t, func(r internal.Router) {
		r.GET("/todos/{id:int}/toggle", func(req *internal.Request) (internal.Result, error) {
			return internal.Text("todo " + req.Param("id")), nil
		})
		r.GET("/hello", func(req *internal.Request) (internal.Result, error) {
			resp := internal.NewText(http.StatusOK, "hello world")
			resp.AddHeader("X-Custom", "1")
			return resp, nil
		})
		r.GET("/html", func(*internal.Request) (internal.Result, error) {
			return internal.HTML("<b>hi</b>"), nil
		})
		r.GET("/empty", func(*internal.Request) (internal.Result, error) {
			return nil, nil
		})
		r.GET("/go", func(*internal.Request) (internal.Result, error) {
			return internal.Redirect("/hello"), nil
		})
		r.GET("/search", func(req *internal.Request) (internal.Result, error) {
			return internal.Text(strings.Join(req.Query().All("tag"), ",") + "|" + req.Query().Get("q")), nil
		})
	})

	t.Run("path parameters", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/todos/42/toggle", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "todo 42", rec.Body.String())
	})

	t.Run("int placeholder rejects letters", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/todos/abc/toggle", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found", rec.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodPost, "/hello", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	})

	t.Run("head shim", func(t *testing.T) {
		t.Parallel()
		get := serve(app, httptest.NewRequest(http.MethodGet, "/hello", nil))
		head := serve(app, httptest.NewRequest(http.MethodHead, "/hello", nil))

		assert.Equal(t, get.Code, head.Code)
		assert.Empty(t, head.Body.String())
		assert.Equal(t, "11", head.Header().Get("Content-Length"))
		for _, name := range []string{"Content-Type", "X-Custom", "Content-Length"} {
			assert.Equal(t, get.Header().Get(name), head.Header().Get(name), name)
		}
	})

	t.Run("result coercion", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/html", nil))
		assert.Equal(t, "<b>hi</b>", rec.Body.String())
		assert.Equal(t, internal.ContentTypeHTML, rec.Header().Get("Content-Type"))

		rec = serve(app, httptest.NewRequest(http.MethodGet, "/empty", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/go", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/hello", rec.Header().Get("Location"))
	})

	t.Run("query", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/search?tag=a&q=x+y&tag=b", nil))
		assert.Equal(t, "a,b|x y", rec.Body.String())
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := serve(app, httptest.NewRequest(method, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "OK", rec.Body.String(), method)
	}

	rec := serve(app, httptest.NewRequest(http.MethodHead, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.unknownext"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.txt"), []byte("top secret"), 0o644))
	symlinked := os.Symlink(filepath.Join(base, "secret.txt"), filepath.Join(root, "escape.txt")) == nil

	app := newApp(t, func(r internal.Router) {
		r.POST("/public/upload", func(*internal.Request) (internal.Result, error) {
			return internal.Text("upload"), nil
		})
	}, internal.WithStatic("/public/", root))

	t.Run("serves file", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/public/css/site.css", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	})

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/public/blob.unknownext", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	})

	t.Run("head", func(t *testing.T) {
		t.Parallel()
		rec := serve(app, httptest.NewRequest(http.MethodHead, "/public/css/site.css", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	})

	rejected := []string{
		"/public/../../etc/passwd",
		"/public/../secret.txt",
		"/public/%2e%2e/secret.txt",
		"/public/css/../../secret.txt",
		"/public/css",
		"/public/css/",
		"/public/",
		"/public//etc/passwd",
		"/public/missing.txt",
	}
	for _, p := range rejected {
		t.Run("rejects "+p, func(t *testing.T) {
			t.Parallel()
			rec := serve(app, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NotContains(t, rec.Body.String(), "top secret")
		})
	}

	t.Run("symlink escape", func(t *testing.T) {
		t.Parallel()
		if !symlinked {
			t.Skip("symlinks not supported")
		}
		rec := serve(app, httptest.NewRequest(http.MethodGet, "/public/escape.txt", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "top secret")
	})

	t.Run("unsafe methods go to routes", func(t *testing.T) {
		t.Parallel()
		token, c := csrfSession(t, app)
		rec := serve(app, postForm("/public/upload", url.Values{"csrf": {token}}, c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "upload", rec.Body.String())
	})
}

func TestCSRF(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	app := newApp(t, func(r internal.Router) {
		r.POST("/todos", func(*internal.Request) (internal.Result, error) {
			calls.Add(1)
			return internal.Text("created"), nil
		})
		r.DELETE("/todos/{id:int}", func(*internal.Request) (internal.Result, error) {
			calls.Add(1)
			return internal.Text("deleted"), nil
		})
	})

	t.Run("missing token", func(t *testing.T) {
		before := calls.Load()
		rec := serve(app, postForm("/todos", url.Values{"title": {"x"}}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Forbidden (CSRF)", rec.Body.String())
		assert.Equal(t, before, calls.Load(), "handler must not run")
	})

	t.Run("session without submitted token", func(t *testing.T) {
		before := calls.Load()
		_, c := csrfSession(t, app)
		rec := serve(app, postForm("/todos", url.Values{"title": {"x"}}, c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, before, calls.Load())
	})

	t.Run("wrong token", func(t *testing.T) {
		_, c := csrfSession(t, app)
		rec := serve(app, postForm("/todos", url.Values{"csrf": {"nope"}}, c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("token from another session", func(t *testing.T) {
		token, _ := csrfSession(t, app)
		_, other := csrfSession(t, app)
		rec := serve(app, postForm("/todos", url.Values{"csrf": {token}}, other))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		before := calls.Load()
		token, c := csrfSession(t, app)
		rec := serve(app, postForm("/todos", url.Values{"csrf": {token}, "title": {"x"}}, c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "created", rec.Body.String())
		assert.Equal(t, before+1, calls.Load())
	})

	t.Run("token is stable within a session", func(t *testing.T) {
		token, c := csrfSession(t, app)
		req := httptest.NewRequest(http.MethodGet, tokenRoute, nil)
		req.AddCookie(c)
		rec := serve(app, req)
		assert.Equal(t, token, rec.Body.String())
		assert.Nil(t, findCookie(rec, sessionName), "existing token must not rewrite the session")
	})

	t.Run("header fallback", func(t *testing.T) {
		token, c := csrfSession(t, app)
		req := httptest.NewRequest(http.MethodDelete, "/todos/7", nil)
		req.Header.Set("X-CSRF-Token", token)
		req.AddCookie(c)
		rec := serve(app, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "deleted", rec.Body.String())
	})
}

func TestCSRFPreseed(t *testing.T) {
	t.Parallel()

	app := newApp(t, func(r internal.Router) {
		r.GET("/", func(*internal.Request) (internal.Result, error) {
			return internal.HTML("home"), nil
		})
		r.POST("/signup", func(*internal.Request) (internal.Result, error) {
			return internal.Text("welcome"), nil
		})
	}, internal.WithCSRFPreseed())

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	c := findCookie(rec, sessionName)
	require.NotNil(t, c, "first page view must seed a token")

	s, err := signer.New(testSecret)
	require.NoError(t, err)
	token, ok := session.String(session.NewCodec(s).Unpack(c.Value), session.CSRFKey)
	require.True(t, ok)

	rec = serve(app, postForm("/signup", url.Values{"csrf": {token}}, c))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Nil(t, findCookie(serve(app, req), sessionName), "seeded session is not rewritten")
}

func TestSessionAndFlash(t *testing.T) {
	t.Parallel()

	app := newApp(t, func(r internal.Router) {
		r.GET("/login/{id:int}", func(req *internal.Request) (internal.Result, error) {
			resp := internal.Redirect("/whoami")
			v := req.Session()
			v["uid"] = req.Param("id")
			if err := req.SaveSession(resp, v); err != nil {
				return nil, err
			}
			return resp, req.AddFlash(resp, "signed in", session.FlashSuccess)
		})
		r.GET("/whoami", func(req *internal.Request) (internal.Result, error) {
			resp := internal.NewText(http.StatusOK, "")
			uid, ok := session.String(req.Session(), "uid")
			if !ok {
				uid = "anon"
			}
			var msgs []string
			for _, f := range req.Flashes(resp) {
				msgs = append(msgs, f.Kind+":"+f.Msg)
			}
			resp.Body = []byte(uid + "|" + strings.Join(msgs, ","))
			return resp, nil
		})
		r.GET("/logout", func(req *internal.Request) (internal.Result, error) {
			resp := internal.Redirect("/")
			req.ClearSession(resp)
			return resp, nil
		})
	})

	login := serve(app, httptest.NewRequest(http.MethodGet, "/login/7", nil))
	require.Equal(t, http.StatusSeeOther, login.Code)
	setCookies := login.Result().Header.Values("Set-Cookie")
	require.Len(t, setCookies, 1, "one directive per cookie name")
	c := findCookie(login, sessionName)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Secure, "production forces Secure")

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(c)
	first := serve(app, req)
	assert.Equal(t, "7|success:signed in", first.Body.String())

	cleared := findCookie(first, sessionName)
	require.NotNil(t, cleared, "reading flashes rewrites the session")
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cleared)
	second := serve(app, req)
	assert.Equal(t, "7|", second.Body.String())
	assert.Nil(t, findCookie(second, sessionName), "no flashes, no rewrite")

	t.Run("tampered cookie is anonymous", func(t *testing.T) {
		bad := *c
		b := []byte(bad.Value)
		b[len(b)/2] ^= 0x01
		bad.Value = string(b)
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&bad)
		assert.Equal(t, "anon|", serve(app, req).Body.String())
	})

	t.Run("logout expires the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(c)
		rec := serve(app, req)
		out := findCookie(rec, sessionName)
		require.NotNil(t, out)
		assert.Empty(t, out.Value)
		assert.Equal(t, -1, out.MaxAge)
	})
}

func TestBodyLoading(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	app := newApp(t, func(r internal.Router) {
		r.POST("/echo", func(req *internal.Request) (internal.Result, error) {
			calls.Add(1)
			first, err := req.LoadBody(req.Context())
			if err != nil {
				return nil, err
			}
			tags := strings.Join(req.Form().All("tag"), ",")
			second, err := req.LoadBody(req.Context())
			if err != nil {
				return nil, err
			}
			if string(first) != string(second) || tags != strings.Join(req.Form().All("tag"), ",") {
				return nil, errors.New("body changed between loads")
			}
			return internal.Text(tags + "|" + strings.Join(req.Form().Keys(), ",")), nil
		})
		r.POST("/raw", func(req *internal.Request) (internal.Result, error) {
			calls.Add(1)
			return internal.Text(string(req.Body()) + "|" + req.FormValue("csrf")), nil
		})
	}, internal.WithMaxBodySize(256))

	t.Run("idempotent form decoding", func(t *testing.T) {
		token, c := csrfSession(t, app)
		req := httptest.NewRequest(http.MethodPost, "/echo",
			strings.NewReader("tag=b&csrf="+token+"&tag=a&note=hi"))
		req.Header.Set("Content-Type", formType+"; charset=utf-8")
		req.AddCookie(c)
		rec := serve(app, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "b,a|tag,csrf,note", rec.Body.String())
	})

	t.Run("non-form body is raw", func(t *testing.T) {
		token, c := csrfSession(t, app)
		req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-CSRF-Token", token)
		req.AddCookie(c)
		rec := serve(app, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"a":1}|`, rec.Body.String())
	})

	t.Run("too large", func(t *testing.T) {
		before := calls.Load()
		req := httptest.NewRequest(http.MethodPost, "/raw", strings.NewReader(strings.Repeat("x", 1024)))
		req.Header.Set("Content-Type", formType)
		rec := serve(app, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, before, calls.Load())
	})

	t.Run("broken connection abandons request", func(t *testing.T) {
		before := calls.Load()
		req := httptest.NewRequest(http.MethodPost, "/raw", io.MultiReader(
			strings.NewReader("csrf="),
			errReader{errors.New("connection reset")},
		))
		req.Header.Set("Content-Type", formType)
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			serve(app, req)
		})
		assert.Equal(t, before, calls.Load())
	})

	t.Run("cancelled while waiting for body", func(t *testing.T) {
		before := calls.Load()
		pr, pw := io.Pipe()
		defer pw.Close()

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodPost, "/raw", pr).WithContext(ctx)
		req.Header.Set("Content-Type", formType)

		go func() {
			_, _ = pw.Write([]byte("csrf="))
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			serve(app, req)
		})
		assert.Equal(t, before, calls.Load())
	})
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestErrorPages(t *testing.T) {
	t.Parallel()

	routes := func(r internal.Router) {
		r.GET("/panic", func(*internal.Request) (internal.Result, error) {
			panic("boom")
		})
		r.GET("/fail", func(*internal.Request) (internal.Result, error) {
			return nil, errors.New("database exploded")
		})
		r.GET("/forbidden", func(*internal.Request) (internal.Result, error) {
			return nil, internal.ErrForbidden("members only")
		})
		r.GET("/gone", func(*internal.Request) (internal.Result, error) {
			return nil, internal.ErrNotFound("no such todo")
		})
		r.GET("/unavailable", func(*internal.Request) (internal.Result, error) {
			return nil, internal.ErrServiceUnavailable("maintenance")
		})
	}

	t.Run("development shows the trace", func(t *testing.T) {
		t.Parallel()
		app := internal.New(internal.WithDebug(true), internal.WithoutStatic(), internal.WithRoutes(routes))

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "panic: boom")
		assert.Contains(t, rec.Body.String(), "Stack trace")
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Empty(t, rec.Header().Get("X-Frame-Options"), "no security headers in development")

		rec = serve(app, httptest.NewRequest(http.MethodGet, "/fail", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "database exploded")
	})

	t.Run("production hides the trace", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, routes)

		for _, p := range []string{"/panic", "/fail"} {
			rec := serve(app, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "Internal Server Error", rec.Body.String())
		}

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/unavailable", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Service Unavailable", rec.Body.String())
	})

	t.Run("http errors", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, routes)

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/forbidden", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "members only", rec.Body.String())

		rec = serve(app, httptest.NewRequest(http.MethodGet, "/gone", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found", rec.Body.String())
	})

	t.Run("custom templates", func(t *testing.T) {
		t.Parallel()
		first := t.TempDir()
		second := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(first, "404.html"),
			[]byte(`<h1>Lost: {{.Path}}</h1>`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(second, "404.html"),
			[]byte(`shadowed`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(second, "500.html"),
			[]byte(`<h1>Sorry ({{.Status}})</h1>`), 0o644))

		app := newApp(t, routes, internal.WithErrorTemplates(filepath.Join(first, "missing"), first, second))

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/nowhere/<x>", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "<h1>Lost: /nowhere/&lt;x&gt;</h1>", rec.Body.String())

		rec = serve(app, httptest.NewRequest(http.MethodGet, "/gone", nil))
		assert.Contains(t, rec.Body.String(), "Lost: /gone")

		rec = serve(app, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "<h1>Sorry (500)</h1>", rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestProductionResponse(t *testing.T) {
	t.Parallel()

	app := newApp(t, func(r internal.Router) {
		r.GET("/", func(*internal.Request) (internal.Result, error) {
			resp := internal.NewHTML(http.StatusOK, "home")
			resp.SetHeader("X-Frame-Options", "SAMEORIGIN")
			resp.SetCookie("theme", "dark", cookie.WithSecure(false), cookie.WithMaxAge(60))
			return resp, nil
		})
	})

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"), "handler value wins")

	c := findCookie(rec, "theme")
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.Equal(t, 60, c.MaxAge)

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), "error responses are hardened too")

	dev := internal.New(internal.WithDebug(true), internal.WithoutStatic(), internal.WithRoutes(func(r internal.Router) {
		r.GET("/", func(*internal.Request) (internal.Result, error) {
			resp := internal.NewHTML(http.StatusOK, "home")
			resp.SetCookie("theme", "dark")
			return resp, nil
		})
	}))
	rec = serve(dev, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("X-Content-Type-Options"))
	c = findCookie(rec, "theme")
	require.NotNil(t, c)
	assert.False(t, c.Secure)
}

func TestNewPanicsOnBadConfig(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { internal.New() }, "production without secret")
	assert.Panics(t, func() { internal.New(internal.WithSecret("short")) }, "weak secret")
	assert.NotPanics(t, func() { internal.New(internal.WithDebug(true)) })
	assert.NotPanics(t, func() { internal.New(internal.WithSecret(testSecret)) })

	msg := func() (out string) {
		defer func() { out, _ = recover().(string) }()
		internal.New(internal.WithSecret(testSecret), internal.WithRoutes(func(r internal.Router) {
			r.GET("/todos/{id", func(*internal.Request) (internal.Result, error) { return nil, nil })
		}))
		return ""
	}()
	assert.Contains(t, msg, "invalid route pattern")
	assert.Contains(t, msg, "/todos/{id")
}

type todoHandler struct{}

func (todoHandler) Routes(r internal.Router) {
	r.Route("/todos", func(r internal.Router) {
		r.GET("/", func(*internal.Request) (internal.Result, error) { return internal.Text("list"), nil })
		r.GET("/{id:int}", func(req *internal.Request) (internal.Result, error) {
			return internal.Text("show " + req.Param("id")), nil
		})
	})
}

func TestHandlersAndMiddleware(t *testing.T) {
	t.Parallel()

	tag := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(req *internal.Request) (internal.Result, error) {
			res, err := next(req)
			if err != nil {
				return nil, err
			}
			resp := res.AsResponse()
			resp.AddHeader("X-Tagged", "yes")
			return resp, nil
		}
	}

	app := internal.New(
		internal.WithSecret(testSecret),
		internal.WithMiddleware(tag),
		internal.WithHandlers(todoHandler{}),
	)

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.Equal(t, "list", rec.Body.String())
	assert.Equal(t, "yes", rec.Header().Get("X-Tagged"))

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/todos/3", nil))
	assert.Equal(t, "show 3", rec.Body.String())
}

func TestTransportMounts(t *testing.T) {
	t.Parallel()

	var seen atomic.Int32
	app := newApp(t, nil,
		internal.WithHTTPMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen.Add(1)
				next.ServeHTTP(w, r)
			})
		}),
		internal.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		})),
		internal.WithHealthChecks(
			internal.WithReadinessCheck("db", func(context.Context) error { return nil }),
		),
	)

	assert.Equal(t, "metrics", serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String())
	assert.Equal(t, "OK", serve(app, httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Body.String())
	assert.Equal(t, http.StatusNotFound, serve(app, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, int32(3), seen.Load())

	for _, path := range []string{"/metrics", "/health/ready"} {
		rec := serve(app, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"), path)

		rec = serve(app, httptest.NewRequest(http.MethodHead, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "HEAD "+path)
	}
}

func TestFlushSession(t *testing.T) {
	t.Parallel()

	app := newApp(t, func(r internal.Router) {
		r.GET("/deferred", func(req *internal.Request) (internal.Result, error) {
			token := req.CSRFToken(nil)
			resp := internal.NewText(http.StatusOK, token)
			return resp, req.FlushSession(resp)
		})
		r.GET("/clean", func(req *internal.Request) (internal.Result, error) {
			resp := internal.NewText(http.StatusOK, "")
			return resp, req.FlushSession(resp)
		})
		r.GET("/check", func(req *internal.Request) (internal.Result, error) {
			token, _ := session.String(req.Session(), session.CSRFKey)
			return internal.Text(token), nil
		})
	})

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/deferred", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, sessionName)
	require.NotNil(t, c, "pending token must be flushed")

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	req.AddCookie(c)
	assert.Equal(t, rec.Body.String(), serve(app, req).Body.String())

	rec = serve(app, httptest.NewRequest(http.MethodGet, "/clean", nil))
	assert.Nil(t, findCookie(rec, sessionName))
}
