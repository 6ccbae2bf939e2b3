package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shipy/internal"
	"github.com/dmitrymomot/shipy/pkg/auth"
	"github.com/dmitrymomot/shipy/pkg/session"
)

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithSecret("0123456789abcdef0123456789abcdef"),
		internal.WithoutStatic(),
		internal.WithRoutes(func(r internal.Router) {
			r.GET("/login/{id:int}", func(req *internal.Request) (internal.Result, error) {
				id, _ := strconv.ParseInt(req.Param("id"), 10, 64)
				resp := internal.Redirect("/me")
				if err := auth.Login(req, resp, id); err != nil {
					return nil, err
				}
				// Visible within the same request.
				if uid, ok := auth.UserID(req); !ok || uid != id {
					return nil, internal.ErrInternal("login not visible")
				}
				return resp, nil
			})
			r.GET("/me", func(req *internal.Request) (internal.Result, error) {
				uid, ok := auth.UserID(req)
				if !ok {
					return internal.Text("anonymous"), nil
				}
				return internal.Text(strconv.FormatInt(uid, 10)), nil
			})
			r.GET("/logout", func(req *internal.Request) (internal.Result, error) {
				resp := internal.Redirect("/me")
				auth.Logout(req, resp)
				return resp, nil
			})
		}),
	)

	get := func(path string, c *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if c != nil {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		return rec
	}
	sessionCookie := func(rec *httptest.ResponseRecorder) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == session.CookieName {
				return c
			}
		}
		return nil
	}

	assert.Equal(t, "anonymous", get("/me", nil).Body.String())

	rec := get("/login/42", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	c := sessionCookie(rec)
	require.NotNil(t, c)

	assert.Equal(t, "42", get("/me", c).Body.String())

	rec = get("/logout", c)
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.Equal(t, "anonymous", get("/me", cleared).Body.String())
}
