package middlewares

import (
	"net/url"
	"strings"

	"github.com/dmitrymomot/shipy/internal"
	"github.com/dmitrymomot/shipy/pkg/auth"
)

// RequireLogin returns route middleware that sends anonymous visitors to
// loginPath with a 303. The original path is passed along as the "next"
// query parameter.
func RequireLogin(loginPath string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(req *internal.Request) (internal.Result, error) {
			if _, ok := auth.UserID(req); ok {
				return next(req)
			}
			return internal.Redirect(loginURL(loginPath, req.Path())), nil
		}
	}
}

func loginURL(loginPath, back string) string {
	sep := "?"
	if strings.Contains(loginPath, "?") {
		sep = "&"
	}
	return loginPath + sep + "next=" + url.QueryEscape(back)
}
