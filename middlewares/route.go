package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// unknownRoute labels requests whose route was never resolved.
const unknownRoute = "unmatched"

// routePattern returns the route the app resolved for r.
// Call it after the inner handler has returned.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unknownRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unknownRoute
}
