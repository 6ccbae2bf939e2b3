package internal

import (
	"net/http"
	"slices"
	"strings"
)

// Router is the interface handlers use to declare routes.
//
// Path patterns are literal paths with placeholders: {name} captures one
// segment, {name:int} captures one or more digits. Both are exposed as strings
// through Request.Param. Routes are matched in registration order.
type Router interface {
	// GET registers a handler for GET requests.
	// HEAD requests are served by the same handler with the body suppressed.
	GET(path string, h HandlerFunc, mw ...Middleware)

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc, mw ...Middleware)

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc, mw ...Middleware)

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc, mw ...Middleware)

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc, mw ...Middleware)

	// Handle registers a handler for an arbitrary method.
	Handle(method, path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline route group sharing middleware but no prefix.
	Group(fn func(r Router))

	// Route creates a route group with a path prefix.
	Route(prefix string, fn func(r Router))

	// Use appends middleware for routes registered after the call.
	Use(mw ...Middleware)
}

// routerAdapter registers routes into the app's route table.
type routerAdapter struct {
	table       *routeTable
	prefix      string
	middlewares []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, path, h, mw...)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, path, h, mw...)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mw...)
}

func (r *routerAdapter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	if h != nil {
		h = r.wrap(h, mw...)
	}
	r.table.add(method, joinPath(r.prefix, path), h)
}

func (r *routerAdapter) Group(fn func(r Router)) {
	fn(&routerAdapter{
		table:       r.table,
		prefix:      r.prefix,
		middlewares: slices.Clone(r.middlewares),
	})
}

func (r *routerAdapter) Route(prefix string, fn func(r Router)) {
	fn(&routerAdapter{
		table:       r.table,
		prefix:      joinPath(r.prefix, prefix),
		middlewares: slices.Clone(r.middlewares),
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// wrap applies router-level then route-level middleware.
// The first middleware registered is the outermost.
func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) HandlerFunc {
	all := make([]Middleware, 0, len(r.middlewares)+len(mw))
	all = append(all, r.middlewares...)
	all = append(all, mw...)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i] != nil {
			h = all[i](h)
		}
	}
	return h
}

// joinPath joins a group prefix and a route path.
func joinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if path == "" || path == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return prefix + path
}
