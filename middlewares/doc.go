// Package middlewares provides HTTP middleware for shipy applications.
//
// Two kinds exist. Transport middleware has the net/http shape and wraps the
// whole app, including static files and unmatched paths; install it with
// WithHTTPMiddleware. Route middleware wraps handlers and sees the parsed
// *shipy.Request; install it with WithMiddleware, Router.Use or per route.
//
// # Transport middleware
//
//	reg := prometheus.NewRegistry()
//	app := shipy.New(
//	    shipy.WithLogger("web", middlewares.RequestIDExtractor()),
//	    shipy.WithHTTPMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Tracing(),
//	        middlewares.Metrics(middlewares.WithMetricsRegistry(reg)),
//	        middlewares.AccessLog(log),
//	    ),
//	    shipy.WithMetricsHandler(middlewares.MetricsHandler(reg)),
//	)
//
// RequestID goes first so every later log line carries the ID. Metrics and
// tracing label requests by route pattern, read after the app resolved it.
//
// # Route middleware
//
// Timeout puts a deadline on the request context and answers 504 when the
// handler overruns it. RequireLogin redirects anonymous visitors:
//
//	r.Group(func(r shipy.Router) {
//	    r.Use(middlewares.RequireLogin("/login"))
//	    r.GET("/account", h.account, middlewares.Timeout(5*time.Second))
//	})
package middlewares
