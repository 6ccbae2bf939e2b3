// Package shipy provides a small, opinionated HTTP runtime for server-rendered
// Go applications.
//
// Shipy keeps the request pipeline explicit: a route table of regular
// expressions matched in registration order, handlers that take a [Request]
// and return a [Result], signed cookie sessions, a CSRF guard on every unsafe
// method and error pages that show the trace in development and nothing in
// production.
//
// # Quick Start
//
//	app := shipy.New(
//	    shipy.WithSecret(os.Getenv("SHIPY_SECRET")),
//	    shipy.WithRoutes(func(r shipy.Router) {
//	        r.GET("/", func(r *shipy.Request) (shipy.Result, error) {
//	            return shipy.HTML("<h1>Hello</h1>"), nil
//	        })
//	    }),
//	)
//
//	if err := app.Run(":8000"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
// Patterns are literal paths with placeholders. "{name}" matches one path
// segment, "{name:int}" matches digits only:
//
//	r.GET("/todos/{id:int}", h.show)
//	r.POST("/todos/{id:int}/toggle", h.toggle)
//
// The first registered route matching both path and method wins. A path that
// matches only under other methods is answered with 405 and an Allow header.
// HEAD requests fall back to the GET route with the body dropped.
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type TodoHandler struct {
//	    pool *pgxpool.Pool
//	}
//
//	func (h *TodoHandler) Routes(r shipy.Router) {
//	    r.GET("/", h.list)
//	    r.POST("/todos", h.create)
//	}
//
//	func (h *TodoHandler) create(r *shipy.Request) (shipy.Result, error) {
//	    title := r.FormValue("title")
//	    ...
//	    resp := shipy.Redirect("/")
//	    return resp, r.AddFlash(resp, "Todo created", session.FlashSuccess)
//	}
//
// A handler may return [HTML], [Text], a [*Response], or nil for an empty
// 200 page. Returning an [HTTPError] picks the status; any other error is a
// 500.
//
// # Sessions and CSRF
//
// The session is a JSON mapping signed with HMAC-SHA256 and stored in the
// "shipy" cookie. A missing, tampered or malformed cookie reads as an empty
// session. POST, PUT, PATCH and DELETE requests must carry the session's
// token in the "csrf" form field or the X-CSRF-Token header:
//
//	token := r.CSRFToken(resp)
//	// <input type="hidden" name="csrf" value="{token}">
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns:
//
//	func Timing(log *slog.Logger) shipy.Middleware {
//	    return func(next shipy.HandlerFunc) shipy.HandlerFunc {
//	        return func(r *shipy.Request) (shipy.Result, error) {
//	            start := time.Now()
//	            res, err := next(r)
//	            log.Info("handled", "path", r.Path(), "duration", time.Since(start))
//	            return res, err
//	        }
//	    }
//	}
//
// Transport-level middleware ([WithHTTPMiddleware]) runs for every request,
// including static files and error responses.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup
// functions with [ShutdownHook]:
//
//	app.Run(":8000", shipy.ShutdownHook(db.Shutdown(pool)))
package shipy
