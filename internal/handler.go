package internal

// Handler declares routes on a router.
//
// Example:
//
//	type TodoHandler struct {
//	    pool *pgxpool.Pool
//	}
//
//	func (h *TodoHandler) Routes(r shipy.Router) {
//	    r.GET("/todos", h.list)
//	    r.POST("/todos/{id:int}/toggle", h.toggle)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives the parsed Request and returns a Result to send back.
// A non-nil error is turned into an error response by the dispatcher.
type HandlerFunc func(r *Request) (Result, error)

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect the request, short-circuit processing,
// or replace the result.
//
// Example:
//
//	func Auth(next shipy.HandlerFunc) shipy.HandlerFunc {
//	    return func(r *shipy.Request) (shipy.Result, error) {
//	        if _, ok := auth.UserID(r); !ok {
//	            return shipy.Redirect("/login"), nil
//	        }
//	        return next(r)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// Result is anything a handler can return.
// The dispatcher converts it once, via AsResponse.
type Result interface {
	AsResponse() *Response
}

// HTML is a Result rendered as a 200 text/html response.
type HTML string

func (h HTML) AsResponse() *Response {
	return NewHTML(200, string(h))
}

// Text is a Result rendered as a 200 text/plain response.
type Text string

func (t Text) AsResponse() *Response {
	return NewText(200, string(t))
}

// toResponse applies the coercion rules for handler results.
// A nil result, or one that converts to nil, becomes an empty 200 HTML page.
func toResponse(res Result) *Response {
	if res == nil {
		return NewHTML(200, "")
	}
	resp := res.AsResponse()
	if resp == nil {
		return NewHTML(200, "")
	}
	return resp
}
