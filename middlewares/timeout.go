package middlewares

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/shipy/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Status  int
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutStatus sets the status reported when the deadline passes.
// Defaults to 504 Gateway Timeout.
func WithTimeoutStatus(code int) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		cfg.Status = code
	}
}

type outcome struct {
	res      internal.Result
	err      error
	panicVal any
	stack    []byte
}

// Timeout returns route middleware that puts a deadline on the request
// context. When the handler has not returned by then, the route fails with an
// HTTPError (504 by default) wrapping a *TimeoutError.
//
// The handler goroutine keeps running after the deadline. Long operations
// should watch req.Context().Done() and return early.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Timeout: timeout,
		Status:  http.StatusGatewayTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(req *internal.Request) (internal.Result, error) {
			ctx, cancel := context.WithTimeout(req.Context(), cfg.Timeout)
			defer cancel()

			done := make(chan outcome, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						done <- outcome{panicVal: v, stack: debug.Stack()}
					}
				}()
				res, err := next(req.WithContext(ctx))
				done <- outcome{res: res, err: err}
			}()

			select {
			case o := <-done:
				if o.panicVal != nil {
					if o.panicVal == http.ErrAbortHandler {
						panic(o.panicVal)
					}
					return nil, &internal.PanicError{Value: o.panicVal, Stack: o.stack}
				}
				return o.res, o.err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, internal.NewHTTPError(cfg.Status, http.StatusText(cfg.Status),
						internal.WithError(&TimeoutError{Path: req.Path(), Timeout: cfg.Timeout}))
				}
				return nil, ctx.Err()
			}
		}
	}
}
