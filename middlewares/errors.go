package middlewares

import (
	"context"
	"fmt"
	"time"
)

// TimeoutError is wrapped by the HTTPError Timeout returns when a handler
// misses its deadline. errors.Is(err, context.DeadlineExceeded) holds for it.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no response within %s", e.Path, e.Timeout)
}

// Is reports a match for context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}
