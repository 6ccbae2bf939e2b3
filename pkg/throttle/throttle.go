package throttle

import (
	"context"
	"errors"
	"time"
)

// Default limits: five failures per five minutes.
const (
	DefaultLimit  = 5
	DefaultWindow = 5 * time.Minute
)

// ErrStore wraps failures of the backing store.
var ErrStore = errors.New("throttle: store failure")

// Store counts events per key inside a fixed window that starts with the
// first event.
type Store interface {
	// Incr adds one to key and returns the new count. The first increment
	// starts a window of the given length; the count resets when it ends.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)

	// Count returns the current count for key, 0 when absent or expired.
	Count(ctx context.Context, key string) (int64, error)

	// Reset forgets key.
	Reset(ctx context.Context, key string) error
}

// Limiter blocks a client after too many failed attempts.
//
// Example:
//
//	lim := throttle.New(throttle.NewMemory())
//	if blocked, _ := lim.Exceeded(ctx, r.RemoteIP()); blocked {
//	    return nil, shipy.NewHTTPError(http.StatusTooManyRequests, "Too many attempts")
//	}
type Limiter struct {
	store  Store
	prefix string
	limit  int64
	window time.Duration
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLimit sets how many failures are allowed per window.
func WithLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = int64(n)
		}
	}
}

// WithWindow sets the window length.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.window = d
		}
	}
}

// WithPrefix namespaces keys, so several limiters can share a store.
func WithPrefix(prefix string) Option {
	return func(l *Limiter) {
		l.prefix = prefix
	}
}

// New creates a Limiter over store.
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		prefix: "login:",
		limit:  DefaultLimit,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Exceeded reports whether key has used up its attempts.
func (l *Limiter) Exceeded(ctx context.Context, key string) (bool, error) {
	n, err := l.store.Count(ctx, l.prefix+key)
	if err != nil {
		return false, errors.Join(ErrStore, err)
	}
	return n >= l.limit, nil
}

// Fail records a failed attempt and returns how many remain.
func (l *Limiter) Fail(ctx context.Context, key string) (int64, error) {
	n, err := l.store.Incr(ctx, l.prefix+key, l.window)
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return max(l.limit-n, 0), nil
}

// Reset clears the failures of key, typically after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Reset(ctx, l.prefix+key); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}
