package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

var (
	// ErrCheckFailed is wrapped by Run when at least one check fails.
	ErrCheckFailed = errors.New("health: check failed")
	// ErrCheckTimeout is wrapped too when the shared deadline was hit.
	ErrCheckTimeout = errors.New("health: check timeout")
)

// CheckFunc probes one dependency. db.Healthcheck and redis.Healthcheck
// return one.
type CheckFunc func(ctx context.Context) error

// Checks maps a dependency name to its probe.
type Checks map[string]CheckFunc

// Report is the outcome of a Run.
type Report struct {
	Checks map[string]Result `json:"checks,omitempty"`
	Status string            `json:"status"`
}

// Result is the outcome of one check.
type Result struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*config)

// WithTimeout bounds the whole run. Defaults to 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks at Warn.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{timeout: defaultTimeout, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes checks in parallel under one timeout. Every check runs to
// completion; one failure does not cancel the others.
func Run(ctx context.Context, checks Checks, opts ...Option) (*Report, error) {
	return newConfig(opts...).run(ctx, checks)
}

func (cfg *config) run(ctx context.Context, checks Checks) (*Report, error) {
	report := &Report{Status: StatusHealthy}
	if len(checks) == 0 {
		return report, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	report.Checks = make(map[string]Result, len(checks))
	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := check(ctx)
			res := Result{Status: StatusHealthy, Latency: time.Since(start).Round(time.Microsecond).String()}
			if err != nil {
				res.Status, res.Error = StatusUnhealthy, err.Error()
				cfg.logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name), slog.String("error", err.Error()))
				err = fmt.Errorf("%s: %w", name, err)
			}

			mu.Lock()
			report.Checks[name] = res
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		return report, nil
	}
	report.Status = StatusUnhealthy
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return report, errors.Join(ErrCheckFailed, ErrCheckTimeout, err)
	}
	return report, errors.Join(ErrCheckFailed, err)
}
