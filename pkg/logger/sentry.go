package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig configures NewWithSentry. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	// MinLevel is the lowest level kept as a Sentry log entry; it never
	// goes below Warn. Errors always become issues.
	MinLevel slog.Level
}

// NewWithSentry logs JSON to stdout and mirrors warnings and errors to
// Sentry. Without a DSN, or when the SDK refuses the configuration, it
// logs to stdout only.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.DSN == "" {
		return slog.New(WithExtractors(stdout, extractors...))
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	})
	if err != nil {
		log := slog.New(WithExtractors(stdout, extractors...))
		log.Error("sentry disabled", slog.String("error", err.Error()))
		return log
	}

	toSentry := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   sentryLogLevels(cfg.MinLevel),
	}.NewSentryHandler(context.Background())

	return slog.New(WithExtractors(fanout{stdout, toSentry}, extractors...))
}

// sentryLogLevels lists the levels at or above floor, Warn at the lowest.
func sentryLogLevels(floor slog.Level) []slog.Level {
	floor = max(floor, slog.LevelWarn)
	var out []slog.Level
	for _, l := range []slog.Level{slog.LevelWarn, slog.LevelError} {
		if l >= floor {
			out = append(out, l)
		}
	}
	return out
}
