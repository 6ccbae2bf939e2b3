package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON logger writing Info and above to stdout.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo, extractors...)
}

// NewDebug creates a human-readable text logger writing Debug and above to
// stderr. Meant for development mode.
func NewDebug(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(WithExtractors(h, extractors...))
}

// NewForMode picks NewDebug in development and New otherwise.
func NewForMode(debug bool, extractors ...ContextExtractor) *slog.Logger {
	if debug {
		return NewDebug(extractors...)
	}
	return New(extractors...)
}

// NewWithWriter creates a JSON logger writing to w at the given level.
func NewWithWriter(w io.Writer, level slog.Leveler, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(WithExtractors(h, extractors...))
}

// ParseLevel parses "debug", "info", "warn" or "error" (case-insensitive).
// An empty string is Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", s)
}

// NewNope returns a logger that discards everything. It is the App default
// until a logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
