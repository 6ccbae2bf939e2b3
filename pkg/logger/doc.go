// Package logger builds the *slog.Logger instances used across shipy.
//
// Loggers come in four flavours:
//
//	logger.New(extractors...)          // JSON on stdout, Info and above
//	logger.NewDebug(extractors...)     // text on stderr, Debug and above
//	logger.NewWithSentry(cfg, ex...)   // stdout plus Sentry when cfg.DSN is set
//	logger.NewNope()                   // discards everything
//
// # Context Extractors
//
// A ContextExtractor pulls a request-scoped attribute out of the context on
// every log call:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "todo created", slog.Int64("id", id))
//	// {"level":"INFO","msg":"todo created","id":7,"request_id":"..."}
//
// WithExtractors applies extractors to any slog.Handler.
//
// # Sentry
//
// NewWithSentry sends errors to Sentry as issues and warnings as log
// entries. With an empty DSN, or when the SDK fails to initialize, it falls
// back to stdout only.
package logger
