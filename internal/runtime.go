package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultAddress is used when Run gets an empty address.
const DefaultAddress = ":8000"

// runtimeConfig holds configuration for running the HTTP server.
type runtimeConfig struct {
	handler         http.Handler
	logger          *slog.Logger
	baseCtx         context.Context
	address         string
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

// runServer listens on cfg.address and serves until SIGINT, SIGTERM or
// cancellation of the base context.
func runServer(cfg runtimeConfig) error {
	if cfg.address == "" {
		cfg.address = DefaultAddress
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg.baseCtx = ctx
	return serve(cfg, func() (net.Listener, error) {
		return net.Listen("tcp", cfg.address)
	})
}

// serve runs startup hooks, opens the listener and blocks until the base
// context ends, then drains the server and runs shutdown hooks.
// Startup hooks run before listening so a failed migration never
// accepts traffic.
func serve(cfg runtimeConfig, listen func() (net.Listener, error)) error {
	log := cfg.logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	ctx := cfg.baseCtx

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			log.Error("startup hook failed", slog.Any("error", err))
			return err
		}
	}

	ln, err := listen()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           cfg.handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	served := make(chan error, 1)
	go func() {
		log.Info("shipy running", slog.String("url", "http://"+ln.Addr().String()))
		served <- srv.Serve(ln)
	}()

	select {
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer done()

	errs := []error{srv.Shutdown(shutdownCtx)}
	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info("stopped")
	return nil
}
