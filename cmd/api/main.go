// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "fortinat-shop/internal"
	"fortinat-shop/internal/api/handler"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication()
	if err := run(ctx, application); err != nil {
		application.Logger.Error("Shop server stopped with error", "error", err)
		os.Exit(1)
	}
	application.Logger.Info("Shop server stopped.")
}

// run serves the shop API until ctx is cancelled or the listener fails.
func run(ctx context.Context, application *app.Application) error {
	if err := application.Initialize(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + application.Config.ServerPort,
		Handler:      application.HTTPHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: handler.DefaultTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go application.WarmCatalog(ctx)

	serveErr := make(chan error, 1)
	go func() {
		application.Logger.Info("Starting HTTP server", "port", application.Config.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		application.Logger.Info("Shutdown signal received")
	case listenErr = <-serveErr:
		application.Logger.Error("HTTP server failed", "error", listenErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return listenErr
}
