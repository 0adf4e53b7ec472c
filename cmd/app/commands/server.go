package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/vault/internal/app"
	"github.com/allisson/vault/internal/config"
)

// RunServer starts the API server, the metrics server and the rotation
// scheduler, and blocks until SIGINT/SIGTERM or a fatal error.
//
// The container is shut down on every exit path, which closes the key
// manager and wipes the derived keys and the root secret.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	// Initializes every dependency, including the key manager.
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	scheduler, err := container.RotationScheduler()
	if err != nil {
		return fmt.Errorf("failed to initialize rotation scheduler: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runErr := make(chan error, 3)
	go func() {
		if err := server.Start(ctx); err != nil {
			runErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				runErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			runErr <- fmt.Errorf("rotation scheduler error: %w", err)
		}
	}()

	var failure error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case failure = <-runErr:
		logger.Error("fatal error, initiating shutdown", slog.Any("error", failure))
	}

	// Stop the scheduler before the key manager is closed.
	cancel()
	<-schedulerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		return errors.Join(failure, fmt.Errorf("shutdown: %w", err))
	}

	return failure
}
