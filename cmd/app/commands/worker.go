package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mutchinick/ecomm-workers/internal/app"
	"github.com/mutchinick/ecomm-workers/internal/config"
)

// Runner is a long-running component that stops when its context is canceled.
type Runner interface {
	Start(ctx context.Context) error
}

// Server is a component started in the background and stopped with Shutdown.
type Server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunnerFactory builds the runner of a command from the container.
type RunnerFactory func(ctx context.Context, container *app.Container) (Runner, error)

// RunWorker loads configuration, builds the runner and serves it together with the ops
// server until SIGINT/SIGTERM.
func RunWorker(ctx context.Context, name, version string, factory RunnerFactory) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting worker", slog.String("worker", name), slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner, err := factory(ctx, container)
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", name, err)
	}

	opsServer, err := container.OpsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize ops server: %w", err)
	}

	return Serve(ctx, logger, runner, opsServer, cfg.DBConnMaxLifetime)
}

// Serve runs runner and server until ctx is canceled or either of them fails, then shuts
// the server down within shutdownTimeout. A runner stopped by cancellation is not an error.
func Serve(
	ctx context.Context,
	logger *slog.Logger,
	runner Runner,
	server Server,
	shutdownTimeout time.Duration,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnerErr := make(chan error, 1)
	go func() {
		runnerErr <- runner.Start(ctx)
	}()

	serverErr := make(chan error, 1)
	if server != nil {
		go func() {
			if err := server.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("ops server error: %w", err)
			}
		}()
	}

	var errs []error

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := <-runnerErr; err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	case err := <-runnerErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped, initiating shutdown", slog.Any("error", err))
			errs = append(errs, err)
		}
	case err := <-serverErr:
		logger.Error("ops server error, initiating shutdown", slog.Any("error", err))
		errs = append(errs, err)
		cancel()
		if runErr := <-runnerErr; runErr != nil && !errors.Is(runErr, context.Canceled) {
			errs = append(errs, runErr)
		}
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("ops server shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// SyncOrdersRunner builds the sync-orders worker.
func SyncOrdersRunner(ctx context.Context, container *app.Container) (Runner, error) {
	return container.SyncOrdersConsumer(ctx)
}

// AllocateStockRunner builds the allocate-stock worker.
func AllocateStockRunner(ctx context.Context, container *app.Container) (Runner, error) {
	return container.AllocateStockConsumer(ctx)
}

// RestockSkuRunner builds the restock-sku worker.
func RestockSkuRunner(ctx context.Context, container *app.Container) (Runner, error) {
	return container.RestockSkuConsumer(ctx)
}

// OutboxRelayRunner builds the outbox relay.
func OutboxRelayRunner(ctx context.Context, container *app.Container) (Runner, error) {
	return container.RelayUseCase(ctx)
}
