package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/rezkam/todos/internal/config"
	"github.com/rezkam/todos/internal/infrastructure/observability"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a TOML config file (env vars override it)")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		// slog might not be initialized if config fails
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations; cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Exporters are configured via OTEL_* env vars (endpoint, headers, resource attributes).
	providers, logger, err := observability.Init(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Use a timeout to prevent hanging if collector is unreachable
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown telemetry providers", "error", err)
		}
	}()
	slog.SetDefault(logger)

	slog.InfoContext(ctx, "starting todos service",
		"storage_backend", cfg.Storage.Backend,
		"storage_scope", cfg.Storage.Scope,
		"seed", cfg.Todo.Seed)

	app, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer cleanup()

	errResult := make(chan error, 2)

	go func() {
		if err := app.HTTP.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	if cfg.GRPC.Enabled {
		go func() {
			if err := app.Health.Start(); err != nil {
				errResult <- fmt.Errorf("failed to serve gRPC health: %w", err)
			}
		}()
		go app.Health.Monitor(ctx, storeProbe(app.Store), cfg.GRPC.ProbeInterval)
	}

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
	case err := <-errResult:
		return err
	}

	// ctx is already cancelled; give in-flight requests a fresh window.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.HTTP.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
		return err
	}
	slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")

	return nil
}
