package main

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// shutdowner abstracts the health server so tests can verify cleanup behavior
// without constructing real infrastructure dependencies.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup constructs the shutdown hook: stop the health server first so
// load balancers see NOT_SERVING, then close the store. The hook gets its own
// deadline because ctx is usually cancelled by the time it runs.
func newCleanup(ctx context.Context, timeout time.Duration, health shutdowner, store io.Closer) func() {
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if health != nil {
			if err := health.Shutdown(shutdownCtx); err != nil {
				slog.Error("failed to shut down health server", slog.String("error", err.Error()))
			}
		}

		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("failed to close store", slog.String("error", err.Error()))
			}
		}
	}
}
