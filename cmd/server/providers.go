package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/config"
	"github.com/rezkam/todos/internal/domain"
	grpcserver "github.com/rezkam/todos/internal/infrastructure/grpc"
	httpserver "github.com/rezkam/todos/internal/infrastructure/http"
	"github.com/rezkam/todos/internal/infrastructure/http/handler"
	"github.com/rezkam/todos/internal/infrastructure/http/session"
	"github.com/rezkam/todos/internal/infrastructure/http/web"
	"github.com/rezkam/todos/internal/infrastructure/persistence/fs"
	"github.com/rezkam/todos/internal/infrastructure/persistence/gcs"
	"github.com/rezkam/todos/internal/infrastructure/persistence/memory"
	"github.com/rezkam/todos/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/todos/internal/infrastructure/persistence/sqlite"
)

// probeScope is read by the health probe. It is never written, so a healthy
// store answers with domain.ErrNotFound.
const probeScope = "health-probe"

const probeTimeout = 2 * time.Second

// store is a collection store that owns resources.
type store interface {
	todo.Repository
	io.Closer
}

// App holds the long-running components built for the server binary.
type App struct {
	Config *config.ServerConfig
	HTTP   *httpserver.Server
	Health *grpcserver.HealthServer
	Store  store
}

// provideStore opens the backend selected by the storage configuration.
func provideStore(ctx context.Context, cfg *config.ServerConfig) (store, error) {
	sc := cfg.Storage

	switch sc.Backend {
	case config.BackendMemory:
		slog.InfoContext(ctx, "storage initialized", "backend", sc.Backend)
		return memory.NewStore(), nil

	case config.BackendFS:
		s, err := fs.NewStore(sc.FS.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create fs store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", "backend", sc.Backend, "dir", sc.FS.Dir)
		return s, nil

	case config.BackendSQLite:
		s, err := sqlite.NewStore(ctx, sc.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", "backend", sc.Backend, "path", sc.SQLite.Path)
		return s, nil

	case config.BackendPostgres:
		s, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             sc.Database.DSN,
			MaxOpenConns:    sc.Database.MaxOpenConns,
			MaxIdleConns:    sc.Database.MaxIdleConns,
			ConnMaxLifetime: sc.Database.ConnMaxLifetime,
			ConnMaxIdleTime: sc.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", "backend", sc.Backend, "dsn", maskPassword(sc.Database.DSN))
		return s, nil

	case config.BackendGCS:
		s, err := gcs.NewStore(ctx, sc.GCS.Bucket, sc.GCS.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", "backend", sc.Backend, "bucket", sc.GCS.Bucket, "prefix", sc.GCS.Prefix)
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, sc.Backend)
	}
}

func provideTodoConfig(cfg *config.ServerConfig) todo.Config {
	return todo.Config{Seed: cfg.Todo.Seed}
}

func provideSessionManager(cfg *config.ServerConfig) *session.Manager {
	return session.NewManager(session.Config{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		Shared:     cfg.Storage.Shared(),
	})
}

func provideHTTPServer(webHandler *web.Handler, apiHandler *handler.TodoHandler, sessions *session.Manager, cfg *config.ServerConfig) *httpserver.Server {
	return httpserver.NewServer(webHandler.Routes(), apiHandler.Routes(), sessions, httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		Instrument:        cfg.Observability.OTelEnabled,
	})
}

func provideHealthServer(cfg *config.ServerConfig) *grpcserver.HealthServer {
	return grpcserver.NewHealthServer(grpcserver.Config{
		Host:              cfg.GRPC.Host,
		Port:              cfg.GRPC.Port,
		MaxConnectionIdle: cfg.GRPC.MaxConnectionIdle,
		KeepaliveTime:     cfg.GRPC.KeepaliveTime,
		KeepaliveTimeout:  cfg.GRPC.KeepaliveTimeout,
		Instrument:        cfg.Observability.OTelEnabled,
	})
}

// provideApp assembles the App alongside the cleanup hook so the injector can
// return both without custom wiring in run().
func provideApp(ctx context.Context, cfg *config.ServerConfig, server *httpserver.Server, health *grpcserver.HealthServer, s store) (*App, func(), error) {
	app := &App{
		Config: cfg,
		HTTP:   server,
		Health: health,
		Store:  s,
	}
	return app, newCleanup(ctx, cfg.ShutdownTimeout, health, s), nil
}

// storeProbe reports whether the store answers reads.
func storeProbe(repo todo.Repository) grpcserver.Probe {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		_, err := repo.Load(ctx, probeScope)
		if err == nil || errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		// If parsing fails, fall back to full redaction to be safe
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
