// Package grpc exposes the standard gRPC health service so orchestrators can
// probe the process without going through the HTTP stack.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-checked service name; "" reports the whole server.
const ServiceName = "todos"

// Default configuration values for the gRPC server.
const (
	DefaultPort              = "9090"
	DefaultMaxConnectionIdle = 5 * time.Minute
	DefaultKeepaliveTime     = 2 * time.Hour
	DefaultKeepaliveTimeout  = 20 * time.Second
	DefaultProbeInterval     = 15 * time.Second
)

// Config holds configuration for the health server.
type Config struct {
	Host              string
	Port              string
	MaxConnectionIdle time.Duration
	KeepaliveTime     time.Duration
	KeepaliveTimeout  time.Duration
	// Instrument installs the otelgrpc stats handler.
	Instrument bool
}

func (cfg *Config) applyDefaults() {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.MaxConnectionIdle <= 0 {
		cfg.MaxConnectionIdle = DefaultMaxConnectionIdle
	}
	if cfg.KeepaliveTime <= 0 {
		cfg.KeepaliveTime = DefaultKeepaliveTime
	}
	if cfg.KeepaliveTimeout <= 0 {
		cfg.KeepaliveTimeout = DefaultKeepaliveTimeout
	}
}

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

// HealthServer serves grpc.health.v1.Health.
type HealthServer struct {
	addr   string
	server *grpc.Server
	health *health.Server
}

// NewHealthServer creates the gRPC server with the health service registered
// and reporting SERVING.
func NewHealthServer(cfg Config) *HealthServer {
	cfg.applyDefaults()

	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: cfg.MaxConnectionIdle,
			Time:              cfg.KeepaliveTime,
			Timeout:           cfg.KeepaliveTimeout,
		}),
	}
	if cfg.Instrument {
		opts = append(opts, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	}

	s := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{
		addr:   cfg.Host + ":" + cfg.Port,
		server: s,
		health: hs,
	}
}

// Start listens on the configured address and serves until Shutdown.
func (h *HealthServer) Start() error {
	lis, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return h.Serve(lis)
}

// Serve serves on lis until Shutdown.
func (h *HealthServer) Serve(lis net.Listener) error {
	slog.Info("Starting gRPC health server", "addr", lis.Addr().String())
	if err := h.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// SetServing updates the status reported for ServiceName.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus(ServiceName, status)
}

// Monitor runs probe every interval and mirrors its result into the service
// status until ctx is done.
func (h *HealthServer) Monitor(ctx context.Context, probe Probe, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		err := probe(ctx)
		if ok := err == nil; ok != serving {
			serving = ok
			h.SetServing(ok)
			if ok {
				slog.InfoContext(ctx, "health probe recovered")
			} else {
				slog.WarnContext(ctx, "health probe failed", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown reports NOT_SERVING to watchers and stops the server, waiting for
// in-flight RPCs until ctx expires.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down gRPC health server")
	h.health.Shutdown()

	done := make(chan struct{})
	go func() {
		h.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		h.server.Stop()
		return fmt.Errorf("gRPC graceful stop: %w", ctx.Err())
	}
}
