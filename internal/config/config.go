// Package config defines the server's configuration and loads it from an
// optional TOML file and TODOS_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rezkam/todos/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	HTTP            HTTPConfig          `toml:"http"`
	GRPC            GRPCConfig          `toml:"grpc"`
	Storage         StorageConfig       `toml:"storage"`
	Session         SessionConfig       `toml:"session"`
	Todo            TodoConfig          `toml:"todo"`
	Observability   ObservabilityConfig `toml:"observability"`
	ShutdownTimeout time.Duration       `toml:"shutdown_timeout" env:"TODOS_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
// Zero values fall back to the HTTP server's own defaults.
type HTTPConfig struct {
	Host              string        `toml:"host" env:"TODOS_HTTP_HOST"`
	Port              string        `toml:"port" env:"TODOS_HTTP_PORT" default:"8080"`
	ReadTimeout       time.Duration `toml:"read_timeout" env:"TODOS_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `toml:"write_timeout" env:"TODOS_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `toml:"idle_timeout" env:"TODOS_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout" env:"TODOS_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `toml:"max_header_bytes" env:"TODOS_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `toml:"max_body_bytes" env:"TODOS_HTTP_MAX_BODY_BYTES"`
}

// GRPCConfig holds the health-check listener configuration.
type GRPCConfig struct {
	Enabled           bool          `toml:"enabled" env:"TODOS_GRPC_ENABLED" default:"true"`
	Host              string        `toml:"host" env:"TODOS_GRPC_HOST"`
	Port              string        `toml:"port" env:"TODOS_GRPC_PORT" default:"9090"`
	MaxConnectionIdle time.Duration `toml:"max_connection_idle" env:"TODOS_GRPC_MAX_CONNECTION_IDLE"`
	KeepaliveTime     time.Duration `toml:"keepalive_time" env:"TODOS_GRPC_KEEPALIVE_TIME"`
	KeepaliveTimeout  time.Duration `toml:"keepalive_timeout" env:"TODOS_GRPC_KEEPALIVE_TIMEOUT"`
	ProbeInterval     time.Duration `toml:"probe_interval" env:"TODOS_GRPC_PROBE_INTERVAL"`
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	CookieName string `toml:"cookie_name" env:"TODOS_SESSION_COOKIE" default:"launch-school-todos-session-id"`
	Secure     bool   `toml:"secure" env:"TODOS_SESSION_SECURE" default:"false"`
}

// TodoConfig holds todo service configuration.
type TodoConfig struct {
	Seed bool `toml:"seed" env:"TODOS_SEED" default:"false"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `toml:"otel_enabled" env:"TODOS_OTEL_ENABLED" default:"false"`
	ServiceName string `toml:"service_name" env:"OTEL_SERVICE_NAME"`
}

// Load builds the server configuration. Defaults are applied first, then the
// TOML file at path (skipped when path is empty), then environment variables.
// Every section is validated once all sources are applied.
func Load(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.SetDefaults(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownKeys, path, undecoded)
		}
	}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
