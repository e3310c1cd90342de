package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "9090", cfg.GRPC.Port)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, ScopeSession, cfg.Storage.Scope)
	assert.False(t, cfg.Storage.Shared())
	assert.Equal(t, "./todos-data", cfg.Storage.FS.Dir)
	assert.Equal(t, "todos.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "launch-school-todos-session-id", cfg.Session.CookieName)
	assert.False(t, cfg.Session.Secure)
	assert.False(t, cfg.Todo.Seed)
	assert.False(t, cfg.Observability.OTelEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	// Zero means "use the server's default".
	assert.Zero(t, cfg.HTTP.ReadTimeout)
	assert.Zero(t, cfg.Storage.Database.MaxOpenConns)
}

func TestLoad_WithEnv(t *testing.T) {
	os.Clearenv()
	t.Setenv("TODOS_HTTP_PORT", "3000")
	t.Setenv("TODOS_HTTP_MAX_BODY_BYTES", "4096")
	t.Setenv("TODOS_STORAGE_BACKEND", "postgres")
	t.Setenv("TODOS_STORAGE_SCOPE", "process")
	t.Setenv("TODOS_DB_DSN", "postgres://todos:secret@db:5432/todos")
	t.Setenv("TODOS_DB_MAX_OPEN_CONNS", "50")
	t.Setenv("TODOS_DB_CONN_MAX_LIFETIME", "10m")
	t.Setenv("TODOS_SEED", "true")
	t.Setenv("TODOS_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, int64(4096), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.True(t, cfg.Storage.Shared())
	assert.Equal(t, "postgres://todos:secret@db:5432/todos", cfg.Storage.Database.DSN)
	assert.Equal(t, 50, cfg.Storage.Database.MaxOpenConns)
	assert.Equal(t, 10*time.Minute, cfg.Storage.Database.ConnMaxLifetime)
	assert.True(t, cfg.Todo.Seed)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_File(t *testing.T) {
	os.Clearenv()
	path := writeConfigFile(t, `
shutdown_timeout = "5s"

[http]
port = "8000"
read_timeout = "3s"

[storage]
backend = "sqlite"

[storage.sqlite]
path = "/var/lib/todos/todos.db"

[session]
secure = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/todos/todos.db", cfg.Storage.SQLite.Path)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	// Keys the file leaves out keep their defaults.
	assert.Equal(t, "9090", cfg.GRPC.Port)
	assert.Equal(t, ScopeSession, cfg.Storage.Scope)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	os.Clearenv()
	path := writeConfigFile(t, `
[http]
port = "8000"

[storage]
backend = "fs"
`)
	t.Setenv("TODOS_HTTP_PORT", "8001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.HTTP.Port)
	assert.Equal(t, BackendFS, cfg.Storage.Backend)
}

func TestLoad_FileErrors(t *testing.T) {
	os.Clearenv()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "[http\nport = 1"))
		assert.Error(t, err)
	})

	t.Run("unknown keys", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "[storage]\nbackend = \"memory\"\nflavour = \"vanilla\"\n"))
		assert.ErrorIs(t, err, ErrUnknownKeys)
		assert.Contains(t, err.Error(), "storage.flavour")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "postgres without dsn",
			env:     map[string]string{"TODOS_STORAGE_BACKEND": "postgres"},
			wantErr: ErrDSNRequired,
		},
		{
			name:    "gcs without bucket",
			env:     map[string]string{"TODOS_STORAGE_BACKEND": "gcs"},
			wantErr: ErrBucketRequired,
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"TODOS_STORAGE_BACKEND": "mysql"},
			wantErr: ErrUnknownBackend,
			wantMsg: "mysql",
		},
		{
			name:    "unknown scope",
			env:     map[string]string{"TODOS_STORAGE_SCOPE": "tenant"},
			wantErr: ErrUnknownScope,
		},
		{
			name:    "empty fs dir",
			env:     map[string]string{"TODOS_STORAGE_BACKEND": "fs", "TODOS_FS_DIR": ""},
			wantMsg: "TODOS_FS_DIR is required",
		},
		{
			name:    "bad duration",
			env:     map[string]string{"TODOS_SHUTDOWN_TIMEOUT": "ten seconds"},
			wantMsg: "TODOS_SHUTDOWN_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
