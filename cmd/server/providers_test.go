package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/config"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/persistence/fs"
	"github.com/rezkam/todos/internal/infrastructure/persistence/memory"
	"github.com/rezkam/todos/internal/infrastructure/persistence/sqlite"
)

func testConfig(t *testing.T) *config.ServerConfig {
	t.Helper()
	return &config.ServerConfig{
		Storage: config.StorageConfig{
			Backend: config.BackendMemory,
			Scope:   config.ScopeSession,
			FS:      config.FSConfig{Dir: t.TempDir()},
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "todos.db")},
		},
		Session:         config.SessionConfig{CookieName: "test-session"},
		ShutdownTimeout: time.Second,
	}
}

func TestProvideStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		backend string
		check   func(t *testing.T, s store)
	}{
		{config.BackendMemory, func(t *testing.T, s store) { assert.IsType(t, &memory.Store{}, s) }},
		{config.BackendFS, func(t *testing.T, s store) { assert.IsType(t, &fs.Store{}, s) }},
		{config.BackendSQLite, func(t *testing.T, s store) { assert.IsType(t, &sqlite.Store{}, s) }},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Backend = tt.backend

			s, err := provideStore(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()
			tt.check(t, s)

			_, err = s.Load(ctx, "never-saved")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	t.Run("unknown backend", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Backend = "mysql"

		_, err := provideStore(ctx, cfg)
		assert.ErrorIs(t, err, config.ErrUnknownBackend)
	})
}

func TestInitializeApp_ServesWebAndAPI(t *testing.T) {
	cfg := testConfig(t)
	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	srv := httptest.NewServer(app.HTTP.Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/lists", strings.NewReader(`{"title":"Groceries"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "test-session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "API responses start a session")

	lists, err := app.Store.Load(context.Background(), sessionCookie.Value)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Groceries", lists[0].Title)
}

func TestInitializeApp_ProcessScope(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Scope = config.ScopeProcess
	app, cleanup, err := InitializeApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	app.HTTP.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/lists", strings.NewReader(`{"title":"Shared"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	lists, err := app.Store.Load(context.Background(), todo.GlobalScope)
	require.NoError(t, err)
	require.Len(t, lists, 1)
}

type probeRepo struct {
	err error
}

func (r probeRepo) Load(ctx context.Context, scope string) (domain.Snapshot, error) {
	return nil, r.err
}

func (r probeRepo) Save(ctx context.Context, scope string, snap domain.Snapshot) error {
	return nil
}

func TestStoreProbe(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, storeProbe(probeRepo{})(ctx))
	assert.NoError(t, storeProbe(probeRepo{err: domain.ErrNotFound})(ctx))

	down := errors.New("connection refused")
	assert.ErrorIs(t, storeProbe(probeRepo{err: down})(ctx), down)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://todos:xxxxxx@db:5432/todos", maskPassword("postgres://todos:secret@db:5432/todos"))
	assert.Equal(t, "postgres://db:5432/todos", maskPassword("postgres://db:5432/todos"))
	assert.Equal(t, "[REDACTED]", maskPassword("postgres://%zz"))
}
