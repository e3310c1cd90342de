// Package postgres stores snapshots as JSONB rows in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/persistence/codec"
)

var _ todo.Repository = (*Store)(nil)

// Store provides the PostgreSQL implementation of todo.Repository.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Load reads the scope's snapshot.
func (s *Store) Load(ctx context.Context, scope string) (domain.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT snapshot FROM todo_scopes WHERE scope = $1`, scope).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scope: %w", err)
	}

	snap, err := codec.Decode(data)
	if err != nil {
		slog.ErrorContext(ctx, "stored snapshot failed validation",
			"scope", scope,
			"error", err)
		return nil, err
	}
	return snap, nil
}

// Save upserts the scope's snapshot.
func (s *Store) Save(ctx context.Context, scope string, snap domain.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO todo_scopes (scope, snapshot, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (scope) DO UPDATE
		SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`,
		scope, string(data))
	if err != nil {
		return fmt.Errorf("failed to save scope: %w", err)
	}
	return nil
}
