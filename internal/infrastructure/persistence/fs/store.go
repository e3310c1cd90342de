// Package fs stores each scope's snapshot as a JSON file in a directory.
package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/natefinch/atomic"
	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/persistence/codec"
)

var _ todo.Repository = (*Store)(nil)

// ErrInvalidScope is returned for scope names that cannot be used as file names.
var ErrInvalidScope = errors.New("invalid scope name")

var scopePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Store is a filesystem-based implementation of todo.Repository.
// Writes replace the scope's file atomically, so readers never see a
// partially written snapshot.
type Store struct {
	baseDir string
}

// NewStore creates a new filesystem store rooted at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) filePath(scope string) (string, error) {
	if !scopePattern.MatchString(scope) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return filepath.Join(s.baseDir, scope+".json"), nil
}

// Load reads the scope's snapshot file.
func (s *Store) Load(ctx context.Context, scope string) (domain.Snapshot, error) {
	path, err := s.filePath(scope)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	snap, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return snap, nil
}

// Save writes the scope's snapshot file.
func (s *Store) Save(ctx context.Context, scope string, snap domain.Snapshot) error {
	path, err := s.filePath(scope)
	if err != nil {
		return err
	}

	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
