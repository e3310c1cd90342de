// Package memory keeps snapshots in process memory. It is the default backend
// and loses everything on restart.
package memory

import (
	"context"
	"sync"

	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
)

var _ todo.Repository = (*Store)(nil)

// Store is an in-memory implementation of todo.Repository.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]domain.Snapshot
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{scopes: make(map[string]domain.Snapshot)}
}

// Load returns a copy of the scope's snapshot.
func (s *Store) Load(ctx context.Context, scope string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.scopes[scope]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap.Clone(), nil
}

// Save stores a copy of snap for the scope.
func (s *Store) Save(ctx context.Context, scope string, snap domain.Snapshot) error {
	cp := snap.Clone()
	if cp == nil {
		cp = domain.Snapshot{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes[scope] = cp
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
