// Package gcs stores each scope's snapshot as a JSON object in a Google Cloud
// Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
	"github.com/rezkam/todos/internal/infrastructure/persistence/codec"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var _ todo.Repository = (*Store)(nil)

// Store is a GCS-based implementation of todo.Repository.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS store writing objects under prefix.
// Without options the client uses Application Default Credentials.
func NewStore(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (*Store, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (s *Store) objectName(scope string) string {
	return path.Join(s.prefix, scope+".json")
}

// Load reads the scope's object.
func (s *Store) Load(ctx context.Context, scope string) (domain.Snapshot, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(scope)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return codec.Decode(data)
}

// Save overwrites the scope's object.
func (s *Store) Save(ctx context.Context, scope string, snap domain.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return err
	}

	w := s.client.Bucket(s.bucket).Object(s.objectName(scope)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}

// Scopes lists the scopes that have a saved snapshot under the store's prefix.
func (s *Store) Scopes(ctx context.Context) ([]string, error) {
	query := &storage.Query{}
	if s.prefix != "" {
		query.Prefix = s.prefix + "/"
	}

	var scopes []string
	it := s.client.Bucket(s.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		name := strings.TrimPrefix(attrs.Name, query.Prefix)
		if scope, ok := strings.CutSuffix(name, ".json"); ok && !strings.Contains(scope, "/") {
			scopes = append(scopes, scope)
		}
	}
	return scopes, nil
}

// Delete removes the scope's object. Deleting a missing scope is not an error.
func (s *Store) Delete(ctx context.Context, scope string) error {
	err := s.client.Bucket(s.bucket).Object(s.objectName(scope)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Close closes the GCS client.
func (s *Store) Close() error {
	return s.client.Close()
}
