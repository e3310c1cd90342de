package gcs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/infrastructure/persistence/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCSStore_Compliance(t *testing.T) {
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TEST_GCS_BUCKET not set, skipping GCS tests")
	}

	compliance.RunRepositoryComplianceTest(t, func() (todo.Repository, func()) {
		// Note: This assumes Application Default Credentials are set up
		// and point to a valid project with access to the bucket.
		ctx := context.Background()

		// Each run writes under its own prefix so cleanup only touches test objects.
		store, err := NewStore(ctx, bucket, "compliance-"+uuid.NewString())
		require.NoError(t, err)

		cleanup := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			scopes, err := store.Scopes(cleanupCtx)
			if err != nil {
				t.Logf("Warning: failed to list objects during cleanup: %v", err)
			}
			for _, scope := range scopes {
				if err := store.Delete(cleanupCtx, scope); err != nil {
					t.Logf("Warning: failed to delete scope %s: %v", scope, err)
				}
			}
			assert.NoError(t, store.Close())
		}

		return store, cleanup
	})
}

func TestStore_ObjectName(t *testing.T) {
	tests := []struct {
		prefix string
		scope  string
		want   string
	}{
		{"", "global", "global.json"},
		{"todos", "global", "todos/global.json"},
		{"todos/dev", "abc", "todos/dev/abc.json"},
	}

	for _, tt := range tests {
		s := &Store{prefix: tt.prefix}
		assert.Equal(t, tt.want, s.objectName(tt.scope))
	}
}
