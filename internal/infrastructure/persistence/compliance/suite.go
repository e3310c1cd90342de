package compliance

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rezkam/todos/internal/application/todo"
	"github.com/rezkam/todos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRepositoryComplianceTest runs a standard set of tests against a todo.Repository implementation.
// setup is a function that returns a fresh (clean) Repository instance for the test.
// cleanup is called after the test to clean up resources (if any).
func RunRepositoryComplianceTest(t *testing.T, setup func() (todo.Repository, func())) {
	t.Run("LoadUnknownScope", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Load(context.Background(), newScope())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		scope := newScope()

		snap := domain.Snapshot{
			{ID: 1, Title: "Groceries", Todos: []domain.TodoRecord{
				{ID: 2, Title: "Milk", Done: true},
				{ID: 3, Title: "Bread"},
			}},
			{ID: 4, Title: "Chores", Todos: []domain.TodoRecord{}},
		}
		require.NoError(t, store.Save(ctx, scope, snap))

		loaded, err := store.Load(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, snap, loaded)
	})

	t.Run("SaveEmptySnapshot", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		scope := newScope()

		require.NoError(t, store.Save(ctx, scope, domain.Snapshot{}))

		loaded, err := store.Load(ctx, scope)
		require.NoError(t, err, "an empty saved scope is not the same as an unknown one")
		assert.Empty(t, loaded)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		scope := newScope()

		require.NoError(t, store.Save(ctx, scope, domain.Snapshot{{ID: 1, Title: "Old", Todos: []domain.TodoRecord{}}}))
		require.NoError(t, store.Save(ctx, scope, domain.Snapshot{{ID: 2, Title: "New", Todos: []domain.TodoRecord{}}}))

		loaded, err := store.Load(ctx, scope)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "New", loaded[0].Title)
	})

	t.Run("ScopesAreIndependent", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		a, b := newScope(), newScope()

		require.NoError(t, store.Save(ctx, a, domain.Snapshot{{ID: 1, Title: "A", Todos: []domain.TodoRecord{}}}))

		_, err := store.Load(ctx, b)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, store.Save(ctx, b, domain.Snapshot{{ID: 2, Title: "B", Todos: []domain.TodoRecord{}}}))
		loaded, err := store.Load(ctx, a)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "A", loaded[0].Title)
	})

	t.Run("LoadedSnapshotIsACopy", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()
		scope := newScope()

		snap := domain.Snapshot{{ID: 1, Title: "Mine", Todos: []domain.TodoRecord{{ID: 2, Title: "t"}}}}
		require.NoError(t, store.Save(ctx, scope, snap))
		snap[0].Todos[0].Title = "changed after save"

		loaded, err := store.Load(ctx, scope)
		require.NoError(t, err)
		loaded[0].Title = "changed after load"

		again, err := store.Load(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, "Mine", again[0].Title)
		assert.Equal(t, "t", again[0].Todos[0].Title)
	})

	t.Run("GlobalScope", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, todo.GlobalScope, domain.Snapshot{{ID: 7, Title: "Shared", Todos: []domain.TodoRecord{}}}))
		loaded, err := store.Load(ctx, todo.GlobalScope)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, 7, loaded[0].ID)
	})

	t.Run("ConcurrentSaves", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		const n = 8
		scopes := make([]string, n)
		var wg sync.WaitGroup
		for i := range n {
			scopes[i] = newScope()
			wg.Add(1)
			go func() {
				defer wg.Done()
				snap := domain.Snapshot{{ID: i + 1, Title: scopes[i], Todos: []domain.TodoRecord{}}}
				assert.NoError(t, store.Save(ctx, scopes[i], snap))
			}()
		}
		wg.Wait()

		for i, scope := range scopes {
			loaded, err := store.Load(ctx, scope)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, i+1, loaded[0].ID)
		}
	})
}

func newScope() string {
	return uuid.NewString()
}
