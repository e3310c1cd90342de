package todo

import (
	"context"

	"github.com/rezkam/todos/internal/domain"
)

// GlobalScope is the store scope shared by every request when collections
// are held process-wide instead of per session.
const GlobalScope = "global"

// Repository persists one collection snapshot per scope.
// A scope is either GlobalScope or a session id; implementations treat it as
// an opaque key.
type Repository interface {
	// Load returns the snapshot last saved for scope.
	// Returns domain.ErrNotFound if nothing has been saved for scope yet.
	Load(ctx context.Context, scope string) (domain.Snapshot, error)

	// Save replaces the snapshot stored for scope.
	Save(ctx context.Context, scope string, snap domain.Snapshot) error
}
