// Package session issues the session cookie, resolves the store scope for a
// request and keeps per-session flash messages.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rezkam/todos/internal/application/todo"
)

// DefaultCookieName is the session cookie used when Config leaves it empty.
const DefaultCookieName = "launch-school-todos-session-id"

// Config holds session settings.
type Config struct {
	CookieName string
	Secure     bool
	// Shared makes every session use todo.GlobalScope.
	Shared bool
}

type contextKey struct{}

// Manager issues session cookies and stores flash messages.
type Manager struct {
	config  Config
	flashes *FlashStore
}

// NewManager creates a session manager with an empty flash store.
func NewManager(cfg Config) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{
		config:  cfg,
		flashes: NewFlashStore(),
	}
}

// Middleware makes sure every request carries a session id, issuing a new
// cookie when the request has none or an unparsable one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.readCookie(r)
		if !ok {
			newID, err := uuid.NewV7()
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to generate session id", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			id = newID.String()
			http.SetCookie(w, &http.Cookie{
				Name:     m.config.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.config.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			slog.DebugContext(r.Context(), "session started", "session_id", id)
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

func (m *Manager) readCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IDFromContext returns the session id set by Middleware.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Scope returns the store scope for the request's session.
// Requests without a session fall back to the global scope.
func (m *Manager) Scope(ctx context.Context) string {
	if m.config.Shared {
		return todo.GlobalScope
	}
	if id, ok := IDFromContext(ctx); ok {
		return id
	}
	return todo.GlobalScope
}

// AddFlash queues a message for the session's next render.
func (m *Manager) AddFlash(ctx context.Context, kind Kind, message string) {
	id, ok := IDFromContext(ctx)
	if !ok {
		return
	}
	m.flashes.Add(id, Flash{Kind: kind, Message: message})
}

// PopFlashes returns and clears the session's queued messages.
func (m *Manager) PopFlashes(ctx context.Context) []Flash {
	id, ok := IDFromContext(ctx)
	if !ok {
		return nil
	}
	return m.flashes.Pop(id)
}
