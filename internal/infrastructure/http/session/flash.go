package session

import "sync"

// Kind is a flash message category.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Kind    Kind
	Message string
}

// FlashStore keeps pending flash messages per session in memory.
type FlashStore struct {
	mu      sync.Mutex
	pending map[string][]Flash
}

// NewFlashStore creates an empty store.
func NewFlashStore() *FlashStore {
	return &FlashStore{pending: make(map[string][]Flash)}
}

// Add appends f to the session's queue.
func (s *FlashStore) Add(sessionID string, f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionID] = append(s.pending[sessionID], f)
}

// Pop removes and returns the session's queue in insertion order.
func (s *FlashStore) Pop(sessionID string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.pending[sessionID]
	delete(s.pending, sessionID)
	return flashes
}
