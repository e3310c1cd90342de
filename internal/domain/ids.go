package domain

import (
	"fmt"
	"strconv"
	"sync"
)

// IDSource hands out ids for new todos and lists.
type IDSource interface {
	NextID() int
}

// Sequence is a strictly increasing id generator.
// Todos and lists draw from the same sequence, so an id is unique across
// both kinds for the lifetime of the process.
type Sequence struct {
	mu   sync.Mutex
	last int
}

// NewSequence returns a sequence whose first id is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NextID returns the next id. Safe for concurrent use.
func (s *Sequence) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	return s.last
}

// Observe moves the sequence past id so that ids restored from storage are
// never handed out again.
func (s *Sequence) Observe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id > s.last {
		s.last = id
	}
}

// ParseID parses a decimal id as it appears in URLs and form values.
// Anything but a positive integer yields ErrInvalidID.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// FormatID is the inverse of ParseID.
func FormatID(id int) string {
	return strconv.Itoa(id)
}
