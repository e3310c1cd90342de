package todo

import "sync"

// scopeLocks serializes load/mutate/save cycles per scope.
// Entries are dropped once no goroutine holds or waits for them.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*scopeLock
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

func (l *scopeLocks) lock(scope string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*scopeLock)
	}
	entry, ok := l.locks[scope]
	if !ok {
		entry = &scopeLock{}
		l.locks[scope] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, scope)
		}
		l.mu.Unlock()
	}
}
