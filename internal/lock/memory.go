package lock

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is a keyed mutex. Entries are dropped once no caller holds
// or waits on them.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{entries: make(map[string]*entry)}
}

func (m *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		m.unref(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			m.unref(key, e)
		})
	}, nil
}

func (m *MemoryLocker) unref(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

// Len reports the number of keys currently held or waited on.
func (m *MemoryLocker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
