package state

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. Writes counts every Save and every
// Update that persisted, which lets tests assert "no write happened".
type MemoryStore struct {
	mu     sync.Mutex
	st     *State
	Writes int
}

// NewMemoryStore creates an absent (empty) in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored document.
func (m *MemoryStore) Load(_ context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st == nil {
		return New(), nil
	}
	return m.st.Clone(), nil
}

// Save replaces the stored document.
func (m *MemoryStore) Save(_ context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st = st.Clone()
	m.Writes++
	return nil
}

// Update runs fn under the store mutex.
func (m *MemoryStore) Update(_ context.Context, fn func(st *State) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := New()
	if m.st != nil {
		cur = m.st.Clone()
	}
	changed, err := fn(cur)
	if err != nil || !changed {
		return err
	}
	m.st = cur
	m.Writes++
	return nil
}
