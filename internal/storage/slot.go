package storage

import (
	"context"
	"sync"
)

// Slot is the session copy of one key. It is loaded once when opened and
// committed on every Set.
type Slot[T any] struct {
	mu    sync.RWMutex
	store *Store
	key   string
	value T
}

// OpenSlot loads key from s, falling back to def.
func OpenSlot[T any](ctx context.Context, s *Store, key string, def T) *Slot[T] {
	return &Slot[T]{
		store: s,
		key:   key,
		value: Load(ctx, s, key, def),
	}
}

// Key returns the storage key.
func (s *Slot[T]) Key() string {
	return s.key
}

// Get returns the in-memory value.
func (s *Slot[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and commits it before returning.
func (s *Slot[T]) Set(ctx context.Context, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	Commit(ctx, s.store, s.key, value)
}
