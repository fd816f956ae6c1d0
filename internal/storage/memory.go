package storage

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

// MemoryBackend keeps values in process memory. With a capacity set, writes
// that would grow the total stored bytes past it are rejected.
type MemoryBackend struct {
	mu       sync.RWMutex
	values   map[string][]byte
	capacity int
	used     int
}

// NewMemory returns an unbounded in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// NewMemoryWithCapacity returns a backend holding at most capacity bytes.
func NewMemoryWithCapacity(capacity int) *MemoryBackend {
	b := NewMemory()
	b.capacity = capacity
	return b
}

func (b *MemoryBackend) Driver() Driver { return DriverMemory }

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	used := b.used - len(b.values[key]) + len(value)
	if b.capacity > 0 && used > b.capacity {
		return fmt.Errorf("set %s (%d of %d bytes): %w", key, used, b.capacity, apperrors.ErrCapacityExceeded)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	b.values[key] = stored
	b.used = used
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
