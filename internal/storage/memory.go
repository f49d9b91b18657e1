package storage

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/statebag/statebag/pkg/cmap"
)

// MemoryEngine is a process-local Engine. Sessions do not survive
// restarts; suitable for tests and single-node deployments that accept
// losing sessions on redeploy.
type MemoryEngine struct {
	items  *cmap.Map[[]byte]
	closed atomic.Bool
}

// NewMemoryEngine creates an in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{items: cmap.New[[]byte]()}
}

// Get retrieves a value by key.
func (e *MemoryEngine) Get(_ context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	value, ok := e.items.Get(string(key))
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a key-value pair.
func (e *MemoryEngine) Set(_ context.Context, key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	e.items.Set(string(key), stored)
	return nil
}

// Delete removes a key.
func (e *MemoryEngine) Delete(_ context.Context, key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	e.items.Delete(string(key))
	return nil
}

// Scan iterates over keys with the given prefix.
func (e *MemoryEngine) Scan(_ context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	p := string(prefix)
	e.items.Range(func(key string, value []byte) bool {
		if !strings.HasPrefix(key, p) {
			return true
		}
		return fn([]byte(key), value)
	})
	return nil
}

// Stats returns storage statistics.
func (e *MemoryEngine) Stats(_ context.Context) (*Stats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	return &Stats{Keys: uint64(e.items.Count())}, nil
}

// Close marks the engine closed and drops its contents.
func (e *MemoryEngine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.items.Clear()
	return nil
}
