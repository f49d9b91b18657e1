package storage

import (
	"context"
	"errors"
)

// Common errors.
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrClosed      = errors.New("storage: engine closed")
)

// Engine is an embedded key-value store used as the session medium's
// backing persistence.
//
// Implementation requirements:
//   - Thread-safe: concurrent reads/writes must be safe
//   - Get returns ErrKeyNotFound when the key is absent
//   - Delete of an absent key is not an error
type Engine interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix. The callback returns
	// false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Close gracefully shuts down the engine.
	Close() error
}

// Stats contains storage engine statistics.
type Stats struct {
	// Keys is the number of keys, where the engine can count them
	// cheaply (zero otherwise).
	Keys uint64

	// TotalSize is the total disk usage in bytes (zero for in-memory).
	TotalSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64
}
