// Package membag provides the in-memory store adapter: the snapshot is
// supplied at construction and the medium is a plain map. It backs
// tests and exercises the storage contract without external media.
package membag

import (
	"time"

	"github.com/statebag/statebag/internal/core/domain"
)

// Adapter is an in-memory bag.Adapter.
type Adapter struct {
	kind       domain.StoreKind
	seed       map[string]string
	medium     map[string]string
	defaultTTL time.Duration

	// unavailable makes every Persist/Discard fail, simulating a
	// medium that refuses writes.
	unavailable bool
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithKind overrides the store kind, for registries that need several
// distinct in-memory stores.
func WithKind(kind domain.StoreKind) Option {
	return func(a *Adapter) { a.kind = kind }
}

// WithSeed sets the snapshot contents.
func WithSeed(seed map[string]string) Option {
	return func(a *Adapter) { a.seed = seed }
}

// WithDefaultTTL sets the default TTL. In-memory media ignore TTLs,
// but the value is still reported to the registry.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(a *Adapter) { a.defaultTTL = ttl }
}

// New creates an in-memory adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		kind:   domain.KindMemory,
		medium: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Kind implements bag.Adapter.
func (a *Adapter) Kind() domain.StoreKind { return a.kind }

// DefaultTTL implements bag.Adapter.
func (a *Adapter) DefaultTTL() time.Duration { return a.defaultTTL }

// Snapshot implements bag.Adapter: the seed becomes the medium's
// initial contents.
func (a *Adapter) Snapshot() (map[string]string, error) {
	out := make(map[string]string, len(a.seed))
	for k, v := range a.seed {
		a.medium[k] = v
		out[k] = v
	}
	return out, nil
}

// Persist implements bag.Adapter.
func (a *Adapter) Persist(key, raw string, _ time.Duration) error {
	if a.unavailable {
		return domain.ErrMediumUnavailable
	}
	a.medium[key] = raw
	return nil
}

// Discard implements bag.Adapter.
func (a *Adapter) Discard(key string) error {
	if a.unavailable {
		return domain.ErrMediumUnavailable
	}
	delete(a.medium, key)
	return nil
}

// Contains implements bag.Adapter.
func (a *Adapter) Contains(key string) bool {
	_, ok := a.medium[key]
	return ok
}

// SetUnavailable toggles write refusal. Test hook.
func (a *Adapter) SetUnavailable(unavailable bool) {
	a.unavailable = unavailable
}

// Medium exposes the raw medium contents. Test hook.
func (a *Adapter) Medium() map[string]string {
	return a.medium
}
