// Package registry owns the lifecycle of store instances: at most one
// live store per kind, created lazily on first access, never recreated
// for the registry's lifetime.
//
// The registry is an explicit, request-scoped object passed by
// reference rather than a process global; a long-lived server creates
// one per request, which keeps per-request store state from leaking
// across requests. It is not safe for concurrent use.
package registry

import (
	"fmt"
	"time"

	"github.com/statebag/statebag/internal/bag"
	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
)

// Registry drives the two-phase construction protocol for stores:
// snapshot the adapter's medium once, then instantiate, seed and
// register the store.
type Registry struct {
	instances map[domain.StoreKind]*bag.Store
	expiry    map[domain.StoreKind]time.Duration

	strict  bool
	log     logger.Logger
	metrics *metric.Registry
}

// Option configures a Registry.
type Option func(*Registry)

// WithStrictDecode propagates strict decoding to every store the
// registry creates.
func WithStrictDecode(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithLogger sets the logger propagated to created stores.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithMetrics sets the metrics registry propagated to created stores.
func WithMetrics(m *metric.Registry) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		instances: make(map[domain.StoreKind]*bag.Store),
		expiry:    make(map[domain.StoreKind]time.Duration),
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Instance returns the store for the adapter's kind, constructing it on
// first access: the adapter's Snapshot runs exactly once, its entries
// seed the new store's property bag, and every later call is a pure
// lookup returning the same instance.
func (r *Registry) Instance(adapter bag.Adapter) (*bag.Store, error) {
	kind := adapter.Kind()
	if s, ok := r.instances[kind]; ok {
		return s, nil
	}

	snapshot, err := adapter.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s store: %w", kind, err)
	}

	s := bag.NewStore(adapter, snapshot,
		bag.WithStrictDecode(r.strict),
		bag.WithExpiry(func() time.Duration { return r.Expiry(kind, adapter.DefaultTTL()) }),
		bag.WithLogger(r.log),
		bag.WithMetrics(r.metrics),
	)
	r.instances[kind] = s

	r.log.Debug("store instantiated", "kind", kind, "seeded", s.Len())
	return s, nil
}

// Has reports whether an instance for kind exists already.
func (r *Registry) Has(kind domain.StoreKind) bool {
	_, ok := r.instances[kind]
	return ok
}

// SetExpiry records the TTL for kind. Calling it before the first
// Instance affects persistence from the first Set; calling it after
// still applies to subsequent Sets but does not retroactively alter
// entries already persisted to the medium.
func (r *Registry) SetExpiry(kind domain.StoreKind, ttl time.Duration) *Registry {
	r.expiry[kind] = ttl
	return r
}

// Expiry returns the TTL configured for kind, or def when none is set.
// TTL is a property of the kind: every key in one store shares it.
func (r *Registry) Expiry(kind domain.StoreKind, def time.Duration) time.Duration {
	if ttl, ok := r.expiry[kind]; ok {
		return ttl
	}
	return def
}

// Kinds returns the kinds with live instances.
func (r *Registry) Kinds() []domain.StoreKind {
	kinds := make([]domain.StoreKind, 0, len(r.instances))
	for k := range r.instances {
		kinds = append(kinds, k)
	}
	return kinds
}
