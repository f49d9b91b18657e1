package bag

import (
	"sort"
	"time"

	"github.com/statebag/statebag/internal/codec"
	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
)

// noCopy flags accidental copies to go vet. A Store has exactly one
// identity per kind and registry; copies are never valid.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Store is a typed key/value store bound to an external persistence
// medium through its Adapter. Property access is case-insensitive;
// values are held raw and decoded on read.
//
// A Store is request-scoped and not safe for concurrent use.
type Store struct {
	noCopy noCopy //nolint:unused

	adapter Adapter
	bag     *Bag
	lookup  *Lookup
	codec   codec.Codec
	strict  bool

	// expiry returns the currently configured TTL for this store's
	// kind. It is consulted on every Set so SetExpiry after
	// instantiation affects subsequent writes.
	expiry func() time.Duration

	log     logger.Logger
	metrics *metric.Registry
}

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the serialization codec. Default is the JSON codec.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithStrictDecode makes decode failures on Get and All surface as
// ErrEncoding instead of falling back to the raw value.
func WithStrictDecode(strict bool) Option {
	return func(s *Store) { s.strict = strict }
}

// WithExpiry sets the TTL source consulted on each Set.
func WithExpiry(fn func() time.Duration) Option {
	return func(s *Store) { s.expiry = fn }
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore builds a store over adapter, seeded from a snapshot of the
// adapter's medium. Called by the registry; the snapshot has been taken
// exactly once before this point.
func NewStore(adapter Adapter, snapshot map[string]string, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		bag:     NewBag(),
		lookup:  NewLookup(),
		codec:   codec.NewJSON(),
		expiry:  adapter.DefaultTTL,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Deterministic seed order; the medium's snapshot carries no order
	// of its own.
	for _, key := range sortedKeys(snapshot) {
		s.bag.Set(key, snapshot[key])
		s.lookup.Remember(key)
	}
	return s
}

// Kind returns the store's nominal kind.
func (s *Store) Kind() domain.StoreKind {
	return s.adapter.Kind()
}

// Clone always fails: a store kind has exactly one live instance per
// registry.
func (s *Store) Clone() (*Store, error) {
	return nil, domain.ErrIdentityViolation
}

// Set stores value under key and mirrors the encoded form to the
// adapter's medium with the currently configured TTL. A key matching an
// existing entry case-insensitively overwrites that entry's slot.
// Returns the store for chaining.
func (s *Store) Set(key string, value domain.Value) (*Store, error) {
	s.metrics.ObserveStoreOp(string(s.Kind()), "set")

	raw, err := s.codec.Encode(value)
	if err != nil {
		s.metrics.ObserveStoreError(string(s.Kind()), domain.GetErrorCode(err))
		return s, err
	}

	canonical := key
	if existing, ok := s.lookup.Resolve(s.bag, key); ok {
		canonical = existing
	}

	if err := s.adapter.Persist(canonical, raw, s.expiry()); err != nil {
		s.metrics.ObserveStoreError(string(s.Kind()), domain.GetErrorCode(err))
		return s, err
	}

	s.bag.Set(canonical, raw)
	s.lookup.Remember(canonical)
	return s, nil
}

// Get returns the decoded logical value for key, or def when the key is
// absent. In the default lenient mode a decode failure on an existing
// key returns the raw value as a string instead of an error; with
// strict decoding it returns ErrEncoding.
func (s *Store) Get(key string, def domain.Value) (domain.Value, error) {
	s.metrics.ObserveStoreOp(string(s.Kind()), "get")

	canonical, ok := s.lookup.Resolve(s.bag, key)
	if !ok {
		return def, nil
	}
	raw, _ := s.bag.Get(canonical)

	v, err := s.codec.Decode(raw)
	if err != nil {
		if s.strict {
			s.metrics.ObserveStoreError(string(s.Kind()), domain.GetErrorCode(err))
			return def, err
		}
		// Lenient fallback: surface the raw value rather than failing
		// the read. Loud on purpose; a stored value that stopped
		// decoding is worth investigating.
		s.metrics.ObserveDecodeFallback(string(s.Kind()))
		s.log.Warn("decode failed, returning raw value",
			"kind", s.Kind(), "key", canonical, "error", err)
		return domain.String(raw), nil
	}
	return v, nil
}

// GetRaw returns the wire form for key without decoding, or def when
// the key is absent.
func (s *Store) GetRaw(key, def string) string {
	s.metrics.ObserveStoreOp(string(s.Kind()), "get_raw")

	canonical, ok := s.lookup.Resolve(s.bag, key)
	if !ok {
		return def
	}
	raw, _ := s.bag.Get(canonical)
	return raw
}

// Has reports whether key resolves case-insensitively in the bag AND is
// currently present in the adapter's medium. Dual presence keeps stale
// in-memory state from masking an entry the medium has dropped.
func (s *Store) Has(key string) bool {
	s.metrics.ObserveStoreOp(string(s.Kind()), "has")

	canonical, ok := s.lookup.Resolve(s.bag, key)
	if !ok {
		return false
	}
	return s.adapter.Contains(canonical)
}

// Remove deletes key from the bag and the medium. Removing an absent
// key is a no-op, not an error. Returns the store for chaining.
func (s *Store) Remove(key string) (*Store, error) {
	s.metrics.ObserveStoreOp(string(s.Kind()), "remove")

	canonical, ok := s.lookup.Resolve(s.bag, key)
	if !ok {
		return s, nil
	}
	if err := s.adapter.Discard(canonical); err != nil {
		s.metrics.ObserveStoreError(string(s.Kind()), domain.GetErrorCode(err))
		return s, err
	}
	s.bag.Delete(canonical)
	s.lookup.Forget(canonical)
	return s, nil
}

// Clear removes every key, delegating to Remove key by key so each
// removal carries its medium side effects. Not transactional: a failure
// partway leaves the store partially cleared.
func (s *Store) Clear() (*Store, error) {
	s.metrics.ObserveStoreOp(string(s.Kind()), "clear")

	for _, key := range s.bag.Keys() {
		if _, err := s.Remove(key); err != nil {
			return s, err
		}
	}
	return s, nil
}

// All returns a snapshot of every stored key, decoded. Lenient mode
// substitutes the raw value for entries that fail to decode; strict
// mode fails on the first such entry.
func (s *Store) All() (map[string]domain.Value, error) {
	s.metrics.ObserveStoreOp(string(s.Kind()), "all")

	out := make(map[string]domain.Value, s.bag.Len())
	for _, key := range s.bag.Keys() {
		raw, _ := s.bag.Get(key)
		v, err := s.codec.Decode(raw)
		if err != nil {
			if s.strict {
				return nil, err
			}
			s.metrics.ObserveDecodeFallback(string(s.Kind()))
			v = domain.String(raw)
		}
		out[key] = v
	}
	return out, nil
}

// Keys returns the stored keys in insertion order.
func (s *Store) Keys() []string {
	return s.bag.Keys()
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return s.bag.Len()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
