package bag

import (
	"time"

	"github.com/statebag/statebag/internal/core/domain"
)

// Adapter binds a Store to its external persistence medium. Each
// concrete store kind (session-backed, cookie-backed, in-memory)
// supplies one.
type Adapter interface {
	// Kind returns the nominal store kind. A registry holds at most one
	// store instance per kind.
	Kind() domain.StoreKind

	// DefaultTTL is the time-to-live applied when no explicit expiry is
	// configured for the kind. Zero means "no expiry".
	DefaultTTL() time.Duration

	// Snapshot performs the one-time read of the medium at store
	// construction. Side effects (e.g. lazily starting a session) are
	// permitted here only; the registry guarantees a single call per
	// store lifetime.
	Snapshot() (map[string]string, error)

	// Persist mirrors a mutation to the medium. Fails with
	// domain.ErrMediumUnavailable when the medium refuses writes.
	Persist(key, raw string, ttl time.Duration) error

	// Discard removes key from the medium as an explicit deletion
	// directive (e.g. a cookie expiry in the past). Removing an absent
	// key is not an error.
	Discard(key string) error

	// Contains reports whether the medium currently holds key. Has on
	// the store requires presence in both the bag and the medium so
	// stale in-memory state never masks a vanished entry.
	Contains(key string) bool
}
