// Package cookiebag provides the cookie-backed store adapter. Its
// medium is the client's cookie jar, reached through the cookie
// transport: the snapshot is the incoming cookie set, mutations become
// Set-Cookie directives on the outgoing response.
package cookiebag

import (
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/transport/cookie"
)

// Adapter is a cookie-backed bag.Adapter.
type Adapter struct {
	transport *cookie.Transport
	reserved  map[string]struct{}
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithReserved excludes cookie names from the store, e.g. the session
// id cookie that shares the jar but belongs to the session layer.
func WithReserved(names ...string) Option {
	return func(a *Adapter) {
		for _, n := range names {
			a.reserved[n] = struct{}{}
		}
	}
}

// New creates the adapter over a cookie transport.
func New(t *cookie.Transport, opts ...Option) *Adapter {
	a := &Adapter{
		transport: t,
		reserved:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Kind implements bag.Adapter.
func (a *Adapter) Kind() domain.StoreKind { return domain.KindCookie }

// DefaultTTL implements bag.Adapter.
func (a *Adapter) DefaultTTL() time.Duration { return domain.DefaultCookieTTL }

// Snapshot implements bag.Adapter: the incoming cookie set, minus
// reserved names.
func (a *Adapter) Snapshot() (map[string]string, error) {
	snap := a.transport.Incoming()
	for name := range a.reserved {
		delete(snap, name)
	}
	return snap, nil
}

// Persist implements bag.Adapter.
func (a *Adapter) Persist(key, raw string, ttl time.Duration) error {
	if _, ok := a.reserved[key]; ok {
		return domain.ErrMediumUnavailable.WithDetails("reserved cookie name: " + key)
	}
	return a.transport.Emit(key, raw, ttl)
}

// Discard implements bag.Adapter.
func (a *Adapter) Discard(key string) error {
	if _, ok := a.reserved[key]; ok {
		return nil
	}
	return a.transport.Expire(key)
}

// Contains implements bag.Adapter.
func (a *Adapter) Contains(key string) bool {
	if _, ok := a.reserved[key]; ok {
		return false
	}
	return a.transport.Contains(key)
}
