// Package sessionbag provides the session-backed store adapter. Its
// medium is a server-side session owned by the session manager;
// mutations are mirrored into the session synchronously and ride its
// persistence.
package sessionbag

import (
	"context"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/session"
)

// Adapter is a session-backed bag.Adapter. The session itself is
// started lazily inside Snapshot, the one place the storage contract
// permits medium side effects, so merely constructing the adapter does
// not allocate a session.
type Adapter struct {
	ctx         context.Context
	mgr         *session.Manager
	requestedID string

	sess *session.Session
}

// New creates the adapter. requestedID is the session id presented by
// the client (empty when none); Snapshot resumes it or starts a fresh
// session.
func New(ctx context.Context, mgr *session.Manager, requestedID string) *Adapter {
	return &Adapter{ctx: ctx, mgr: mgr, requestedID: requestedID}
}

// Kind implements bag.Adapter.
func (a *Adapter) Kind() domain.StoreKind { return domain.KindSession }

// DefaultTTL implements bag.Adapter.
func (a *Adapter) DefaultTTL() time.Duration { return domain.DefaultSessionTTL }

// Snapshot implements bag.Adapter: starts or resumes the session and
// returns its current contents. The registry calls this exactly once.
func (a *Adapter) Snapshot() (map[string]string, error) {
	sess, err := a.mgr.Start(a.ctx, a.requestedID)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess.All(), nil
}

// Session returns the live session, nil before Snapshot. Callers use
// it to learn the final session id (which differs from the requested
// one when the session was fresh).
func (a *Adapter) Session() *session.Session {
	return a.sess
}

// Persist implements bag.Adapter.
func (a *Adapter) Persist(key, raw string, ttl time.Duration) error {
	if a.sess == nil {
		return domain.ErrMediumUnavailable.WithDetails("session not started")
	}
	return a.sess.Set(a.ctx, key, raw, ttl)
}

// Discard implements bag.Adapter.
func (a *Adapter) Discard(key string) error {
	if a.sess == nil {
		return domain.ErrMediumUnavailable.WithDetails("session not started")
	}
	return a.sess.Delete(a.ctx, key)
}

// Contains implements bag.Adapter.
func (a *Adapter) Contains(key string) bool {
	return a.sess != nil && a.sess.Has(key)
}
