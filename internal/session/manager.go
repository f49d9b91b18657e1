// Package session implements the server-side session medium: sessions
// keyed by an opaque id, holding an associative store of raw values,
// persisted through a storage engine and expired by a background
// sweeper.
//
// The Manager is shared by every request; individual Sessions guard
// their data with a mutex because a client can have two requests in
// flight against one session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
	"github.com/statebag/statebag/pkg/cmap"
	"github.com/statebag/statebag/pkg/sid"
)

// keyPrefix namespaces session records in the engine.
const keyPrefix = "sess/"

// DefaultSweepInterval is the default interval between expiry sweeps.
const DefaultSweepInterval = time.Minute

// record is the persisted form of a session.
type record struct {
	ID         string            `json:"id"`
	Data       map[string]string `json:"data"`
	CreatedAt  int64             `json:"created_at"`  // Unix milliseconds
	ExpiresAt  int64             `json:"expires_at"`  // Unix milliseconds, 0 = no expiry
	LastActive int64             `json:"last_active"` // Unix milliseconds
}

// Manager owns the session lifecycle: start/resume, persistence,
// expiry sweeping.
type Manager struct {
	engine storage.Engine
	live   *cmap.Map[*Session]

	defaultTTL    time.Duration
	sweepInterval time.Duration

	log     logger.Logger
	metrics *metric.Registry

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// Option configures the Manager.
type Option func(*Manager)

// WithDefaultTTL sets the TTL applied to sessions created without an
// explicit expiry. Zero means sessions never expire.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.defaultTTL = ttl }
}

// WithSweepInterval sets the interval between expiry sweeps.
func WithSweepInterval(d time.Duration) Option {
	return func(m *Manager) { m.sweepInterval = d }
}

// WithLogger sets the manager logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(mr *metric.Registry) Option {
	return func(m *Manager) { m.metrics = mr }
}

// NewManager creates a session manager over the given engine and
// starts its expiry sweeper.
func NewManager(engine storage.Engine, opts ...Option) *Manager {
	m := &Manager{
		engine:        engine,
		live:          cmap.New[*Session](),
		defaultTTL:    domain.DefaultSessionTTL,
		sweepInterval: DefaultSweepInterval,
		log:           logger.Default(),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go m.sweepLoop()
	return m
}

// Start resumes the session identified by id, or creates a fresh one
// when id is empty, malformed, unknown or expired. The returned
// session's ID may therefore differ from the requested one; callers
// propagate a changed id back to the client.
func (m *Manager) Start(ctx context.Context, id string) (*Session, error) {
	if id != "" && sid.Valid(id) {
		if s, err := m.resume(ctx, id); err == nil {
			return s, nil
		} else if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
			return nil, err
		}
	}
	return m.create(ctx)
}

// Peek returns the live or persisted session for id without creating
// one.
func (m *Manager) Peek(ctx context.Context, id string) (*Session, error) {
	if !sid.Valid(id) {
		return nil, domain.ErrSessionIDInvalid
	}
	return m.resume(ctx, id)
}

// Destroy removes the session and its persisted record.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	m.live.Delete(id)
	if err := m.engine.Delete(ctx, engineKey(id)); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Count returns the number of resident sessions.
func (m *Manager) Count() int {
	return m.live.Count()
}

// Close stops the sweeper. The engine is owned by the caller and stays
// open.
func (m *Manager) Close() {
	m.once.Do(func() {
		close(m.stopCh)
		<-m.doneCh
	})
}

func (m *Manager) create(ctx context.Context) (*Session, error) {
	id, err := sid.New()
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	now := time.Now()
	s := &Session{
		mgr: m,
		rec: record{
			ID:         id,
			Data:       make(map[string]string),
			CreatedAt:  now.UnixMilli(),
			LastActive: now.UnixMilli(),
		},
	}
	if m.defaultTTL > 0 {
		s.rec.ExpiresAt = now.Add(m.defaultTTL).UnixMilli()
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	m.live.Set(id, s)

	if m.metrics != nil {
		m.metrics.SessionsStarted.Inc()
		m.metrics.SessionsActive.Set(float64(m.live.Count()))
	}
	m.log.Debug("session created", "session_id", id)
	return s, nil
}

func (m *Manager) resume(ctx context.Context, id string) (*Session, error) {
	if s, ok := m.live.Get(id); ok {
		if s.Expired(time.Now()) {
			_ = m.Destroy(ctx, id)
			return nil, domain.ErrSessionExpired
		}
		s.touch(time.Now())
		return s, nil
	}

	data, err := m.engine.Get(ctx, engineKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.ErrStorage.WithCause(err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupt record: drop it rather than wedging the session id.
		_ = m.engine.Delete(ctx, engineKey(id))
		return nil, domain.ErrSessionNotFound.WithDetails("corrupt record")
	}
	if rec.Data == nil {
		rec.Data = make(map[string]string)
	}

	s := &Session{mgr: m, rec: rec}
	if s.Expired(time.Now()) {
		_ = m.Destroy(ctx, id)
		return nil, domain.ErrSessionExpired
	}
	s.touch(time.Now())
	m.live.Set(id, s)

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(m.live.Count()))
	}
	return s, nil
}

func (m *Manager) sweepLoop() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep removes expired sessions, both resident ones and persisted
// records left over from a previous process.
func (m *Manager) sweep() {
	ctx := context.Background()
	now := time.Now()
	expired := 0

	m.live.Range(func(id string, s *Session) bool {
		if s.Expired(now) {
			m.live.Delete(id)
			_ = m.engine.Delete(ctx, engineKey(id))
			expired++
		}
		return true
	})

	err := m.engine.Scan(ctx, []byte(keyPrefix), func(key, value []byte) bool {
		var rec record
		if json.Unmarshal(value, &rec) != nil {
			return true
		}
		if rec.ExpiresAt > 0 && rec.ExpiresAt <= now.UnixMilli() && !m.live.Has(rec.ID) {
			_ = m.engine.Delete(ctx, engineKey(rec.ID))
			expired++
		}
		return true
	})
	if err != nil && !errors.Is(err, storage.ErrClosed) {
		m.log.Warn("session sweep scan failed", "error", err)
	}

	if expired > 0 {
		if m.metrics != nil {
			m.metrics.SessionsExpired.Add(float64(expired))
			m.metrics.SessionsActive.Set(float64(m.live.Count()))
		}
		m.log.Debug("session sweep", "expired", expired)
	}
}

func engineKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// Session is one server-side session. Safe for concurrent use.
type Session struct {
	mgr *Manager

	mu  sync.RWMutex
	rec record
}

// ID returns the opaque session id.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.ID
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.ExpiresAt > 0 && s.rec.ExpiresAt <= now.UnixMilli()
}

// Get returns the raw value stored under key.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.rec.Data[key]
	return raw, ok
}

// Has reports whether key is present.
func (s *Session) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// All returns a copy of the session data.
func (s *Session) All() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.rec.Data))
	for k, v := range s.rec.Data {
		out[k] = v
	}
	return out
}

// Set stores raw under key and extends the session expiry by ttl
// (zero ttl makes the session non-expiring), then persists the record.
func (s *Session) Set(ctx context.Context, key, raw string, ttl time.Duration) error {
	s.mu.Lock()
	s.rec.Data[key] = raw
	s.applyTTL(ttl)
	s.mu.Unlock()
	return s.persist(ctx)
}

// Delete removes key and persists the record. Absent keys are a no-op.
func (s *Session) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	if _, ok := s.rec.Data[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.rec.Data, key)
	s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.LastActive = now.UnixMilli()
}

// applyTTL is called with s.mu held.
func (s *Session) applyTTL(ttl time.Duration) {
	now := time.Now()
	s.rec.LastActive = now.UnixMilli()
	if ttl > 0 {
		s.rec.ExpiresAt = now.Add(ttl).UnixMilli()
	} else {
		s.rec.ExpiresAt = 0
	}
}

func (s *Session) persist(ctx context.Context) error {
	s.mu.RLock()
	data, err := json.Marshal(s.rec)
	id := s.rec.ID
	s.mu.RUnlock()
	if err != nil {
		return domain.ErrInternal.WithCause(fmt.Errorf("marshal session: %w", err))
	}
	if err := s.mgr.engine.Set(ctx, engineKey(id), data); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}
