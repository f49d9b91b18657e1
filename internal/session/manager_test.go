package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/pkg/sid"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *storage.MemoryEngine) {
	t.Helper()
	engine := storage.NewMemoryEngine()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	m := NewManager(engine, opts...)
	t.Cleanup(func() {
		m.Close()
		engine.Close()
	})
	return m, engine
}

func TestStartCreatesSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sid.Valid(s.ID()) {
		t.Errorf("session id %q is not valid", s.ID())
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestStartResumesExisting(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.Start(ctx, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	first.Set(ctx, "user", `"alice"`, time.Hour)

	resumed, err := m.Start(ctx, first.ID())
	if err != nil {
		t.Fatalf("Start(resume): %v", err)
	}
	if resumed.ID() != first.ID() {
		t.Errorf("resumed id = %q, want %q", resumed.ID(), first.ID())
	}
	if raw, ok := resumed.Get("user"); !ok || raw != `"alice"` {
		t.Errorf("Get(user) = %q, %v", raw, ok)
	}
}

func TestStartUnknownIDCreatesFresh(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	unknown, err := sid.New()
	if err != nil {
		t.Fatalf("sid.New: %v", err)
	}
	s, err := m.Start(ctx, unknown)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.ID() == unknown {
		t.Error("Start resurrected an unknown id")
	}
}

func TestStartMalformedIDCreatesFresh(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Start(ctx, "garbage-id")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sid.Valid(s.ID()) {
		t.Errorf("session id %q is not valid", s.ID())
	}
}

func TestStartResumesFromEngine(t *testing.T) {
	engine := storage.NewMemoryEngine()
	defer engine.Close()
	ctx := context.Background()

	// First manager persists, then goes away. Simulates a restart.
	m1 := NewManager(engine, WithLogger(logger.Nop()))
	s, err := m1.Start(ctx, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Set(ctx, "cart", `[1,2]`, time.Hour)
	id := s.ID()
	m1.Close()

	m2 := NewManager(engine, WithLogger(logger.Nop()))
	defer m2.Close()

	resumed, err := m2.Start(ctx, id)
	if err != nil {
		t.Fatalf("Start after restart: %v", err)
	}
	if resumed.ID() != id {
		t.Errorf("resumed id = %q, want %q", resumed.ID(), id)
	}
	if raw, _ := resumed.Get("cart"); raw != `[1,2]` {
		t.Errorf("Get(cart) = %q", raw)
	}
}

func TestExpiredSessionNotResumed(t *testing.T) {
	m, _ := newTestManager(t, WithDefaultTTL(time.Millisecond))
	ctx := context.Background()

	s, err := m.Start(ctx, "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := s.ID()
	time.Sleep(5 * time.Millisecond)

	fresh, err := m.Start(ctx, id)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if fresh.ID() == id {
		t.Error("expired session was resumed")
	}
}

func TestPeek(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Peek(ctx, "bad-id"); !errors.Is(err, domain.ErrSessionIDInvalid) {
		t.Errorf("Peek(bad-id) = %v, want ErrSessionIDInvalid", err)
	}

	unknown, _ := sid.New()
	if _, err := m.Peek(ctx, unknown); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Peek(unknown) = %v, want ErrSessionNotFound", err)
	}

	s, _ := m.Start(ctx, "")
	peeked, err := m.Peek(ctx, s.ID())
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if peeked.ID() != s.ID() {
		t.Errorf("Peek id = %q, want %q", peeked.ID(), s.ID())
	}
}

func TestDestroy(t *testing.T) {
	m, engine := newTestManager(t)
	ctx := context.Background()

	s, _ := m.Start(ctx, "")
	id := s.ID()

	if err := m.Destroy(ctx, id); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after Destroy, want 0", m.Count())
	}
	if _, err := engine.Get(ctx, engineKey(id)); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("engine record survived Destroy: %v", err)
	}

	fresh, err := m.Start(ctx, id)
	if err != nil {
		t.Fatalf("Start after Destroy: %v", err)
	}
	if fresh.ID() == id {
		t.Error("destroyed session was resumed")
	}
}

func TestCorruptRecordDropped(t *testing.T) {
	m, engine := newTestManager(t)
	ctx := context.Background()

	id, _ := sid.New()
	engine.Set(ctx, engineKey(id), []byte("{corrupt"))

	if _, err := m.Peek(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Peek(corrupt) = %v, want ErrSessionNotFound", err)
	}
	if _, err := engine.Get(ctx, engineKey(id)); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Error("corrupt record not dropped")
	}
}

func TestSessionSetGetDelete(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, _ := m.Start(ctx, "")
	if err := s.Set(ctx, "k", `"v"`, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.Has("k") {
		t.Error("Has(k) = false")
	}

	all := s.All()
	if len(all) != 1 || all["k"] != `"v"` {
		t.Errorf("All() = %v", all)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Has("k") {
		t.Error("Has(k) after Delete = true")
	}
	// Absent key delete is a no-op.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete repeated: %v", err)
	}
}

func TestSessionSetExtendsTTL(t *testing.T) {
	m, _ := newTestManager(t, WithDefaultTTL(time.Hour))
	ctx := context.Background()

	s, _ := m.Start(ctx, "")

	// Zero TTL makes the session non-expiring.
	s.Set(ctx, "k", "1", 0)
	if s.Expired(time.Now().Add(1000 * time.Hour)) {
		t.Error("session with zero TTL expired")
	}

	s.Set(ctx, "k", "2", time.Minute)
	if s.Expired(time.Now()) {
		t.Error("session expired immediately after Set")
	}
	if !s.Expired(time.Now().Add(2 * time.Minute)) {
		t.Error("session not expired past its TTL")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	m, engine := newTestManager(t,
		WithDefaultTTL(time.Millisecond),
		WithSweepInterval(10*time.Millisecond))
	ctx := context.Background()

	s, _ := m.Start(ctx, "")
	id := s.ID()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Count() == 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if m.Count() != 0 {
		t.Fatal("sweeper did not evict expired session")
	}
	if _, err := engine.Get(ctx, engineKey(id)); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Error("sweeper left persisted record behind")
	}
}
