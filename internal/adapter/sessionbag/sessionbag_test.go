package sessionbag

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/session"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	engine := storage.NewMemoryEngine()
	m := session.NewManager(engine, session.WithLogger(logger.Nop()))
	t.Cleanup(func() {
		m.Close()
		engine.Close()
	})
	return m
}

func TestKindAndTTL(t *testing.T) {
	a := New(context.Background(), newTestManager(t), "")
	if a.Kind() != domain.KindSession {
		t.Errorf("Kind() = %q, want session", a.Kind())
	}
	if a.DefaultTTL() != domain.DefaultSessionTTL {
		t.Errorf("DefaultTTL() = %v, want %v", a.DefaultTTL(), domain.DefaultSessionTTL)
	}
}

func TestSessionStartsLazily(t *testing.T) {
	mgr := newTestManager(t)
	a := New(context.Background(), mgr, "")

	// Construction alone allocates nothing.
	if a.Session() != nil {
		t.Error("Session() before Snapshot != nil")
	}
	if mgr.Count() != 0 {
		t.Errorf("manager holds %d sessions before Snapshot", mgr.Count())
	}

	snap, err := a.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("fresh session snapshot has %d entries", len(snap))
	}
	if a.Session() == nil {
		t.Fatal("Session() after Snapshot = nil")
	}
	if mgr.Count() != 1 {
		t.Errorf("manager holds %d sessions, want 1", mgr.Count())
	}
}

func TestSnapshotResumesRequestedSession(t *testing.T) {
	mgr := newTestManager(t)
	ctx := context.Background()

	seed := New(ctx, mgr, "")
	if _, err := seed.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	seed.Persist("user", `"bob"`, time.Hour)
	id := seed.Session().ID()

	a := New(ctx, mgr, id)
	snap, err := a.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if a.Session().ID() != id {
		t.Errorf("resumed id = %q, want %q", a.Session().ID(), id)
	}
	if snap["user"] != `"bob"` {
		t.Errorf("snapshot[user] = %q", snap["user"])
	}
}

func TestPersistDiscardContains(t *testing.T) {
	a := New(context.Background(), newTestManager(t), "")
	if _, err := a.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if err := a.Persist("k", "raw", time.Hour); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if !a.Contains("k") {
		t.Error("Contains(k) = false")
	}
	if raw, _ := a.Session().Get("k"); raw != "raw" {
		t.Errorf("session[k] = %q", raw)
	}

	if err := a.Discard("k"); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if a.Contains("k") {
		t.Error("Contains(k) after Discard = true")
	}
}

func TestMediumUnavailableBeforeSnapshot(t *testing.T) {
	a := New(context.Background(), newTestManager(t), "")

	if err := a.Persist("k", "v", 0); !errors.Is(err, domain.ErrMediumUnavailable) {
		t.Errorf("Persist before Snapshot = %v, want ErrMediumUnavailable", err)
	}
	if err := a.Discard("k"); !errors.Is(err, domain.ErrMediumUnavailable) {
		t.Errorf("Discard before Snapshot = %v, want ErrMediumUnavailable", err)
	}
	if a.Contains("k") {
		t.Error("Contains before Snapshot = true")
	}
}
