package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/statebag/statebag/internal/adapter/membag"
	"github.com/statebag/statebag/internal/bag"
	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/registry"
	"github.com/statebag/statebag/internal/session"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
)

// EntryCounts defines the store sizes for benchmarking.
var EntryCounts = []int{100, 1000, 10000}

// SmallEntryCounts for quick benchmarks.
var SmallEntryCounts = []int{100, 1000}

// newStore builds a memory-backed store prefilled with count entries.
func newStore(b *testing.B, count int) *bag.Store {
	b.Helper()

	seed := make(map[string]string, count)
	for i := 0; i < count; i++ {
		seed[fmt.Sprintf("key-%d", i)] = fmt.Sprintf("%q", fmt.Sprintf("value-%d", i))
	}

	reg := registry.New(registry.WithLogger(logger.Nop()))
	store, err := reg.Instance(membag.New(membag.WithSeed(seed)))
	if err != nil {
		b.Fatalf("Instance failed: %v", err)
	}
	return store
}

// newManager builds a session manager over a fresh memory engine.
func newManager(b *testing.B) *session.Manager {
	b.Helper()

	engine := storage.NewMemoryEngine()
	mgr := session.NewManager(engine, session.WithLogger(logger.Nop()))
	b.Cleanup(func() {
		mgr.Close()
		engine.Close()
	})
	return mgr
}

// prefillSessions starts count fresh sessions and returns their ids.
func prefillSessions(b *testing.B, ctx context.Context, mgr *session.Manager, count int) []string {
	b.Helper()

	ids := make([]string, count)
	for i := 0; i < count; i++ {
		s, err := mgr.Start(ctx, "")
		if err != nil {
			b.Fatalf("Start failed: %v", err)
		}
		ids[i] = s.ID()
	}
	return ids
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

var benchValue = domain.Map(map[string]domain.Value{
	"name":  domain.String("bench"),
	"count": domain.Int(42),
})
