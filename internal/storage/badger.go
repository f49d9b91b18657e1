package storage

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/statebag/statebag/internal/telemetry/logger"
)

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// SyncWrites enables fsync after each write.
	// Default: false; sessions are reconstructible state.
	SyncWrites bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
		CacheSize:   64 << 20,
		SyncWrites:  false,
	}
}

// BadgerEngine implements Engine using Badger v3. Sessions survive
// process restarts.
type BadgerEngine struct {
	db  *badger.DB
	cfg BadgerConfig
	log logger.Logger

	closed     atomic.Bool
	lastGCTime atomic.Int64 // Unix milliseconds

	metricTotalSize prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerEngine opens a Badger-backed engine.
func NewBadgerEngine(cfg BadgerConfig, log logger.Logger) (*BadgerEngine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{log: log}
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	engine := &BadgerEngine{
		db:     db,
		cfg:    cfg,
		log:    log,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		metricTotalSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "statebag",
			Name:      "engine_badger_size_bytes",
			Help:      "Total Badger disk usage (LSM plus value log).",
		}),
	}

	go engine.gcLoop()

	log.Info("badger engine started",
		"dir", cfg.Dir,
		"gc_interval", cfg.GCInterval)

	return engine, nil
}

// Collector returns the engine's prometheus collector, for registration
// with the application metrics registry.
func (e *BadgerEngine) Collector() prometheus.Collector {
	return e.metricTotalSize
}

// Get retrieves a value by key.
func (e *BadgerEngine) Get(_ context.Context, key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (e *BadgerEngine) Set(_ context.Context, key, value []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes a key.
func (e *BadgerEngine) Delete(_ context.Context, key []byte) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Scan iterates over keys with the given prefix.
func (e *BadgerEngine) Scan(_ context.Context, prefix []byte, fn func(key, value []byte) bool) error {
	if e.closed.Load() {
		return ErrClosed
	}
	return e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if !fn(item.Key(), value) {
				break
			}
		}
		return nil
	})
}

// Stats returns storage statistics.
func (e *BadgerEngine) Stats(_ context.Context) (*Stats, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	lsm, vlog := e.db.Size()
	return &Stats{
		TotalSize:  uint64(lsm + vlog),
		LastGCTime: e.lastGCTime.Load(),
	}, nil
}

// Close stops the GC loop and shuts down Badger.
func (e *BadgerEngine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	close(e.stopCh)
	<-e.doneCh
	return e.db.Close()
}

// gcLoop runs periodic value log garbage collection.
func (e *BadgerEngine) gcLoop() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.runGC()
		}
	}
}

func (e *BadgerEngine) runGC() {
	start := time.Now()
	cycles := 0
	for {
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				e.log.Warn("badger gc failed", "error", err)
			}
			break
		}
		cycles++
	}

	e.lastGCTime.Store(time.Now().UnixMilli())
	lsm, vlog := e.db.Size()
	e.metricTotalSize.Set(float64(lsm + vlog))

	if cycles > 0 {
		e.log.Debug("badger gc completed",
			"cycles", cycles,
			"elapsed", time.Since(start))
	}
}

// badgerLogger adapts the application logger to Badger's Logger
// interface.
type badgerLogger struct {
	log logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
