package session

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/statebag/statebag/internal/core/domain"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/pkg/sid"
)

// Info is a read-only summary of a persisted session record, used by
// administrative tooling that inspects an engine directly without a
// running Manager.
type Info struct {
	ID         string
	CreatedAt  time.Time
	ExpiresAt  time.Time // zero when the session never expires
	LastActive time.Time
	Keys       int
}

func infoFromRecord(rec record) Info {
	info := Info{
		ID:         rec.ID,
		CreatedAt:  time.UnixMilli(rec.CreatedAt),
		LastActive: time.UnixMilli(rec.LastActive),
		Keys:       len(rec.Data),
	}
	if rec.ExpiresAt > 0 {
		info.ExpiresAt = time.UnixMilli(rec.ExpiresAt)
	}
	return info
}

// List returns summaries of all persisted session records, sorted by
// creation time.
func List(ctx context.Context, engine storage.Engine) ([]Info, error) {
	var infos []Info
	err := engine.Scan(ctx, []byte(keyPrefix), func(key, value []byte) bool {
		var rec record
		if json.Unmarshal(value, &rec) != nil {
			return true
		}
		infos = append(infos, infoFromRecord(rec))
		return true
	})
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos, nil
}

// Inspect returns the summary and raw data of one persisted session.
func Inspect(ctx context.Context, engine storage.Engine, id string) (Info, map[string]string, error) {
	if !sid.Valid(id) {
		return Info{}, nil, domain.ErrSessionIDInvalid
	}

	data, err := engine.Get(ctx, engineKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return Info{}, nil, domain.ErrSessionNotFound
		}
		return Info{}, nil, domain.ErrStorage.WithCause(err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Info{}, nil, domain.ErrSessionNotFound.WithDetails("corrupt record")
	}
	if rec.Data == nil {
		rec.Data = make(map[string]string)
	}
	return infoFromRecord(rec), rec.Data, nil
}

// Remove deletes the persisted record for id without a running
// Manager.
func Remove(ctx context.Context, engine storage.Engine, id string) error {
	if !sid.Valid(id) {
		return domain.ErrSessionIDInvalid
	}
	if err := engine.Delete(ctx, engineKey(id)); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Purge deletes session records expired at now, plus records that no
// longer parse. Returns the number of records removed.
func Purge(ctx context.Context, engine storage.Engine, now time.Time) (int, error) {
	var stale [][]byte
	err := engine.Scan(ctx, []byte(keyPrefix), func(key, value []byte) bool {
		var rec record
		if json.Unmarshal(value, &rec) != nil {
			k := make([]byte, len(key))
			copy(k, key)
			stale = append(stale, k)
			return true
		}
		if rec.ExpiresAt > 0 && rec.ExpiresAt <= now.UnixMilli() {
			k := make([]byte, len(key))
			copy(k, key)
			stale = append(stale, k)
		}
		return true
	})
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}

	purged := 0
	for _, key := range stale {
		if err := engine.Delete(ctx, key); err != nil {
			return purged, domain.ErrStorage.WithCause(err)
		}
		purged++
	}
	return purged, nil
}
