package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"daily-routine/internal/metrics"
)

// ErrCorrupt is returned when a stored value cannot be decoded.
var ErrCorrupt = errors.New("storage: corrupt value")

// KV is a byte-oriented key-value backend scoped by owner.
type KV interface {
	Get(ctx context.Context, owner, key string) ([]byte, bool, error)
	Put(ctx context.Context, owner, key string, value []byte) error
	Delete(ctx context.Context, owner, key string) error
}

// Adapter stores JSON values on top of a KV backend. Writes always replace the
// whole value.
type Adapter struct {
	kv KV
}

func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// Load decodes the value under key into dst. A missing key leaves dst
// untouched and reports found=false without an error.
func (a *Adapter) Load(ctx context.Context, owner, key string, dst any) (bool, error) {
	timer := metrics.TrackStorageOperation("load")
	defer timer.ObserveDuration()

	raw, found, err := a.kv.Get(ctx, owner, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

// Save encodes v and replaces the value under key.
func (a *Adapter) Save(ctx context.Context, owner, key string, v any) error {
	timer := metrics.TrackStorageOperation("save")
	defer timer.ObserveDuration()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.kv.Put(ctx, owner, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) Remove(ctx context.Context, owner, key string) error {
	timer := metrics.TrackStorageOperation("remove")
	defer timer.ObserveDuration()

	if err := a.kv.Delete(ctx, owner, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Dated is a record that belongs to exactly one calendar date.
type Dated interface {
	EntryDate() string
}

// ReplaceByDate loads the list under key, drops the entry carrying the same
// date as entry, appends entry and writes the list back.
func ReplaceByDate[T Dated](ctx context.Context, a *Adapter, owner, key string, entry T) ([]T, error) {
	var entries []T
	if _, err := a.Load(ctx, owner, key, &entries); err != nil {
		return nil, err
	}
	kept := make([]T, 0, len(entries)+1)
	for _, e := range entries {
		if e.EntryDate() != entry.EntryDate() {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry)
	if err := a.Save(ctx, owner, key, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// FindByDate returns the entry for date from the list under key.
func FindByDate[T Dated](ctx context.Context, a *Adapter, owner, key, date string) (T, bool, error) {
	var zero T
	var entries []T
	if _, err := a.Load(ctx, owner, key, &entries); err != nil {
		return zero, false, err
	}
	for _, e := range entries {
		if e.EntryDate() == date {
			return e, true, nil
		}
	}
	return zero, false, nil
}
