package snapshot

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"lottolab/domain/analysis"
	"lottolab/internal"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"
)

// Key identifies one cached computation.
type Key struct {
	Scope     string
	MaxDrawNo int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Scope, k.MaxDrawNo)
}

// Cache holds the last computed snapshot per (scope, max draw no) key.
// Concurrent requests for the same key coalesce onto a single computation;
// a key covering a newer max draw number invalidates older keys for the
// same scope. An optional SnapshotStore persists computed snapshots.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*analysis.Snapshot

	group singleflight.Group
	store ports.SnapshotStore
	log   *internal.Logger
}

// NewCache creates a cache. store may be nil for purely in-memory use.
func NewCache(store ports.SnapshotStore, logger *internal.Logger) *Cache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cache{
		entries: make(map[Key]*analysis.Snapshot),
		store:   store,
		log:     logger,
	}
}

// Get returns the cached snapshot for the key, if present.
func (c *Cache) Get(key Key) (*analysis.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.entries[key]
	return snapshot, ok
}

// GetOrCompute returns the cached snapshot for the key or computes it,
// coalescing concurrent callers so at most one computation per key is in
// flight. When a store is configured, a miss consults it before computing,
// so persisted snapshots survive a restart; computed snapshots are
// persisted back.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute func() (*analysis.Snapshot, error)) (*analysis.Snapshot, error) {
	if snapshot, ok := c.Get(key); ok {
		return snapshot, nil
	}

	result, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have filled it.
		if snapshot, ok := c.Get(key); ok {
			return snapshot, nil
		}

		if c.store != nil {
			snapshot, err := c.store.Find(ctx, key.Scope, key.MaxDrawNo)
			if err == nil {
				c.put(key, snapshot)
				return snapshot, nil
			}
			if !apperrors.HasCode(err, apperrors.CodeNotFound) {
				// Fall through to compute; a broken store must not block.
				c.log.Warn("snapshot %s not loaded from store: %v", key, err)
			}
		}

		snapshot, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(key, snapshot)

		if c.store != nil {
			if err := c.store.Save(ctx, snapshot); err != nil {
				// Persistence is best effort; the in-memory entry stays valid.
				c.log.Warn("snapshot %s not persisted: %v", key, err)
			}
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*analysis.Snapshot), nil
}

// put stores the snapshot and invalidates older keys for the same scope.
func (c *Cache) put(key Key, snapshot *analysis.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for existing := range c.entries {
		if existing.Scope == key.Scope && existing.MaxDrawNo < key.MaxDrawNo {
			delete(c.entries, existing)
		}
	}
	c.entries[key] = snapshot
}

// Len reports how many snapshots are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
