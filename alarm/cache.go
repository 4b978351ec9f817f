/*
cache.go - Read-through record cache

PURPOSE:
  The engine reads the full alarm set often (every schedule pass) and writes
  rarely, so the store is read at most once: the first Load takes a full
  snapshot and every later read is served from memory. This is single-slot
  memoization, not an LRU - there is one entry (the whole set) and no
  eviction.

STATE MACHINE:
  {Uninitialized, Loaded}

  Load: Uninitialized -> Loaded (one store read)
        Loaded        -> Loaded (no store access)
  Save: store append first; snapshot append only after it succeeds, so a
        failed write never desynchronizes the cache.

SAVE-BEFORE-LOAD POLICY:
  Save on an Uninitialized cache populates the snapshot from the store
  before appending (eager read-through). The alternative - leaving the cache
  Uninitialized and letting the next Load pick the record up - is equally
  correct for content, but eager population keeps Count in step with every
  successful save, which the service's record count relies on.

CONCURRENCY:
  Guarded by a mutex. The logical access pattern is cooperative, but the
  HTTP surface makes overlapping calls possible and the snapshot check-then-
  create must not race.
*/
package alarm

import (
	"context"
	"sync"
)

// Cache is a read-through, write-through cache over a Store, holding a
// single snapshot of all records.
type Cache struct {
	store Store

	mu       sync.Mutex
	loaded   bool
	snapshot []Record
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Load returns all records, reading the store only on the first call.
// Callers must not mutate the returned slice.
func (c *Cache) Load(ctx context.Context) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fillLocked(ctx); err != nil {
		return nil, err
	}
	return c.snapshot, nil
}

// Save persists rec and appends it to the snapshot. The store write happens
// first; on failure the snapshot is untouched and the error is surfaced as
// ErrStorage.
func (c *Cache) Save(ctx context.Context, rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Take the pre-write snapshot so the append below lands exactly once.
	if err := c.fillLocked(ctx); err != nil {
		return err
	}

	if err := c.store.Append(ctx, rec); err != nil {
		return storageErr("append", err)
	}

	c.snapshot = append(c.snapshot, rec)
	return nil
}

// Count returns the number of records in the snapshot. It is a cache-state
// query: before the first Load or Save it reports 0 regardless of what the
// store holds.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snapshot)
}

func (c *Cache) fillLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	recs, err := c.store.AllValues(ctx)
	if err != nil {
		return storageErr("load", err)
	}
	c.snapshot = recs
	c.loaded = true
	return nil
}
