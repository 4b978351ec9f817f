package alarm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/alarm-engine/alarm"
	"github.com/warp/alarm-engine/alarm/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testRecord(id int) alarm.Record {
	return alarm.Record{
		ID:   id,
		Time: alarm.NewTimeOfDay(7, 30),
		Days: map[string]bool{"MON": true, "WED": true},
	}
}

// failingStore rejects every operation.
type failingStore struct{}

func (failingStore) Append(context.Context, alarm.Record) error { return errors.New("disk full") }
func (failingStore) AllValues(context.Context) ([]alarm.Record, error) {
	return nil, errors.New("disk gone")
}

// =============================================================================
// MEMOIZATION
// =============================================================================

func TestCache_Load_ReadsStoreOnlyOnce(t *testing.T) {
	// GIVEN: A store holding two records
	// WHEN: Load is called twice with no intervening save
	// THEN: Both calls return the same content and the store is read once

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, testRecord(1)))
	require.NoError(t, mem.Append(ctx, testRecord(2)))

	cache := alarm.NewCache(mem)

	first, err := cache.Load(ctx)
	require.NoError(t, err)
	second, err := cache.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Equal(t, 1, mem.Reads(), "second Load must be served from memory")
}

// =============================================================================
// WRITE-THROUGH
// =============================================================================

func TestCache_Save_AppearsInStoreAndSnapshotOnce(t *testing.T) {
	// GIVEN: A loaded cache
	// WHEN: Saving a record and loading again
	// THEN: The record appears exactly once, with no extra store read

	mem := store.NewMemory()
	ctx := context.Background()
	cache := alarm.NewCache(mem)

	_, err := cache.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Save(ctx, testRecord(7)))

	recs, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 7, recs[0].ID)
	assert.Equal(t, 1, mem.Reads())

	stored, err := mem.AllValues(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1, "write-through must hit the store")
}

func TestCache_SaveBeforeLoad_NoDuplicateNoLoss(t *testing.T) {
	// GIVEN: A store already holding one record and an unloaded cache
	// WHEN: Saving a second record before the first Load
	// THEN: Load sees both records exactly once each

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, testRecord(1)))

	cache := alarm.NewCache(mem)
	require.NoError(t, cache.Save(ctx, testRecord(2)))

	recs, err := cache.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].ID)
	assert.Equal(t, 2, recs[1].ID)
}

func TestCache_SaveFailure_LeavesCacheConsistent(t *testing.T) {
	// GIVEN: A loaded cache whose store starts failing writes
	// WHEN: A save fails
	// THEN: The error wraps ErrStorage and the snapshot is untouched

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, testRecord(1)))

	cache := alarm.NewCache(&flakyStore{Memory: mem})
	_, err := cache.Load(ctx)
	require.NoError(t, err)

	err = cache.Save(ctx, testRecord(2))
	require.ErrorIs(t, err, alarm.ErrStorage)

	recs, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "failed save must not reach the snapshot")
	assert.Equal(t, 1, cache.Count())
}

// flakyStore reads fine but rejects writes.
type flakyStore struct {
	*store.Memory
}

func (f *flakyStore) Append(context.Context, alarm.Record) error {
	return errors.New("write rejected")
}

// =============================================================================
// COUNT
// =============================================================================

func TestCache_Count_IsACacheStateQuery(t *testing.T) {
	// GIVEN: A store holding records
	// THEN: Count is 0 before anything is loaded (deliberate undercount),
	//       reflects the snapshot after Load, and grows by 1 per save

	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, testRecord(1)))

	cache := alarm.NewCache(mem)
	assert.Equal(t, 0, cache.Count(), "no snapshot yet")

	_, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Count())

	require.NoError(t, cache.Save(ctx, testRecord(2)))
	assert.Equal(t, 2, cache.Count())

	require.NoError(t, cache.Save(ctx, testRecord(3)))
	assert.Equal(t, 3, cache.Count())
}

func TestCache_LoadFailure_Surfaced(t *testing.T) {
	cache := alarm.NewCache(failingStore{})

	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, alarm.ErrStorage)
	assert.Equal(t, 0, cache.Count())
}
