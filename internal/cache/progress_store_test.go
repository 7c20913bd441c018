package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inducthub/internal/model"
)

// fakeClock is a settable Clock for staleness tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newRecord(index int, seq uint64, at time.Time) *model.ProgressRecord {
	return &model.ProgressRecord{
		Answers: map[string]model.AnswerValue{
			"q1": {Text: "a saved answer here"},
		},
		CurrentIndex: index,
		Answered:     map[string]bool{"q1": true},
		LastUpdated:  at,
		Seq:          seq,
	}
}

func TestProgressStoreRoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(2, 1, clock.Now())))

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.CurrentIndex)
	assert.Equal(t, "a saved answer here", rec.Answers["q1"].Text)
	assert.True(t, rec.Answered["q1"])
	assert.Equal(t, uint64(1), rec.Seq)
}

func TestProgressStoreMissIsNil(t *testing.T) {
	store := NewMemoryProgressStore(nil)
	rec, err := store.Load(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestProgressStoreSaveIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	rec := newRecord(3, 5, clock.Now())
	require.NoError(t, store.Save(ctx, "a1", rec))
	require.NoError(t, store.Save(ctx, "a1", rec))

	got, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.CurrentIndex)
}

func TestProgressStoreDropsStaleWrite(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(4, 10, clock.Now())))
	// A write carrying an older sequence must not clobber the newer one.
	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 3, clock.Now())))

	got, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.CurrentIndex)
	assert.Equal(t, uint64(10), got.Seq)
}

func TestProgressStoreStaleRecordRemoved(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 1, clock.Now())))

	clock.Advance(25 * time.Hour)

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, rec, "a record older than a day is discarded")
	assert.False(t, store.Has("a1"), "discard removes the underlying record")
}

func TestProgressStoreJustUnderStaleness(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 1, clock.Now())))
	clock.Advance(23 * time.Hour)

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestProgressStoreClampsFutureTimestamp(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	// A clock-skewed record from the future is clamped, not discarded.
	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 1, clock.Now().Add(2*time.Hour))))

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.LastUpdated.After(clock.Now()))
}

func TestProgressStoreNormalizesBadFields(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", &model.ProgressRecord{
		CurrentIndex: -5,
		LastUpdated:  clock.Now(),
		Seq:          1,
	}))

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.CurrentIndex)
	assert.NotNil(t, rec.Answers)
	assert.NotNil(t, rec.Answered)
}

func TestProgressStoreClear(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 1, clock.Now())))
	require.NoError(t, store.Clear(ctx, "a1"))

	rec, err := store.Load(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Clearing a missing record is not an error.
	require.NoError(t, store.Clear(ctx, "a1"))
}

func TestProgressStoreRecordsAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryProgressStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a1", newRecord(1, 1, clock.Now())))
	require.NoError(t, store.Save(ctx, "a2", newRecord(2, 1, clock.Now())))
	require.NoError(t, store.Clear(ctx, "a1"))

	rec, err := store.Load(ctx, "a2")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.CurrentIndex)
}
