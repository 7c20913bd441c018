package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inducthub/internal/model"
)

func savedIndex(f *fixture, t *testing.T) int {
	t.Helper()
	rec, err := f.store.Load(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec.CurrentIndex
}

func TestAutosaveDebounce(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)

	// Rapid answer changes collapse into one trailing write.
	require.NoError(t, s.Answer("sa", model.AnswerValue{Text: "first draft"}))
	require.NoError(t, s.Answer("sa", model.AnswerValue{Text: "second draft"}))
	require.NoError(t, s.Answer("sa", model.AnswerValue{Text: "final draft text"}))

	rec, err := f.store.Load(context.Background(), "a1")
	require.NoError(t, err)
	assert.Nil(t, rec, "nothing persists before the debounce elapses")

	waitFor(t, time.Second, func() bool {
		rec, err := f.store.Load(context.Background(), "a1")
		return err == nil && rec != nil
	})
	rec, err = f.store.Load(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "final draft text", rec.Answers["sa"].Text)
	assert.Equal(t, 1, f.events.count(EventProgressSaved))
}

func TestForceSaveCancelsPendingDebounce(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)

	require.NoError(t, s.Answer("sa", model.AnswerValue{Text: "typed then saved"}))
	require.NoError(t, s.ForceSave())

	rec, err := f.store.Load(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "typed then saved", rec.Answers["sa"].Text)
	saves := f.events.count(EventProgressSaved)

	// The debounced write was cancelled; no second write lands.
	time.Sleep(3 * testTiming().SaveDebounce)
	assert.Equal(t, saves, f.events.count(EventProgressSaved))
}

func TestNavigationForceSaves(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)

	require.NoError(t, s.JumpTo(2))
	assert.Equal(t, 2, savedIndex(f, t))

	require.NoError(t, s.Prev())
	assert.Equal(t, 1, savedIndex(f, t))
}

func TestLastSavedTracked(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)

	require.NoError(t, s.ForceSave())
	assert.Equal(t, f.clock.Now(), s.Snapshot().LastSaved)
}

func TestStartWithSavedProgressOffersRecovery(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Save(context.Background(), "a1", &model.ProgressRecord{
		Answers:      map[string]model.AnswerValue{"mc": {Options: []int{0, 2}}},
		Answered:     map[string]bool{"info": true, "mc": true},
		CurrentIndex: 2,
		LastUpdated:  f.clock.Now(),
		Seq:          7,
	}))

	s := f.openSession(t)

	cand := s.Recovery()
	require.NotNil(t, cand)
	assert.Equal(t, 2, cand.CurrentIndex)
	assert.Equal(t, 2, cand.AnsweredCount)
	assert.Equal(t, 5, cand.TotalQuestions)
	assert.Equal(t, f.clock.Now().Add(testTiming().RecoverAfter), cand.AutoApplyAt)

	// Until a choice is made the session sits at the beginning.
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)
}

func TestRecoverSavedProgressApplies(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Save(context.Background(), "a1", &model.ProgressRecord{
		Answers:      map[string]model.AnswerValue{"mc": {Options: []int{0, 2}}},
		Answered:     map[string]bool{"info": true, "mc": true},
		CurrentIndex: 2,
		LastUpdated:  f.clock.Now(),
		Seq:          7,
	}))
	s := f.openSession(t)

	require.NoError(t, s.RecoverSavedProgress())

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.CurrentIndex)
	assert.Equal(t, []int{0, 2}, snap.Answers["mc"].Options)
	assert.True(t, snap.Answered["mc"])
	assert.Nil(t, s.Recovery())
	assert.Equal(t, 1, f.events.count(EventProgressRecovered))

	// New writes continue the saved sequence instead of restarting it.
	require.NoError(t, s.ForceSave())
	rec, err := f.store.Load(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Greater(t, rec.Seq, uint64(7))
}

func TestRecoveryAutoAppliesAfterCountdown(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Save(context.Background(), "a1", &model.ProgressRecord{
		Answers:      map[string]model.AnswerValue{"sa": {Text: "recovered text here"}},
		Answered:     map[string]bool{"sa": true},
		CurrentIndex: 3,
		LastUpdated:  f.clock.Now(),
		Seq:          1,
	}))
	s := f.openSession(t)
	require.NotNil(t, s.Recovery())

	waitFor(t, time.Second, func() bool { return s.Snapshot().CurrentIndex == 3 })
	assert.Nil(t, s.Recovery())
	assert.Equal(t, "recovered text here", s.Snapshot().Answers["sa"].Text)
}

func TestStartFreshDiscardsSavedProgress(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Save(context.Background(), "a1", &model.ProgressRecord{
		Answers:      map[string]model.AnswerValue{"sa": {Text: "old work in progress"}},
		Answered:     map[string]bool{"sa": true},
		CurrentIndex: 3,
		LastUpdated:  f.clock.Now(),
		Seq:          4,
	}))
	s := f.openSession(t)
	require.NotNil(t, s.Recovery())

	require.NoError(t, s.StartFresh(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Started)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.True(t, snap.Answers["sa"].IsEmpty())
	assert.Nil(t, s.Recovery())
	assert.False(t, f.store.Has("a1"), "the saved record is gone")

	// The dismissed countdown never fires.
	time.Sleep(2 * testTiming().RecoverAfter)
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)
}

func TestRecoverWithoutCandidateIsNoop(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)
	require.NoError(t, s.RecoverSavedProgress())
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)
}

func TestStartSeedsAnswerSlots(t *testing.T) {
	f := newFixture()
	s := f.openSession(t)

	snap := s.Snapshot()
	require.Len(t, snap.Answers, 5)
	for _, q := range testInduction().Questions {
		v, ok := snap.Answers[q.ID]
		assert.True(t, ok)
		assert.True(t, v.IsEmpty())
	}
}
