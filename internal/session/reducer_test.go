package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inducthub/internal/model"
)

func TestReducerNotFoundIsSticky(t *testing.T) {
	state := NewSessionState()
	state = Apply(state, SetData{Induction: testInduction()})
	state = Apply(state, SetView{View: model.ViewNotFound})

	assert.Equal(t, model.ViewNotFound, state.View)
	assert.Nil(t, state.Induction, "NOT_FOUND drops the loaded induction")

	// No later transition can leave NOT_FOUND.
	state = Apply(state, SetView{View: model.ViewSuccess})
	assert.Equal(t, model.ViewNotFound, state.View)
	state = Apply(state, SetView{View: model.ViewError})
	assert.Equal(t, model.ViewNotFound, state.View)
}

func TestReducerCopyOnWrite(t *testing.T) {
	state := NewSessionState()
	before := state

	state = Apply(state, SetAnswer{QuestionID: "q1", Value: model.AnswerValue{Text: "hello there"}})
	state = Apply(state, SetAnswered{QuestionID: "q1", Done: true})

	assert.Empty(t, before.Answers, "earlier snapshots are unaffected")
	assert.Empty(t, before.Answered)
	assert.Equal(t, "hello there", state.Answers["q1"].Text)
	assert.True(t, state.Answered["q1"])
}

func TestReducerInitAnswersKeepsExisting(t *testing.T) {
	state := NewSessionState()
	state = Apply(state, SetAnswer{QuestionID: "q1", Value: model.AnswerValue{Text: "kept answer"}})
	state = Apply(state, InitAnswers{QuestionIDs: []string{"q1", "q2"}})

	assert.Equal(t, "kept answer", state.Answers["q1"].Text)
	_, ok := state.Answers["q2"]
	assert.True(t, ok, "missing slots are seeded empty")
	assert.True(t, state.Answers["q2"].IsEmpty())
}

func TestReducerLoadSavedProgress(t *testing.T) {
	state := NewSessionState()
	state = Apply(state, SetData{Induction: testInduction()})
	state = Apply(state, SetFeedback{Feedback: model.Feedback{Show: true, Message: "old"}})

	state = Apply(state, LoadSavedProgress{Record: &model.ProgressRecord{
		Answers:      map[string]model.AnswerValue{"mc": {Options: []int{0, 2}}},
		Answered:     map[string]bool{"mc": true},
		CurrentIndex: 99, // Out of range, clamped to the last question
	}})

	assert.Equal(t, 4, state.CurrentIndex)
	assert.Equal(t, []int{0, 2}, state.Answers["mc"].Options)
	assert.True(t, state.Answered["mc"])
	assert.False(t, state.Feedback.Show, "recovery clears stale feedback")

	// A nil record is a no-op.
	state = Apply(state, LoadSavedProgress{})
	assert.Equal(t, 4, state.CurrentIndex)
}

func TestReducerResetPreservesLoadedData(t *testing.T) {
	ind := testInduction()
	state := NewSessionState()
	state = Apply(state, SetData{Induction: ind, Assignment: &model.Assignment{ID: "a1"}})
	state = Apply(state, SetView{View: model.ViewSuccess})
	state = Apply(state, SetImageURLs{URLs: map[string]string{"ref": "/v1/files/ref"}})
	state = Apply(state, SetStarted{})
	state = Apply(state, SetCurrent{Index: 3})
	state = Apply(state, SetAnswer{QuestionID: "mc", Value: model.AnswerValue{Options: []int{0}}})

	state = Apply(state, ResetSession{})

	assert.Equal(t, model.ViewSuccess, state.View)
	assert.Same(t, ind, state.Induction)
	require.NotNil(t, state.Assignment)
	assert.Equal(t, "/v1/files/ref", state.ImageURLs["ref"])

	assert.False(t, state.Started)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.Answered)
	assert.False(t, state.ShowSubmission)
}

func TestReducerCurrentQuestion(t *testing.T) {
	state := NewSessionState()
	assert.Nil(t, state.CurrentQuestion())
	assert.Equal(t, 0, state.QuestionCount())

	state = Apply(state, SetData{Induction: testInduction()})
	assert.Equal(t, 5, state.QuestionCount())
	require.NotNil(t, state.CurrentQuestion())
	assert.Equal(t, "info", state.CurrentQuestion().ID)

	state = Apply(state, SetCurrent{Index: 2})
	assert.Equal(t, "tf", state.CurrentQuestion().ID)
}

func TestReducerBumpLoadAttempts(t *testing.T) {
	state := NewSessionState()
	state = Apply(state, BumpLoadAttempts{})
	state = Apply(state, BumpLoadAttempts{})
	assert.Equal(t, 2, state.LoadAttempts)
}
