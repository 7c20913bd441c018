package session

import (
	"time"

	"inducthub/internal/model"
)

// Action is one state transition request. All session state changes go
// through Apply; nothing mutates model.SessionState in place.
type Action interface {
	isAction()
}

// SetData loads the induction and assignment into the session.
type SetData struct {
	Induction  *model.Induction
	Assignment *model.Assignment
}

// SetView moves the view lifecycle. NOT_FOUND is sticky: once entered,
// later transitions are ignored, and the induction reference is dropped.
type SetView struct {
	View model.ViewState
}

// SetError records a user-facing error message.
type SetError struct {
	Message string
}

// SetStarted flips the started flag, once per session.
type SetStarted struct{}

// SetCurrent moves the current question pointer.
type SetCurrent struct {
	Index int
}

// SetAnswer records one raw answer.
type SetAnswer struct {
	QuestionID string
	Value      model.AnswerValue
}

// SetAnswered marks one question's completion flag.
type SetAnswered struct {
	QuestionID string
	Done       bool
}

// SetFeedback replaces the inline feedback.
type SetFeedback struct {
	Feedback model.Feedback
}

// SetSubmissionScreen toggles the submission review screen.
type SetSubmissionScreen struct {
	Show bool
}

// SetSubmitting toggles the in-flight submission flag.
type SetSubmitting struct {
	On bool
}

// SetLastSaved records the time of the last successful durable write.
type SetLastSaved struct {
	At time.Time
}

// SetImageURLs stores the resolved question image URLs.
type SetImageURLs struct {
	URLs map[string]string
}

// InitAnswers populates empty answer slots for every question.
type InitAnswers struct {
	QuestionIDs []string
}

// LoadSavedProgress bulk-applies a recovered progress record.
type LoadSavedProgress struct {
	Record *model.ProgressRecord
}

// ResetSession returns to the pre-start state, preserving the loaded
// induction, assignment, image URLs and view state.
type ResetSession struct{}

// BumpLoadAttempts increments the fetch retry counter.
type BumpLoadAttempts struct{}

func (SetData) isAction() {}
func (SetView) isAction() {}
func (SetError) isAction() {}
func (SetStarted) isAction() {}
func (SetCurrent) isAction() {}
func (SetAnswer) isAction() {}
func (SetAnswered) isAction() {}
func (SetFeedback) isAction() {}
func (SetSubmissionScreen) isAction() {}
func (SetSubmitting) isAction() {}
func (SetLastSaved) isAction() {}
func (SetImageURLs) isAction() {}
func (InitAnswers) isAction() {}
func (LoadSavedProgress) isAction() {}
func (ResetSession) isAction() {}
func (BumpLoadAttempts) isAction() {}

// NewSessionState returns the initial state: LOADING, nothing answered.
func NewSessionState() model.SessionState {
	return model.SessionState{
		View:     model.ViewLoading,
		Answers:  make(map[string]model.AnswerValue),
		Answered: make(map[string]bool),
	}
}

// Apply is the session reducer: a pure function of (state, action). Maps
// are copied on write so earlier snapshots stay valid.
func Apply(s model.SessionState, a Action) model.SessionState {
	switch act := a.(type) {
	case SetData:
		s.Induction = act.Induction
		s.Assignment = act.Assignment

	case SetView:
		if s.View == model.ViewNotFound {
			return s
		}
		s.View = act.View
		if act.View == model.ViewNotFound {
			s.Induction = nil
		}

	case SetError:
		s.ErrorMsg = act.Message

	case SetStarted:
		s.Started = true

	case SetCurrent:
		s.CurrentIndex = act.Index

	case SetAnswer:
		answers := copyAnswers(s.Answers)
		answers[act.QuestionID] = act.Value
		s.Answers = answers

	case SetAnswered:
		answered := copyFlags(s.Answered)
		answered[act.QuestionID] = act.Done
		s.Answered = answered

	case SetFeedback:
		s.Feedback = act.Feedback

	case SetSubmissionScreen:
		s.ShowSubmission = act.Show

	case SetSubmitting:
		s.Submitting = act.On

	case SetLastSaved:
		s.LastSaved = act.At

	case SetImageURLs:
		s.ImageURLs = act.URLs

	case InitAnswers:
		answers := copyAnswers(s.Answers)
		for _, id := range act.QuestionIDs {
			if _, ok := answers[id]; !ok {
				answers[id] = model.AnswerValue{}
			}
		}
		s.Answers = answers

	case LoadSavedProgress:
		if act.Record == nil {
			return s
		}
		s.Answers = copyAnswers(act.Record.Answers)
		s.Answered = copyFlags(act.Record.Answered)
		s.CurrentIndex = clampIndex(act.Record.CurrentIndex, s.QuestionCount())
		s.Feedback = model.Feedback{}

	case ResetSession:
		preserved := model.SessionState{
			View:       s.View,
			Induction:  s.Induction,
			Assignment: s.Assignment,
			ImageURLs:  s.ImageURLs,
			Answers:    make(map[string]model.AnswerValue),
			Answered:   make(map[string]bool),
		}
		return preserved

	case BumpLoadAttempts:
		s.LoadAttempts++
	}

	return s
}

func copyAnswers(in map[string]model.AnswerValue) map[string]model.AnswerValue {
	out := make(map[string]model.AnswerValue, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clampIndex(idx, count int) int {
	if idx < 0 {
		return 0
	}
	if count > 0 && idx >= count {
		return count - 1
	}
	return idx
}
