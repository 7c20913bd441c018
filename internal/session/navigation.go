package session

import (
	"fmt"
	"strings"

	"inducthub/internal/model"
	"inducthub/internal/validate"
)

// IncompleteError blocks the submission gate and lists which required
// questions are still missing answers.
type IncompleteError struct {
	Missing []validate.MissingAnswer
}

func (e *IncompleteError) Error() string {
	titles := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		titles = append(titles, fmt.Sprintf("%d. %s", m.Index+1, m.Question.Title))
	}
	return "required questions are unanswered: " + strings.Join(titles, "; ")
}

// Next validates the current answer and advances on success. Correct and
// pending-review answers advance after the feedback delay; incorrect
// answers show feedback and stay put. INFORMATION questions advance
// immediately. Any earlier pending advance is cancelled first.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	s.cancelAdvanceLocked()

	q := s.state.CurrentQuestion()
	if q == nil {
		return ErrIndexOutOfRange
	}

	if q.Type == model.QuestionTypeInformation {
		s.dispatch(SetAnswered{QuestionID: q.ID, Done: true})
		s.forceSaveLocked()
		s.advanceLocked()
		return nil
	}

	res := validate.Answer(q, s.state.Answers[q.ID])
	feedback := model.Feedback{Correct: res.Correct, Message: res.Message, Show: true}
	s.dispatch(SetFeedback{Feedback: feedback})

	if !res.Valid {
		return nil
	}
	if res.Correct != nil && !*res.Correct {
		// Wrong answer: Next is a no-op gate until the answer changes.
		return nil
	}

	s.dispatch(SetAnswered{QuestionID: q.ID, Done: true})
	s.forceSaveLocked()
	s.events.BroadcastToManagers(s.AssignmentID, EventQuestionAnswered, map[string]interface{}{
		"userId":     s.UserID,
		"questionId": q.ID,
		"index":      s.state.CurrentIndex,
		"pending":    res.Correct == nil,
	})
	s.scheduleAdvanceLocked()
	return nil
}

// Prev moves back one question.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	s.cancelAdvanceLocked()
	if s.state.CurrentIndex > 0 {
		s.dispatch(SetCurrent{Index: s.state.CurrentIndex - 1})
		s.dispatch(SetFeedback{})
		s.forceSaveLocked()
	}
	return nil
}

// JumpTo moves directly to a question from the navigation list.
// Navigation is unrestricted: visited and upcoming questions alike.
func (s *Session) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	if index < 0 || index >= s.state.QuestionCount() {
		return ErrIndexOutOfRange
	}
	s.cancelAdvanceLocked()
	s.dispatch(SetCurrent{Index: index})
	s.dispatch(SetFeedback{})
	s.forceSaveLocked()
	return nil
}

// GoToSubmission opens the submission review screen if every required
// question is answered; otherwise it reports what is missing.
func (s *Session) GoToSubmission() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	s.cancelAdvanceLocked()
	return s.openSubmissionLocked()
}

// BackTo returns from the submission screen to a specific question.
func (s *Session) BackTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	if index < 0 || index >= s.state.QuestionCount() {
		return ErrIndexOutOfRange
	}
	s.dispatch(SetCurrent{Index: index})
	s.dispatch(SetSubmissionScreen{Show: false})
	s.dispatch(SetFeedback{})
	return nil
}

func (s *Session) openSubmissionLocked() error {
	res := validate.AllRequiredAnswered(s.state.Induction.Questions, s.state.Answers)
	if !res.Valid {
		err := &IncompleteError{Missing: res.Missing}
		s.dispatch(SetError{Message: err.Error()})
		return err
	}
	s.dispatch(SetError{})
	s.dispatch(SetSubmissionScreen{Show: true})
	s.forceSaveLocked()
	s.events.BroadcastToManagers(s.AssignmentID, EventSubmissionOpened, map[string]interface{}{
		"userId": s.UserID,
	})
	return nil
}

// advanceLocked moves to the next question, or opens the submission gate
// from the last one.
func (s *Session) advanceLocked() {
	if s.state.CurrentIndex >= s.state.QuestionCount()-1 {
		if err := s.openSubmissionLocked(); err != nil {
			s.events.BroadcastToStaff(s.AssignmentID, EventSessionError, map[string]string{
				"message": err.Error(),
			})
		}
		return
	}
	s.dispatch(SetCurrent{Index: s.state.CurrentIndex + 1})
	s.dispatch(SetFeedback{}) // Feedback resets on arrival at the next question
	s.forceSaveLocked()
}

// scheduleAdvanceLocked arms the feedback pause. The handle is cancelled
// by any other navigation action before it fires.
func (s *Session) scheduleAdvanceLocked() {
	s.advanceGen++
	gen := s.advanceGen
	s.advanceTimer = timerAfter(s.timing.AdvanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.advanceGen {
			return
		}
		s.advanceTimer = nil
		s.advanceLocked()
	})
}
