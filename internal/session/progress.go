package session

import (
	"context"
	"log"
	"time"

	"inducthub/internal/model"
)

// saveTimeout bounds each durable-store write so a slow store can never
// wedge the session.
const saveTimeout = 2 * time.Second

func timerAfter(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, fn)
}

func logf(s *Session, format string, args ...interface{}) {
	log.Printf("session %s: "+format, append([]interface{}{s.AssignmentID}, args...)...)
}

// scheduleAutosaveLocked (re)arms the trailing debounce: only the last
// change within the window triggers a write.
func (s *Session) scheduleAutosaveLocked() {
	if !s.state.Started {
		return
	}
	s.cancelAutosaveLocked()
	gen := s.saveGen
	s.saveTimer = timerAfter(s.timing.SaveDebounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.saveGen {
			return
		}
		s.saveTimer = nil
		s.saveLocked()
	})
}

// forceSaveLocked writes immediately, cancelling any pending debounce so
// a stale debounced write cannot land after this one.
func (s *Session) forceSaveLocked() {
	if !s.state.Started {
		return
	}
	s.cancelAutosaveLocked()
	s.saveLocked()
}

// ForceSave persists current progress now. Navigation transitions and
// visibility/unload notifications from the client call this.
func (s *Session) ForceSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	s.forceSaveLocked()
	return nil
}

// saveLocked performs one durable write. Failures are logged and the
// session carries on without persistence.
func (s *Session) saveLocked() {
	now := s.clock.Now()
	s.saveSeq++
	rec := &model.ProgressRecord{
		Answers:      copyAnswers(s.state.Answers),
		CurrentIndex: s.state.CurrentIndex,
		Answered:     copyFlags(s.state.Answered),
		LastUpdated:  now,
		Seq:          s.saveSeq,
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.AssignmentID, rec); err != nil {
		logf(s, "progress save failed: %v", err)
		return
	}
	s.dispatch(SetLastSaved{At: now})
	s.events.BroadcastToManagers(s.AssignmentID, EventProgressSaved, map[string]interface{}{
		"userId":    s.UserID,
		"savedAt":   now,
		"index":     s.state.CurrentIndex,
		"answered":  countAnswered(s.state.Answered),
		"questions": s.state.QuestionCount(),
	})
}

// initializeProgressLocked runs once when the session starts: a saved
// record becomes a recovery candidate with an auto-apply countdown, an
// empty store just seeds default answer slots.
func (s *Session) initializeProgressLocked(ctx context.Context) {
	rec, err := s.store.Load(ctx, s.AssignmentID)
	if err != nil {
		logf(s, "progress load failed, continuing without saved work: %v", err)
		rec = nil
	}

	if rec == nil {
		s.seedDefaultAnswersLocked()
		return
	}

	s.saveSeq = rec.Seq
	s.recovery = &model.RecoveryCandidate{
		Answers:        rec.Answers,
		CurrentIndex:   rec.CurrentIndex,
		Answered:       rec.Answered,
		LastUpdated:    rec.LastUpdated,
		TotalQuestions: s.state.QuestionCount(),
		AnsweredCount:  countAnswered(rec.Answered),
		AutoApplyAt:    s.clock.Now().Add(s.timing.RecoverAfter),
	}

	s.recoverGen++
	gen := s.recoverGen
	s.recoverTimer = timerAfter(s.timing.RecoverAfter, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.recoverGen {
			return
		}
		s.recoverTimer = nil
		s.applyRecoveryLocked()
	})
}

// Recovery returns the pending recovery candidate, or nil.
func (s *Session) Recovery() *model.RecoveryCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recovery == nil {
		return nil
	}
	cand := *s.recovery
	return &cand
}

// RecoverSavedProgress applies the saved record immediately instead of
// waiting out the countdown.
func (s *Session) RecoverSavedProgress() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.recovery == nil {
		return nil
	}
	s.cancelRecoverLocked()
	s.applyRecoveryLocked()
	return nil
}

// StartFresh discards the saved record and starts over.
func (s *Session) StartFresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.cancelRecoverLocked()
	s.recovery = nil
	if err := s.store.Clear(ctx, s.AssignmentID); err != nil {
		logf(s, "failed to clear saved progress: %v", err)
	}
	s.dispatch(ResetSession{})
	s.dispatch(SetStarted{})
	s.seedDefaultAnswersLocked()
	return nil
}

func (s *Session) applyRecoveryLocked() {
	if s.recovery == nil {
		return
	}
	rec := &model.ProgressRecord{
		Answers:      s.recovery.Answers,
		CurrentIndex: s.recovery.CurrentIndex,
		Answered:     s.recovery.Answered,
		LastUpdated:  s.recovery.LastUpdated,
	}
	s.recovery = nil
	s.dispatch(LoadSavedProgress{Record: rec})
	s.seedDefaultAnswersLocked()
	s.events.BroadcastToStaff(s.AssignmentID, EventProgressRecovered, map[string]interface{}{
		"currentQuestionIndex": s.state.CurrentIndex,
		"answeredCount":        countAnswered(s.state.Answered),
	})
}

// seedDefaultAnswersLocked ensures every question has an answer slot.
func (s *Session) seedDefaultAnswersLocked() {
	if s.state.Induction == nil {
		return
	}
	ids := make([]string, 0, len(s.state.Induction.Questions))
	for i := range s.state.Induction.Questions {
		ids = append(ids, s.state.Induction.Questions[i].ID)
	}
	s.dispatch(InitAnswers{QuestionIDs: ids})
}

func countAnswered(answered map[string]bool) int {
	n := 0
	for _, done := range answered {
		if done {
			n++
		}
	}
	return n
}
