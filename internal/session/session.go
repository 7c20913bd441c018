// Package session implements the induction-taking engine: a reducer-owned
// state object per active assignment, navigation with per-type feedback
// and auto-advance, debounced durable autosave with recovery, and the
// two-phase submission pipeline.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"inducthub/internal/cache"
	"inducthub/internal/model"
)

// Timing groups the engine's timer settings. Tests shrink these; the
// defaults are the product behavior.
type Timing struct {
	AdvanceDelay time.Duration // Pause after correct/pending feedback before moving on
	SaveDebounce time.Duration // Trailing autosave delay after the last change
	RetryDelay   time.Duration // Between assignment fetch attempts
	RecoverAfter time.Duration // Recovery prompt auto-applies after this
}

// DefaultTiming returns the production timer settings.
func DefaultTiming() Timing {
	return Timing{
		AdvanceDelay: 1000 * time.Millisecond,
		SaveDebounce: 2000 * time.Millisecond,
		RetryDelay:   1500 * time.Millisecond,
		RecoverAfter: 10 * time.Second,
	}
}

// MaxLoadAttempts bounds the assignment fetch retry loop.
const MaxLoadAttempts = 3

var (
	ErrSessionNotReady   = errors.New("session is not ready")
	ErrSessionNotStarted = errors.New("session has not been started")
	ErrSubmitInFlight    = errors.New("submission already in progress")
	ErrIndexOutOfRange   = errors.New("question index out of range")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrSessionClosed     = errors.New("session is closed")
)

// Session is one active induction-taking session. All state lives in a
// single SessionState mutated only via the reducer under mu; timers
// re-acquire mu and check their generation so cancelled timers fire
// harmlessly.
type Session struct {
	ID           string
	AssignmentID string
	UserID       string

	mu    sync.Mutex
	state model.SessionState

	store       cache.ProgressStore
	files       FileStore
	assignments AssignmentSource
	events      Broadcaster
	clock       cache.Clock
	timing      Timing

	saveSeq  uint64 // Monotonic sequence attached to every durable write
	recovery *model.RecoveryCandidate

	advanceTimer *time.Timer
	advanceGen   uint64
	saveTimer    *time.Timer
	saveGen      uint64
	recoverTimer *time.Timer
	recoverGen   uint64

	closed bool
}

func newSession(assignmentID, userID string, store cache.ProgressStore, files FileStore,
	assignments AssignmentSource, events Broadcaster, clock cache.Clock, timing Timing) *Session {
	if events == nil {
		events = nopBroadcaster{}
	}
	if clock == nil {
		clock = cache.RealClock()
	}
	return &Session{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		UserID:       userID,
		state:        NewSessionState(),
		store:        store,
		files:        files,
		assignments:  assignments,
		events:       events,
		clock:        clock,
		timing:       timing,
	}
}

// dispatch applies one action. Callers hold mu.
func (s *Session) dispatch(a Action) {
	s.state = Apply(s.state, a)
}

// Snapshot returns a copy of the session state safe to read concurrently.
func (s *Session) Snapshot() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Answers = copyAnswers(s.state.Answers)
	snap.Answered = copyFlags(s.state.Answered)
	return snap
}

// Start flips the session to started, exactly once, moves the assignment
// to in_progress, and kicks off progress recovery or default answers.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.state.View != model.ViewSuccess {
		return ErrSessionNotReady
	}
	if s.state.Started {
		return nil
	}
	s.dispatch(SetStarted{})

	// Best effort: the session works even if the status write fails.
	if s.state.Assignment != nil && s.state.Assignment.Status == model.AssignmentAssigned {
		started := model.NewTimestamp(s.clock.Now())
		update := &model.AssignmentUpdate{
			Status:    model.AssignmentInProgress,
			StartedAt: &started,
		}
		if err := s.assignments.ApplyUpdate(ctx, s.AssignmentID, update); err != nil {
			logf(s, "failed to mark assignment in progress: %v", err)
		} else {
			a := *s.state.Assignment
			a.Status = model.AssignmentInProgress
			a.StartedAt = &started
			s.dispatch(SetData{Induction: s.state.Induction, Assignment: &a})
		}
	}

	s.initializeProgressLocked(ctx)
	s.events.BroadcastToManagers(s.AssignmentID, EventSessionStarted, map[string]interface{}{
		"userId":    s.UserID,
		"sessionId": s.ID,
	})
	return nil
}

// Answer records a raw answer for a question and schedules an autosave.
// Changing an answer clears any visible feedback.
func (s *Session) Answer(questionID string, value model.AnswerValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.state.Started {
		return ErrSessionNotStarted
	}
	if s.state.Submitting {
		return ErrSubmitInFlight
	}
	if s.state.Induction == nil || s.state.Induction.QuestionByID(questionID) == nil {
		return ErrUnknownQuestion
	}
	// A changed answer invalidates any advance scheduled off the old one.
	s.cancelAdvanceLocked()
	s.dispatch(SetAnswer{QuestionID: questionID, Value: value})
	s.dispatch(SetFeedback{})
	s.scheduleAutosaveLocked()
	return nil
}

// Close cancels all pending timers and detaches the session. Further
// calls against it fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelAdvanceLocked()
	s.cancelAutosaveLocked()
	s.cancelRecoverLocked()
}

func (s *Session) cancelAdvanceLocked() {
	s.advanceGen++
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
	}
}

func (s *Session) cancelAutosaveLocked() {
	s.saveGen++
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

func (s *Session) cancelRecoverLocked() {
	s.recoverGen++
	if s.recoverTimer != nil {
		s.recoverTimer.Stop()
		s.recoverTimer = nil
	}
}
