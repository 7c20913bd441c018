package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"inducthub/internal/cache"
	"inducthub/internal/model"
)

var ErrNotYourAssignment = errors.New("assignment belongs to another user")

// loadOutcome is the terminal state of the fetch-with-retry machine.
type loadOutcome int

const (
	loadSucceeded loadOutcome = iota
	loadNotFound
	loadFailed
)

// Registry owns the active sessions, one per assignment, and runs the
// load pipeline that takes a new session from LOADING to SUCCESS (or a
// terminal NOT_FOUND/ERROR).
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	assignments AssignmentSource
	inductions  InductionSource
	store       cache.ProgressStore
	files       FileStore
	events      Broadcaster
	clock       cache.Clock
	timing      Timing
}

// NewRegistry creates a session registry with production timing.
func NewRegistry(assignments AssignmentSource, inductions InductionSource,
	store cache.ProgressStore, files FileStore, events Broadcaster) *Registry {
	return NewRegistryWith(assignments, inductions, store, files, events, cache.RealClock(), DefaultTiming())
}

// NewRegistryWith is NewRegistry with an injected clock and timing.
func NewRegistryWith(assignments AssignmentSource, inductions InductionSource,
	store cache.ProgressStore, files FileStore, events Broadcaster,
	clock cache.Clock, timing Timing) *Registry {
	if events == nil {
		events = nopBroadcaster{}
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		assignments: assignments,
		inductions:  inductions,
		store:       store,
		files:       files,
		events:      events,
		clock:       clock,
		timing:      timing,
	}
}

// Open returns the active session for an assignment, creating and loading
// one if needed. The returned session may be in a terminal NOT_FOUND or
// ERROR view state; callers read the snapshot to find out.
func (r *Registry) Open(ctx context.Context, userID, assignmentID string) (*Session, error) {
	r.mu.Lock()
	if existing, ok := r.sessions[assignmentID]; ok {
		r.mu.Unlock()
		if existing.UserID != userID {
			return nil, ErrNotYourAssignment
		}
		return existing, nil
	}
	s := newSession(assignmentID, userID, r.store, r.files, r.assignments, r.events, r.clock, r.timing)
	r.sessions[assignmentID] = s
	r.mu.Unlock()

	if err := r.load(ctx, s); err != nil {
		// Terminal view state is already set; surface hard errors only.
		if errors.Is(err, ErrNotYourAssignment) {
			r.Close(assignmentID)
			return nil, err
		}
	}
	return s, nil
}

// Get returns an already-open session, or nil.
func (r *Registry) Get(assignmentID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[assignmentID]
}

// Close tears down the session for an assignment.
func (r *Registry) Close(assignmentID string) {
	r.mu.Lock()
	s, ok := r.sessions[assignmentID]
	if ok {
		delete(r.sessions, assignmentID)
	}
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// load drives the session through the fetch state machine: up to
// MaxLoadAttempts spaced RetryDelay apart, then a terminal view state.
// NOT_FOUND is sticky; a late retry can never undo it.
func (r *Registry) load(ctx context.Context, s *Session) error {
	var assignment *model.Assignment
	outcome, err := r.fetchWithRetry(ctx, s, func(ctx context.Context) (bool, error) {
		a, err := r.assignments.GetByID(ctx, s.AssignmentID)
		if err != nil {
			return false, err
		}
		assignment = a
		return a != nil, nil
	})
	if outcome != loadSucceeded {
		r.finishLoad(s, outcome, err)
		return err
	}

	if assignment.UserID != s.UserID {
		s.mu.Lock()
		s.dispatch(SetView{View: model.ViewNotFound})
		s.mu.Unlock()
		return ErrNotYourAssignment
	}

	var induction *model.Induction
	outcome, err = r.fetchWithRetry(ctx, s, func(ctx context.Context) (bool, error) {
		ind, err := r.inductions.GetByID(ctx, assignment.InductionID)
		if err != nil {
			return false, err
		}
		induction = ind
		return ind != nil, nil
	})
	if outcome != loadSucceeded {
		r.finishLoad(s, outcome, err)
		return err
	}

	urls := r.resolveImageURLs(ctx, s, induction)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(SetData{Induction: induction, Assignment: assignment})
	s.dispatch(SetImageURLs{URLs: urls})
	s.dispatch(SetView{View: model.ViewSuccess})
	return nil
}

// fetchWithRetry runs one fetch up to MaxLoadAttempts times. It reports
// loadSucceeded when the fetch finds its record, loadNotFound when every
// attempt came back empty, and loadFailed when the last attempt errored.
func (r *Registry) fetchWithRetry(ctx context.Context, s *Session,
	fetch func(ctx context.Context) (bool, error)) (loadOutcome, error) {

	var lastErr error
	for attempt := 1; attempt <= MaxLoadAttempts; attempt++ {
		s.mu.Lock()
		s.dispatch(BumpLoadAttempts{})
		s.mu.Unlock()

		found, err := fetch(ctx)
		if err == nil && found {
			return loadSucceeded, nil
		}
		lastErr = err
		if err != nil {
			logf(s, "load attempt %d/%d failed: %v", attempt, MaxLoadAttempts, err)
		}

		if attempt < MaxLoadAttempts {
			select {
			case <-ctx.Done():
				return loadFailed, ctx.Err()
			case <-time.After(r.timing.RetryDelay):
			}
		}
	}
	if lastErr != nil {
		return loadFailed, lastErr
	}
	return loadNotFound, nil
}

func (r *Registry) finishLoad(s *Session, outcome loadOutcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch outcome {
	case loadNotFound:
		s.dispatch(SetView{View: model.ViewNotFound})
	default:
		msg := "failed to load induction data"
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		s.dispatch(SetError{Message: msg})
		s.dispatch(SetView{View: model.ViewError})
	}
}

// resolveImageURLs is best effort: an image that fails to resolve is
// logged and skipped, never fatal.
func (r *Registry) resolveImageURLs(ctx context.Context, s *Session, induction *model.Induction) map[string]string {
	urls := make(map[string]string)
	for i := range induction.Questions {
		for _, ref := range induction.Questions[i].Images {
			if _, ok := urls[ref]; ok {
				continue
			}
			url, err := r.files.ResolveURL(ctx, ref)
			if err != nil {
				logf(s, "failed to resolve image %s: %v", ref, err)
				continue
			}
			urls[ref] = url
		}
	}
	return urls
}
