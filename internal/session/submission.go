package session

import (
	"context"
	"fmt"

	"inducthub/internal/model"
	"inducthub/internal/validate"
)

// Submit runs the completion pipeline: re-check completeness, upload any
// pending files, format the answers, and mark the assignment complete in
// one finalize call. Uploads are best effort per file; a failed upload
// leaves that answer without a stored file name but does not block the
// finalize. A failed finalize leaves local progress intact so the user
// can retry.
func (s *Session) Submit(ctx context.Context, feedbackText string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if !s.state.Started {
		s.mu.Unlock()
		return ErrSessionNotStarted
	}
	if s.state.Submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}

	// Defense in depth: the navigation gate should already have checked.
	res := validate.AllRequiredAnswered(s.state.Induction.Questions, s.state.Answers)
	if !res.Valid {
		err := &IncompleteError{Missing: res.Missing}
		s.dispatch(SetError{Message: err.Error()})
		s.mu.Unlock()
		return err
	}

	s.dispatch(SetSubmitting{On: true})
	s.dispatch(SetError{})
	induction := s.state.Induction
	answers := copyAnswers(s.state.Answers)
	s.mu.Unlock()

	uploaded := s.uploadFiles(ctx, induction, answers)

	formatted := validate.FormatForSubmission(induction.Questions, answers)
	now := model.NewTimestamp(s.clock.Now())
	progress := 100
	update := &model.AssignmentUpdate{
		Status:      model.AssignmentComplete,
		CompletedAt: &now,
		Progress:    &progress,
		Answers:     formatted,
	}
	if feedbackText != "" {
		update.Feedback = &feedbackText
	}

	finalizeErr := s.assignments.ApplyUpdate(ctx, s.AssignmentID, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range uploaded {
		s.dispatch(SetAnswer{QuestionID: id, Value: v})
	}
	s.dispatch(SetSubmitting{On: false})

	if finalizeErr != nil {
		msg := fmt.Sprintf("failed to complete assignment, please try again: %v", finalizeErr)
		s.dispatch(SetError{Message: msg})
		return fmt.Errorf("finalize assignment %s: %w", s.AssignmentID, finalizeErr)
	}

	if err := s.store.Clear(ctx, s.AssignmentID); err != nil {
		logf(s, "failed to clear saved progress after completion: %v", err)
	}

	if s.state.Assignment != nil {
		a := *s.state.Assignment
		a.Status = model.AssignmentComplete
		a.CompletedAt = &now
		a.Progress = 100
		a.Answers = formatted
		if feedbackText != "" {
			a.Feedback = feedbackText
		}
		s.dispatch(SetData{Induction: s.state.Induction, Assignment: &a})
	}

	s.cancelAutosaveLocked()
	s.events.BroadcastToManagers(s.AssignmentID, EventSessionCompleted, map[string]interface{}{
		"userId":      s.UserID,
		"completedAt": now.Time,
	})
	return nil
}

// uploadFiles pushes every pending FILE_UPLOAD answer to the file store
// under a deterministic path. Failures are logged per file; the local
// file reference stays so the user can retry with a re-selected file.
// Returns the answers whose stored names changed.
func (s *Session) uploadFiles(ctx context.Context, induction *model.Induction,
	answers map[string]model.AnswerValue) map[string]model.AnswerValue {

	uploaded := make(map[string]model.AnswerValue)
	for i := range induction.Questions {
		q := &induction.Questions[i]
		if q.Type != model.QuestionTypeFileUpload {
			continue
		}
		v := answers[q.ID]
		if v.File == nil || v.File.StoredName != "" {
			continue
		}
		path := fmt.Sprintf("inductions/%s/%s/%s", induction.ID, q.ID, v.File.Name)
		storedName, err := s.files.Upload(ctx, path, v.File)
		if err != nil {
			logf(s, "file upload failed for question %s: %v", q.ID, err)
			continue
		}
		file := *v.File
		file.StoredName = storedName
		v.File = &file
		answers[q.ID] = v
		uploaded[q.ID] = v
	}
	return uploaded
}
