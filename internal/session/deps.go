package session

import (
	"context"

	"inducthub/internal/model"
)

// AssignmentSource provides assignment records. GetByID returns (nil, nil)
// when no record exists.
type AssignmentSource interface {
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ApplyUpdate(ctx context.Context, id string, update *model.AssignmentUpdate) error
}

// InductionSource provides induction definitions. GetByID returns
// (nil, nil) when no record exists.
type InductionSource interface {
	GetByID(ctx context.Context, id string) (*model.Induction, error)
}

// FileStore uploads session files and resolves image references to URLs.
type FileStore interface {
	Upload(ctx context.Context, path string, file *model.FileRef) (storedName string, err error)
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Broadcaster pushes live session events out to connected clients.
// The WebSocket hub implements this.
type Broadcaster interface {
	BroadcastToManagers(assignmentID string, msgType string, payload interface{})
	BroadcastToStaff(assignmentID string, msgType string, payload interface{})
}

// Event names pushed over the Broadcaster.
const (
	EventSessionStarted    = "session_started"
	EventQuestionAnswered  = "question_answered"
	EventProgressSaved     = "progress_saved"
	EventProgressRecovered = "progress_recovered"
	EventSubmissionOpened  = "submission_opened"
	EventSessionCompleted  = "session_completed"
	EventSessionError      = "session_error"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToManagers(string, string, interface{}) {}
func (nopBroadcaster) BroadcastToStaff(string, string, interface{}) {}
