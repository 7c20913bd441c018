package model

// AssignmentStatus tracks an assignment through its lifecycle
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentComplete   AssignmentStatus = "complete"
)

// Assignment links a staff member to an induction
type Assignment struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	UserID        string            `json:"userId" bson:"userId"`
	InductionID   string            `json:"inductionId" bson:"inductionId"`
	Status        AssignmentStatus  `json:"status" bson:"status"`
	AssignedAt    Timestamp         `json:"assignedAt" bson:"assignedAt"`
	AvailableFrom *Timestamp        `json:"availableFrom,omitempty" bson:"availableFrom,omitempty"`
	DueDate       *Timestamp        `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	StartedAt     *Timestamp        `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt   *Timestamp        `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Progress      int               `json:"progress" bson:"progress"` // Percent, 100 on completion
	Feedback      string            `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Answers       []SubmittedAnswer `json:"answers,omitempty" bson:"answers,omitempty"` // Populated on completion
}

// AssignmentUpdate carries the partial fields applied when an assignment
// transitions (in_progress on start, complete on submission).
type AssignmentUpdate struct {
	Status      AssignmentStatus  `bson:"status"`
	StartedAt   *Timestamp        `bson:"startedAt,omitempty"`
	CompletedAt *Timestamp        `bson:"completedAt,omitempty"`
	Progress    *int              `bson:"progress,omitempty"`
	Feedback    *string           `bson:"feedback,omitempty"`
	Answers     []SubmittedAnswer `bson:"answers,omitempty"`
}
