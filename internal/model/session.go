package model

import "time"

// ViewState is the session view lifecycle
type ViewState string

const (
	ViewLoading  ViewState = "LOADING"
	ViewSuccess  ViewState = "SUCCESS"
	ViewError    ViewState = "ERROR"
	ViewNotFound ViewState = "NOT_FOUND" // Sticky: once entered, never leaves
)

// Feedback is the inline validation feedback for the current question.
// Correct is nil while a SHORT_ANSWER is pending manual review.
type Feedback struct {
	Correct *bool  `json:"isCorrect"`
	Message string `json:"message,omitempty"`
	Show    bool   `json:"showFeedback"`
}

// SessionState is the complete state of one induction-taking session.
// It is mutated only through the session reducer; everything else reads
// snapshots.
type SessionState struct {
	View           ViewState              `json:"viewState"`
	ErrorMsg       string                 `json:"errorMessage,omitempty"`
	Induction      *Induction             `json:"induction,omitempty"`
	Assignment     *Assignment            `json:"assignment,omitempty"`
	ImageURLs      map[string]string      `json:"imageUrls,omitempty"` // file ref -> resolved URL
	Started        bool                   `json:"started"`
	CurrentIndex   int                    `json:"currentQuestionIndex"`
	Answers        map[string]AnswerValue `json:"answers"`
	Answered       map[string]bool        `json:"answeredQuestions"`
	Feedback       Feedback               `json:"answerFeedback"`
	ShowSubmission bool                   `json:"showSubmissionScreen"`
	Submitting     bool                   `json:"isSubmitting"`
	LastSaved      time.Time              `json:"lastSaved,omitempty"`
	LoadAttempts   int                    `json:"loadAttempts"`
}

// QuestionCount returns the number of questions in the loaded induction.
func (s *SessionState) QuestionCount() int {
	if s.Induction == nil {
		return 0
	}
	return len(s.Induction.Questions)
}

// CurrentQuestion returns the question at the current index, or nil.
func (s *SessionState) CurrentQuestion() *Question {
	if s.Induction == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Induction.Questions) {
		return nil
	}
	return &s.Induction.Questions[s.CurrentIndex]
}
