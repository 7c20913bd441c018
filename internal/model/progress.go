package model

import "time"

// ProgressRecord is the durable snapshot of in-progress work, one per
// assignment. Seq increases monotonically per session so a stale write
// can never clobber a fresher one.
type ProgressRecord struct {
	Answers      map[string]AnswerValue `json:"answers"`
	CurrentIndex int                    `json:"currentQuestionIndex"`
	Answered     map[string]bool        `json:"answeredQuestions"`
	LastUpdated  time.Time              `json:"lastUpdated"`
	Seq          uint64                 `json:"seq,omitempty"`
}

// RecoveryCandidate is a saved progress record offered back to the user at
// session start, together with enough context for the recovery prompt.
type RecoveryCandidate struct {
	Answers        map[string]AnswerValue `json:"answers"`
	CurrentIndex   int                    `json:"currentQuestionIndex"`
	Answered       map[string]bool        `json:"answeredQuestions"`
	LastUpdated    time.Time              `json:"lastUpdated"`
	TotalQuestions int                    `json:"totalQuestions"`
	AnsweredCount  int                    `json:"answeredCount"`
	AutoApplyAt    time.Time              `json:"autoApplyAt"` // Recovery applies itself at this instant unless dismissed
}
