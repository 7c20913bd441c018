package model

// QuestionType defines the type of induction question
type QuestionType string

const (
	QuestionTypeMultiChoice QuestionType = "MULTICHOICE"  // Multiple selection, graded against correct index set
	QuestionTypeTrueFalse   QuestionType = "TRUE_FALSE"   // Single selection, two options
	QuestionTypeYesNo       QuestionType = "YES_NO"       // Single selection, two options
	QuestionTypeDropdown    QuestionType = "DROPDOWN"     // Single selection from a list
	QuestionTypeShortAnswer QuestionType = "SHORT_ANSWER" // Free text, flagged for manual review
	QuestionTypeInformation QuestionType = "INFORMATION"  // Content-only, no answer
	QuestionTypeFileUpload  QuestionType = "FILE_UPLOAD"  // Evidence upload, never graded
)

// Short-answer length bounds used when a question does not configure its own
const (
	DefaultMinChars = 10
	DefaultMaxChars = 1000
)

// Question is one step of an induction
type Question struct {
	ID             string       `json:"id" bson:"id"`
	Type           QuestionType `json:"type" bson:"type"`
	Title          string       `json:"title" bson:"title"`
	Description    string       `json:"description,omitempty" bson:"description,omitempty"` // Rich text shown under the title
	Options        []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswers []int        `json:"correctAnswers,omitempty" bson:"correctAnswers,omitempty"` // Indices into Options
	Required       *bool        `json:"isRequired,omitempty" bson:"isRequired,omitempty"`         // nil means required
	MinChars       int          `json:"minChars,omitempty" bson:"minChars,omitempty"`             // SHORT_ANSWER only
	MaxChars       int          `json:"maxChars,omitempty" bson:"maxChars,omitempty"`             // SHORT_ANSWER only
	Hint           string       `json:"hint,omitempty" bson:"hint,omitempty"`
	IncorrectMsg   string       `json:"incorrectMsg,omitempty" bson:"incorrectMsg,omitempty"` // Shown instead of the generic wrong-answer message
	Images         []string     `json:"images,omitempty" bson:"images,omitempty"`             // Up to two file refs
}

// IsRequired reports whether the question must be answered before submission.
// Questions default to required unless explicitly marked optional.
func (q *Question) IsRequired() bool {
	return q.Required == nil || *q.Required
}

// MinLength returns the configured short-answer minimum, or the default.
func (q *Question) MinLength() int {
	if q.MinChars > 0 {
		return q.MinChars
	}
	return DefaultMinChars
}

// MaxLength returns the configured short-answer maximum, or the default.
func (q *Question) MaxLength() int {
	if q.MaxChars > 0 {
		return q.MaxChars
	}
	return DefaultMaxChars
}
