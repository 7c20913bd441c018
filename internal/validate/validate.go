// Package validate holds the pure answer-validation rules for induction
// sessions: per-type answer checks, the completeness gate, time estimates,
// and the submission formatter. Nothing in here touches storage or state.
package validate

import (
	"fmt"
	"sort"

	"inducthub/internal/model"
)

// Result is the outcome of validating one answer. Correct is nil when the
// answer is valid but pending manual review (SHORT_ANSWER).
type Result struct {
	Valid   bool
	Correct *bool
	Message string
}

// MissingAnswer identifies one required question blocking submission.
type MissingAnswer struct {
	Index    int             `json:"index"`
	Question *model.Question `json:"question"`
	Reason   string          `json:"reason,omitempty"`
}

// CompletenessResult is the outcome of the submission gate check.
type CompletenessResult struct {
	Valid   bool            `json:"isValid"`
	Missing []MissingAnswer `json:"missingAnswers,omitempty"`
}

const (
	msgCorrect         = "That's correct!"
	msgIncorrect       = "That's not quite right. Review the material and try again."
	msgSelectAnswer    = "Please select an answer before continuing."
	msgProvideAnswer   = "Please provide an answer before continuing."
	msgUploadFile      = "Please upload a file before continuing."
	msgPendingReview   = "Your answer has been submitted for review."
	reasonUnanswered   = "unanswered"
	reasonLengthBounds = "answer length out of range"
)

func boolPtr(b bool) *bool { return &b }

// Answer validates one raw answer against its question.
func Answer(q *model.Question, v model.AnswerValue) Result {
	if q.Type == model.QuestionTypeInformation {
		return Result{Valid: true, Correct: boolPtr(true)}
	}

	if v.IsEmpty() {
		if !q.IsRequired() {
			return Result{Valid: true, Correct: boolPtr(true)}
		}
		return Result{Valid: false, Correct: boolPtr(false), Message: emptyMessage(q.Type)}
	}

	switch q.Type {
	case model.QuestionTypeTrueFalse, model.QuestionTypeYesNo, model.QuestionTypeDropdown:
		return validateSingleChoice(q, v)
	case model.QuestionTypeMultiChoice:
		return validateMultiChoice(q, v)
	case model.QuestionTypeShortAnswer:
		return validateShortAnswer(q, v)
	case model.QuestionTypeFileUpload:
		// Any selected file is accepted; uploads are never graded.
		return Result{Valid: true, Correct: boolPtr(true)}
	default:
		return Result{Valid: true, Correct: boolPtr(true)}
	}
}

func emptyMessage(t model.QuestionType) string {
	switch t {
	case model.QuestionTypeShortAnswer:
		return msgProvideAnswer
	case model.QuestionTypeFileUpload:
		return msgUploadFile
	default:
		return msgSelectAnswer
	}
}

func validateSingleChoice(q *model.Question, v model.AnswerValue) Result {
	if v.Option == nil {
		return Result{Valid: false, Correct: boolPtr(false), Message: msgSelectAnswer}
	}
	correct := len(q.CorrectAnswers) > 0 && *v.Option == q.CorrectAnswers[0]
	if correct {
		return Result{Valid: true, Correct: boolPtr(true), Message: msgCorrect}
	}
	return Result{Valid: true, Correct: boolPtr(false), Message: incorrectMessage(q)}
}

func validateMultiChoice(q *model.Question, v model.AnswerValue) Result {
	if sameIndexSet(v.Options, q.CorrectAnswers) {
		return Result{Valid: true, Correct: boolPtr(true), Message: msgCorrect}
	}
	return Result{Valid: true, Correct: boolPtr(false), Message: incorrectMessage(q)}
}

func validateShortAnswer(q *model.Question, v model.AnswerValue) Result {
	length := len([]rune(v.Text))
	if length < q.MinLength() {
		return Result{
			Valid:   false,
			Correct: boolPtr(false),
			Message: fmt.Sprintf("Your answer must be at least %d characters (currently %d).", q.MinLength(), length),
		}
	}
	if length > q.MaxLength() {
		return Result{
			Valid:   false,
			Correct: boolPtr(false),
			Message: fmt.Sprintf("Your answer must be no more than %d characters (currently %d).", q.MaxLength(), length),
		}
	}
	// Valid but never auto-graded: Correct stays nil for manual review.
	return Result{Valid: true, Message: msgPendingReview}
}

func incorrectMessage(q *model.Question) string {
	if q.IncorrectMsg != "" {
		return q.IncorrectMsg
	}
	return msgIncorrect
}

// sameIndexSet compares two index slices as sets: order-independent, no
// extras, no omissions.
func sameIndexSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, i := range a {
		seen[i]++
	}
	for _, i := range b {
		seen[i]--
		if seen[i] < 0 {
			return false
		}
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

// AllRequiredAnswered runs the submission gate: every required
// non-INFORMATION question must carry a non-empty answer, and short
// answers must be within their length bounds.
func AllRequiredAnswered(questions []model.Question, answers map[string]model.AnswerValue) CompletenessResult {
	var missing []MissingAnswer
	for i := range questions {
		q := &questions[i]
		if q.Type == model.QuestionTypeInformation || !q.IsRequired() {
			continue
		}
		v := answers[q.ID]
		if v.IsEmpty() {
			missing = append(missing, MissingAnswer{Index: i, Question: q, Reason: reasonUnanswered})
			continue
		}
		if q.Type == model.QuestionTypeShortAnswer {
			length := len([]rune(v.Text))
			if length < q.MinLength() || length > q.MaxLength() {
				missing = append(missing, MissingAnswer{Index: i, Question: q, Reason: reasonLengthBounds})
			}
		}
	}
	return CompletenessResult{Valid: len(missing) == 0, Missing: missing}
}

// Per-type completion cost in seconds, used for the time estimate shown
// before starting.
func questionSeconds(t model.QuestionType) int {
	switch t {
	case model.QuestionTypeMultiChoice, model.QuestionTypeTrueFalse,
		model.QuestionTypeYesNo, model.QuestionTypeDropdown:
		return 45
	case model.QuestionTypeShortAnswer:
		return 120
	case model.QuestionTypeInformation:
		return 60
	case model.QuestionTypeFileUpload:
		return 90
	default:
		return 60
	}
}

// EstimateMinutes sums per-question costs and rounds up to whole minutes.
func EstimateMinutes(questions []model.Question) int {
	seconds := 0
	for i := range questions {
		seconds += questionSeconds(questions[i].Type)
	}
	return (seconds + 59) / 60
}

// FormatTimeRange renders an estimate as a "lower-upper minutes" range,
// lower = max(1, floor(0.8m)), upper = ceil(1.2m).
func FormatTimeRange(minutes int) string {
	if minutes <= 0 {
		return "0 minutes"
	}
	lower := minutes * 4 / 5
	if lower < 1 {
		lower = 1
	}
	upper := (minutes*6 + 4) / 5
	return fmt.Sprintf("%d-%d minutes", lower, upper)
}

// FormatForSubmission produces one audit record per question, snapshotting
// question metadata alongside the type-specific answer fields.
func FormatForSubmission(questions []model.Question, answers map[string]model.AnswerValue) []model.SubmittedAnswer {
	out := make([]model.SubmittedAnswer, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		v := answers[q.ID]
		rec := model.SubmittedAnswer{
			QuestionID: q.ID,
			Type:       q.Type,
			Title:      q.Title,
			Required:   q.IsRequired(),
			Hint:       q.Hint,
		}

		switch q.Type {
		case model.QuestionTypeTrueFalse, model.QuestionTypeYesNo, model.QuestionTypeDropdown:
			if v.Option != nil {
				rec.SelectedOption = v.Option
				if *v.Option >= 0 && *v.Option < len(q.Options) {
					rec.SelectedLabel = q.Options[*v.Option]
				}
			}
		case model.QuestionTypeMultiChoice:
			if len(v.Options) > 0 {
				selected := append([]int(nil), v.Options...)
				sort.Ints(selected)
				rec.SelectedOptions = selected
				for _, idx := range selected {
					if idx >= 0 && idx < len(q.Options) {
						rec.SelectedLabels = append(rec.SelectedLabels, q.Options[idx])
					}
				}
			}
		case model.QuestionTypeShortAnswer:
			rec.TextAnswer = v.Text
			rec.CharCount = len([]rune(v.Text))
			rec.FlaggedForReview = true
		case model.QuestionTypeFileUpload:
			if v.File != nil && v.File.StoredName != "" {
				rec.FileName = v.File.StoredName
			}
			rec.FlaggedForReview = true
		}

		out = append(out, rec)
	}
	return out
}
