package model

// FileRef describes a file picked for a FILE_UPLOAD question. Data holds
// the raw bytes while the session is live; it is never serialized, so a
// recovered session keeps the metadata but must re-select the file.
type FileRef struct {
	Name        string `json:"name" bson:"name"`
	Size        int64  `json:"size" bson:"size"`
	ContentType string `json:"contentType,omitempty" bson:"contentType,omitempty"`
	StoredName  string `json:"storedName,omitempty" bson:"storedName,omitempty"` // Set once uploaded
	Data        []byte `json:"-" bson:"-"`
}

// AnswerValue holds one raw in-session answer. At most one field is set,
// matching the question type: Text for SHORT_ANSWER, Option for single
// selections, Options for MULTICHOICE, File for FILE_UPLOAD.
type AnswerValue struct {
	Text    string   `json:"text,omitempty" bson:"text,omitempty"`
	Option  *int     `json:"option,omitempty" bson:"option,omitempty"`
	Options []int    `json:"options,omitempty" bson:"options,omitempty"`
	File    *FileRef `json:"file,omitempty" bson:"file,omitempty"`
}

// IsEmpty reports whether no answer has been given.
func (v AnswerValue) IsEmpty() bool {
	return v.Text == "" && v.Option == nil && len(v.Options) == 0 && v.File == nil
}

// SubmittedAnswer is the formatted, audit-ready record stored on the
// assignment when a session completes. It snapshots the question metadata
// so later edits to the induction cannot change what was answered.
type SubmittedAnswer struct {
	QuestionID       string       `json:"questionId" bson:"questionId"`
	Type             QuestionType `json:"type" bson:"type"`
	Title            string       `json:"title" bson:"title"`
	Required         bool         `json:"required" bson:"required"`
	Hint             string       `json:"hint,omitempty" bson:"hint,omitempty"`
	SelectedOption   *int         `json:"selectedOption,omitempty" bson:"selectedOption,omitempty"`
	SelectedLabel    string       `json:"selectedLabel,omitempty" bson:"selectedLabel,omitempty"`
	SelectedOptions  []int        `json:"selectedOptions,omitempty" bson:"selectedOptions,omitempty"`
	SelectedLabels   []string     `json:"selectedLabels,omitempty" bson:"selectedLabels,omitempty"`
	TextAnswer       string       `json:"textAnswer,omitempty" bson:"textAnswer,omitempty"`
	CharCount        int          `json:"charCount,omitempty" bson:"charCount,omitempty"`
	FileName         string       `json:"fileName,omitempty" bson:"fileName,omitempty"` // Stored name; absent if the upload failed
	FlaggedForReview bool         `json:"flaggedForReview" bson:"flaggedForReview"`     // SHORT_ANSWER and FILE_UPLOAD
}
