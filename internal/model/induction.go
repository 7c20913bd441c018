package model

// Induction is a structured, ordered set of questions assigned to staff
type Induction struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Department  string     `json:"department,omitempty" bson:"department,omitempty"`
	Questions   []Question `json:"questions" bson:"questions"`
	CreatedAt   Timestamp  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   Timestamp  `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID returns the question with the given id, or nil.
func (i *Induction) QuestionByID(id string) *Question {
	for idx := range i.Questions {
		if i.Questions[idx].ID == id {
			return &i.Questions[idx]
		}
	}
	return nil
}
