package domain

import "time"

// RelevancyScore grades how relevant a document is to a question.
// Valid scores run from 0 (irrelevant) to 3 (highly relevant).
type RelevancyScore int

// MaxRelevancyScore is the highest valid score.
const MaxRelevancyScore RelevancyScore = 3

// IsValid returns true if the score is within the 0-3 scale.
func (s RelevancyScore) IsValid() bool {
	return s >= 0 && s <= MaxRelevancyScore
}

// Annotation is a relevancy judgement for one question-document pair.
// At most one annotation exists per (QuestionID, DocumentID) pair;
// rescoring updates the existing record in place.
type Annotation struct {
	ID             string
	QuestionID     string
	DocumentID     string
	RelevancyScore RelevancyScore
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
