package domain

import "time"

// QuestionType distinguishes questions the documents can answer from
// deliberate distractors.
type QuestionType string

const (
	QuestionTypeAnswerable    QuestionType = "answerable"
	QuestionTypeNonAnswerable QuestionType = "non-answerable"
)

// IsValid returns true if the question type is recognised.
func (t QuestionType) IsValid() bool {
	return t == QuestionTypeAnswerable || t == QuestionTypeNonAnswerable
}

// String returns the string representation.
func (t QuestionType) String() string {
	return string(t)
}

// QuestionOrigin records whether a question was generated or authored.
type QuestionOrigin string

const (
	QuestionOriginLLM    QuestionOrigin = "llm"
	QuestionOriginManual QuestionOrigin = "manual"
)

// IsValid returns true if the origin is recognised.
func (o QuestionOrigin) IsValid() bool {
	return o == QuestionOriginLLM || o == QuestionOriginManual
}

// QuestionStatus is the curation status of a question.
type QuestionStatus string

const (
	QuestionStatusPending  QuestionStatus = "pending"
	QuestionStatusAccepted QuestionStatus = "accepted"
	QuestionStatusRejected QuestionStatus = "rejected"
)

// IsValid returns true if the status is recognised.
func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionStatusPending, QuestionStatusAccepted, QuestionStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s QuestionStatus) String() string {
	return string(s)
}

// Question is an annotation question owned by a document sample.
// Questions are curated (accepted or rejected) but never hard-deleted.
type Question struct {
	ID               string
	Text             string
	Type             QuestionType
	GeneratedBy      QuestionOrigin
	DocumentSampleID string
	Status           QuestionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
