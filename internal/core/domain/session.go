package domain

import "time"

// Session is the normalised, durable form of an annotation session.
// It references its relations by id only. The id lists are recomputed
// from the denormalised view on every write and are the source of
// truth for session membership.
type Session struct {
	ID               string
	DocumentSampleID string
	QuestionIDs      []string
	AnnotationIDs    []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SessionView is the denormalised, in-memory working form of a
// session: the same entity as Session with its relations embedded.
// Only the storage layer translates between the two forms.
type SessionView struct {
	ID                string
	DocumentSample    DocumentSample
	Questions         []Question
	Annotations       []Annotation
	CreatedAt         time.Time
	UpdatedAt         time.Time
	HasUnsavedChanges bool
}

// Annotation returns the annotation for a question-document pair, or
// nil if the pair has not been scored.
func (v *SessionView) Annotation(questionID, documentID string) *Annotation {
	for i := range v.Annotations {
		if v.Annotations[i].QuestionID == questionID && v.Annotations[i].DocumentID == documentID {
			return &v.Annotations[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the view. The session view-model keeps
// a cloned durable snapshot so discard can restore it untouched.
func (v *SessionView) Clone() *SessionView {
	if v == nil {
		return nil
	}
	out := *v
	out.DocumentSample.Documents = append([]Document(nil), v.DocumentSample.Documents...)
	out.Questions = append([]Question(nil), v.Questions...)
	out.Annotations = append([]Annotation(nil), v.Annotations...)
	return &out
}

// Pair is one question-document combination awaiting or holding a
// relevancy score. The cross-product of a session's questions and its
// sample's documents is the authoritative enumeration of pairs.
type Pair struct {
	Question   Question
	Document   Document
	Annotation *Annotation
}

// Progress summarises how much of a session has been annotated.
type Progress struct {
	Completed  int
	Total      int
	Percentage int
}
