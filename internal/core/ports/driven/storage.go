package driven

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// SampleStore persists document samples. Documents are embedded in the
// sample record as copies; deleting a sample does not cascade to
// questions or sessions that reference it.
type SampleStore interface {
	// Save stores or updates a sample by id.
	Save(ctx context.Context, sample *domain.DocumentSample) error

	// Get retrieves a sample by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.DocumentSample, error)

	// List returns all samples.
	List(ctx context.Context) ([]domain.DocumentSample, error)

	// Delete removes a sample. No cascade.
	Delete(ctx context.Context, id string) error
}

// QuestionStore persists questions. Questions are curated, never
// hard-deleted.
type QuestionStore interface {
	// Save stores or updates a question by id.
	Save(ctx context.Context, question *domain.Question) error

	// Get retrieves a question by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Question, error)

	// List returns all questions.
	List(ctx context.Context) ([]domain.Question, error)

	// ListByType returns questions of one type (indexed read).
	ListByType(ctx context.Context, t domain.QuestionType) ([]domain.Question, error)

	// ListBySample returns questions owned by a sample (indexed read).
	ListBySample(ctx context.Context, sampleID string) ([]domain.Question, error)

	// UpdateStatus flips the curation status of a question and returns
	// the updated record.
	UpdateStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error)
}

// AnnotationStore persists relevancy annotations. The store enforces
// uniqueness of the (question id, document id) pair.
type AnnotationStore interface {
	// Save stores or updates an annotation by id.
	Save(ctx context.Context, annotation *domain.Annotation) error

	// Get retrieves an annotation by id. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Annotation, error)

	// GetByPair retrieves the annotation for a question-document pair
	// (unique indexed read). Returns domain.ErrNotFound if unscored.
	GetByPair(ctx context.Context, questionID, documentID string) (*domain.Annotation, error)

	// ListBySession returns annotations stamped with a session id.
	// Session membership truth remains the session record's id list;
	// this is the declared ownership index.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Annotation, error)
}

// SessionStore persists annotation sessions in normalised form and is
// the sole authority for translating between the normalised and
// denormalised representations.
type SessionStore interface {
	// Save stores or updates a normalised session record.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a normalised session by id. Returns
	// domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all normalised session records.
	List(ctx context.Context) ([]domain.Session, error)

	// Delete removes a session record. No cascade.
	Delete(ctx context.Context, id string) error

	// Denormalize resolves a session's references into an embedded
	// view. A missing document sample fails with
	// domain.ErrReferenceNotFound; missing individual questions or
	// annotations are silently dropped from the view.
	Denormalize(ctx context.Context, session *domain.Session) (*domain.SessionView, error)

	// Normalize recomputes the reference lists from an embedded view.
	// It never trusts previously stored id lists.
	Normalize(view *domain.SessionView) *domain.Session

	// SaveWithRelations writes the embedded sample, every embedded
	// question, every embedded annotation, and the normalised session
	// record in a single transaction. On any failure the whole write
	// rolls back and the error wraps domain.ErrTransactionFailed.
	SaveWithRelations(ctx context.Context, view *domain.SessionView) (*domain.Session, error)
}
