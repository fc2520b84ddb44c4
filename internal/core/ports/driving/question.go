package driving

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// QuestionService generates, authors and curates questions.
type QuestionService interface {
	// Generate calls the generation service for a sample's documents
	// and returns pending questions. Nothing is persisted; callers
	// review and then SaveAccepted.
	Generate(ctx context.Context, sampleID string, answerable, nonAnswerable int) ([]domain.Question, error)

	// SaveAccepted persists the accepted questions from a review
	// batch, stamping timestamps and the owning sample id.
	SaveAccepted(ctx context.Context, sampleID string, questions []domain.Question) (int, error)

	// AddManual creates and persists a manually authored question. It
	// is accepted immediately.
	AddManual(ctx context.Context, sampleID, text string, qtype domain.QuestionType) (*domain.Question, error)

	// UpdateStatus flips the curation status of a stored question.
	UpdateStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error)

	// ListBySample returns questions owned by a sample.
	ListBySample(ctx context.Context, sampleID string) ([]domain.Question, error)

	// List returns all questions, optionally filtered by type.
	List(ctx context.Context, qtype domain.QuestionType) ([]domain.Question, error)
}
