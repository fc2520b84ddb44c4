package driven

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// GenerateOptions configures a question-generation request.
type GenerateOptions struct {
	// AnswerableCount is the number of questions the documents should
	// be able to answer.
	AnswerableCount int

	// NonAnswerableCount is the number of deliberate distractor
	// questions.
	NonAnswerableCount int
}

// GeneratedQuestions is the raw text output of the generation service.
type GeneratedQuestions struct {
	Answerable    []string
	NonAnswerable []string
}

// QuestionGenerator produces candidate questions for a set of
// documents. Implementations call a third-party text-generation
// service; failures wrap domain.ErrGenerationService.
type QuestionGenerator interface {
	Generate(ctx context.Context, documents []domain.Document, opts GenerateOptions) (*GeneratedQuestions, error)
}
