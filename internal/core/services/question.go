package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
	"github.com/charislam/metrick/internal/logger"
)

// Ensure QuestionService implements the interface.
var _ driving.QuestionService = (*QuestionService)(nil)

// QuestionService generates, authors and curates questions for a
// document sample.
type QuestionService struct {
	questions     driven.QuestionStore
	samples       driven.SampleStore
	generator     driven.QuestionGenerator
	settings      driving.SettingsService
	invalidations *Invalidations
}

// NewQuestionService creates a new question service.
func NewQuestionService(
	questions driven.QuestionStore,
	samples driven.SampleStore,
	generator driven.QuestionGenerator,
	settings driving.SettingsService,
	invalidations *Invalidations,
) *QuestionService {
	return &QuestionService{
		questions:     questions,
		samples:       samples,
		generator:     generator,
		settings:      settings,
		invalidations: invalidations,
	}
}

// Generate calls the generation service for a sample's documents and
// returns pending questions for review. Nothing is persisted here; a
// generation failure never affects previously saved questions.
func (s *QuestionService) Generate(ctx context.Context, sampleID string, answerable, nonAnswerable int) ([]domain.Question, error) {
	if s.settings.APIKey() == "" {
		return nil, fmt.Errorf("%w: missing API key, run 'metrick settings set-api-key'", domain.ErrGenerationService)
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generation service configured", domain.ErrGenerationService)
	}
	if answerable < 0 || nonAnswerable < 0 || answerable+nonAnswerable == 0 {
		return nil, fmt.Errorf("%w: question counts must be non-negative and total at least one", domain.ErrInvalidInput)
	}

	sample, err := s.samples.Get(ctx, sampleID)
	if err != nil {
		return nil, fmt.Errorf("loading sample %s: %w", sampleID, err)
	}

	generated, err := s.generator.Generate(ctx, sample.Documents, driven.GenerateOptions{
		AnswerableCount:    answerable,
		NonAnswerableCount: nonAnswerable,
	})
	if err != nil {
		return nil, err
	}

	questions := make([]domain.Question, 0, len(generated.Answerable)+len(generated.NonAnswerable))
	for _, text := range generated.Answerable {
		questions = append(questions, newGeneratedQuestion(text, domain.QuestionTypeAnswerable, sampleID))
	}
	for _, text := range generated.NonAnswerable {
		questions = append(questions, newGeneratedQuestion(text, domain.QuestionTypeNonAnswerable, sampleID))
	}

	logger.Info("generated %d questions for sample %s", len(questions), sampleID)
	return questions, nil
}

func newGeneratedQuestion(text string, qtype domain.QuestionType, sampleID string) domain.Question {
	return domain.Question{
		ID:               uuid.NewString(),
		Text:             text,
		Type:             qtype,
		GeneratedBy:      domain.QuestionOriginLLM,
		DocumentSampleID: sampleID,
		Status:           domain.QuestionStatusPending,
	}
}

// SaveAccepted persists the accepted questions from a review batch
// and reports how many were saved.
func (s *QuestionService) SaveAccepted(ctx context.Context, sampleID string, questions []domain.Question) (int, error) {
	saved := 0
	for i := range questions {
		question := questions[i]
		if question.Status != domain.QuestionStatusAccepted {
			continue
		}
		question.DocumentSampleID = sampleID
		if err := s.questions.Save(ctx, &question); err != nil {
			return saved, fmt.Errorf("saving question %s: %w", question.ID, err)
		}
		saved++
	}

	if saved > 0 {
		s.invalidations.Invalidate(KindQuestion)
	}
	return saved, nil
}

// AddManual creates and persists a manually authored question.
func (s *QuestionService) AddManual(ctx context.Context, sampleID, text string, qtype domain.QuestionType) (*domain.Question, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: question text is empty", domain.ErrInvalidInput)
	}
	if !qtype.IsValid() {
		return nil, fmt.Errorf("%w: question type %q", domain.ErrInvalidInput, qtype)
	}
	if _, err := s.samples.Get(ctx, sampleID); err != nil {
		return nil, fmt.Errorf("loading sample %s: %w", sampleID, err)
	}

	question := &domain.Question{
		ID:               uuid.NewString(),
		Text:             text,
		Type:             qtype,
		GeneratedBy:      domain.QuestionOriginManual,
		DocumentSampleID: sampleID,
		Status:           domain.QuestionStatusAccepted,
	}
	if err := s.questions.Save(ctx, question); err != nil {
		return nil, fmt.Errorf("saving question: %w", err)
	}

	s.invalidations.Invalidate(KindQuestion, question.ID)
	return question, nil
}

// UpdateStatus flips the curation status of a stored question.
func (s *QuestionService) UpdateStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error) {
	question, err := s.questions.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.invalidations.Invalidate(KindQuestion, id)
	return question, nil
}

// ListBySample returns questions owned by a sample.
func (s *QuestionService) ListBySample(ctx context.Context, sampleID string) ([]domain.Question, error) {
	return s.questions.ListBySample(ctx, sampleID)
}

// List returns all questions, or only those of qtype when set.
func (s *QuestionService) List(ctx context.Context, qtype domain.QuestionType) ([]domain.Question, error) {
	if qtype == "" {
		return s.questions.List(ctx)
	}
	if !qtype.IsValid() {
		return nil, fmt.Errorf("%w: question type %q", domain.ErrInvalidInput, qtype)
	}
	return s.questions.ListByType(ctx, qtype)
}
