package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// questionStore implements driven.QuestionStore.
type questionStore struct {
	store *Store
}

var _ driven.QuestionStore = (*questionStore)(nil)

// Save stores or updates a question.
func (s *questionStore) Save(_ context.Context, question *domain.Question) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	stamp(&question.CreatedAt, &question.UpdatedAt)
	s.store.questions[question.ID] = *question
	return nil
}

// Get retrieves a question by ID.
func (s *questionStore) Get(_ context.Context, id string) (*domain.Question, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	question, ok := s.store.questions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &question, nil
}

// List returns all questions ordered by creation time.
func (s *questionStore) List(ctx context.Context) ([]domain.Question, error) {
	return s.filter(func(domain.Question) bool { return true })
}

// ListByType returns questions of one type.
func (s *questionStore) ListByType(_ context.Context, t domain.QuestionType) ([]domain.Question, error) {
	return s.filter(func(q domain.Question) bool { return q.Type == t })
}

// ListBySample returns questions owned by a sample.
func (s *questionStore) ListBySample(_ context.Context, sampleID string) ([]domain.Question, error) {
	return s.filter(func(q domain.Question) bool { return q.DocumentSampleID == sampleID })
}

// UpdateStatus flips the curation status of a question.
func (s *questionStore) UpdateStatus(_ context.Context, id string, status domain.QuestionStatus) (*domain.Question, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: question status %q", domain.ErrInvalidInput, status)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	question, ok := s.store.questions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	question.Status = status
	question.UpdatedAt = time.Now().UTC()
	s.store.questions[id] = question
	return &question, nil
}

func (s *questionStore) filter(keep func(domain.Question) bool) ([]domain.Question, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var questions []domain.Question
	for _, question := range s.store.questions {
		if keep(question) {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.Before(questions[j].CreatedAt)
	})
	return questions, nil
}
