package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// annotationStore implements driven.AnnotationStore.
type annotationStore struct {
	store *Store
}

var _ driven.AnnotationStore = (*annotationStore)(nil)

// Save stores or updates an annotation, enforcing pair uniqueness the
// way the durable store's unique index does.
func (s *annotationStore) Save(_ context.Context, annotation *domain.Annotation) error {
	if !annotation.RelevancyScore.IsValid() {
		return fmt.Errorf("%w: relevancy score %d", domain.ErrInvalidInput, annotation.RelevancyScore)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if err := s.checkPairUnique(annotation); err != nil {
		return err
	}
	stamp(&annotation.CreatedAt, &annotation.UpdatedAt)
	s.store.annotations[annotation.ID] = *annotation
	return nil
}

// checkPairUnique rejects a second annotation for an already-scored
// pair under a different id. Callers must hold the store lock.
func (s *annotationStore) checkPairUnique(annotation *domain.Annotation) error {
	for _, existing := range s.store.annotations {
		if existing.ID != annotation.ID &&
			existing.QuestionID == annotation.QuestionID &&
			existing.DocumentID == annotation.DocumentID {
			return fmt.Errorf("%w: pair (%s, %s) already annotated by %s",
				domain.ErrInvalidInput, annotation.QuestionID, annotation.DocumentID, existing.ID)
		}
	}
	return nil
}

// Get retrieves an annotation by ID.
func (s *annotationStore) Get(_ context.Context, id string) (*domain.Annotation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	annotation, ok := s.store.annotations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &annotation, nil
}

// GetByPair retrieves the annotation for a question-document pair.
func (s *annotationStore) GetByPair(_ context.Context, questionID, documentID string) (*domain.Annotation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	for _, annotation := range s.store.annotations {
		if annotation.QuestionID == questionID && annotation.DocumentID == documentID {
			return &annotation, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListBySession returns annotations stamped with a session id.
func (s *annotationStore) ListBySession(_ context.Context, sessionID string) ([]domain.Annotation, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	var annotations []domain.Annotation
	for id, owner := range s.store.annotationSessions {
		if owner != sessionID {
			continue
		}
		if annotation, ok := s.store.annotations[id]; ok {
			annotations = append(annotations, annotation)
		}
	}
	sort.Slice(annotations, func(i, j int) bool {
		return annotations[i].CreatedAt.Before(annotations[j].CreatedAt)
	})
	return annotations, nil
}
