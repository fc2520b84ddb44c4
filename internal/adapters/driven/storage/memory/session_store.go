package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or updates a normalised session record.
func (s *sessionStore) Save(_ context.Context, session *domain.Session) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	stamp(&session.CreatedAt, &session.UpdatedAt)
	s.store.sessions[session.ID] = *session
	return nil
}

// Get retrieves a normalised session by ID.
func (s *sessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	session, ok := s.store.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// List returns all normalised session records.
func (s *sessionStore) List(_ context.Context) ([]domain.Session, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	sessions := make([]domain.Session, 0, len(s.store.sessions))
	for _, session := range s.store.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Delete removes a session record. No cascade.
func (s *sessionStore) Delete(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.sessions, id)
	return nil
}

// Denormalize resolves a session's references into an embedded view.
func (s *sessionStore) Denormalize(_ context.Context, session *domain.Session) (*domain.SessionView, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	sample, ok := s.store.samples[session.DocumentSampleID]
	if !ok {
		return nil, fmt.Errorf("%w: document sample %s", domain.ErrReferenceNotFound, session.DocumentSampleID)
	}

	questions := make([]domain.Question, 0, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		if question, ok := s.store.questions[id]; ok {
			questions = append(questions, question)
		}
	}

	annotations := make([]domain.Annotation, 0, len(session.AnnotationIDs))
	for _, id := range session.AnnotationIDs {
		if annotation, ok := s.store.annotations[id]; ok {
			annotations = append(annotations, annotation)
		}
	}

	return &domain.SessionView{
		ID:             session.ID,
		DocumentSample: sample,
		Questions:      questions,
		Annotations:    annotations,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}, nil
}

// Normalize recomputes the reference lists from the embedded view.
func (s *sessionStore) Normalize(view *domain.SessionView) *domain.Session {
	questionIDs := make([]string, len(view.Questions))
	for i, question := range view.Questions {
		questionIDs[i] = question.ID
	}

	annotationIDs := make([]string, len(view.Annotations))
	for i, annotation := range view.Annotations {
		annotationIDs[i] = annotation.ID
	}

	return &domain.Session{
		ID:               view.ID,
		DocumentSampleID: view.DocumentSample.ID,
		QuestionIDs:      questionIDs,
		AnnotationIDs:    annotationIDs,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
}

// SaveWithRelations writes the whole view, all or nothing. Validation
// runs before any map is touched so a rejected record leaves no
// partial state, mirroring the durable store's rollback.
func (s *sessionStore) SaveWithRelations(_ context.Context, view *domain.SessionView) (*domain.Session, error) {
	normalized := s.Normalize(view)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	annotations := &annotationStore{store: s.store}
	for i := range view.Annotations {
		annotation := &view.Annotations[i]
		if !annotation.RelevancyScore.IsValid() {
			return nil, fmt.Errorf("%w: relevancy score %d on %s",
				domain.ErrTransactionFailed, annotation.RelevancyScore, annotation.ID)
		}
		if err := annotations.checkPairUnique(annotation); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
		}
	}

	now := time.Now().UTC()

	sample := view.DocumentSample
	stamp(&sample.CreatedAt, &sample.UpdatedAt)
	s.store.samples[sample.ID] = sample

	for _, question := range view.Questions {
		stamp(&question.CreatedAt, &question.UpdatedAt)
		s.store.questions[question.ID] = question
	}

	for _, annotation := range view.Annotations {
		stamp(&annotation.CreatedAt, &annotation.UpdatedAt)
		s.store.annotations[annotation.ID] = annotation
		s.store.annotationSessions[annotation.ID] = view.ID
	}

	if normalized.CreatedAt.IsZero() {
		normalized.CreatedAt = now
	}
	normalized.UpdatedAt = now
	s.store.sessions[normalized.ID] = *normalized

	return normalized, nil
}
