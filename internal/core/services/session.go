package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
	"github.com/charislam/metrick/internal/logger"
)

var (
	_ driving.SessionManager    = (*SessionService)(nil)
	_ driving.AnnotationSession = (*SessionHandle)(nil)
)

// SessionService creates and loads annotation sessions. At most one
// session is loaded at a time; the loaded handle is the session-scoped
// context every annotation operation runs against.
type SessionService struct {
	sessions      driven.SessionStore
	questions     driven.QuestionStore
	samples       driven.SampleStore
	invalidations *Invalidations

	mu      sync.Mutex
	current *SessionHandle
}

// NewSessionService creates a new session service.
func NewSessionService(
	sessions driven.SessionStore,
	questions driven.QuestionStore,
	samples driven.SampleStore,
	invalidations *Invalidations,
) *SessionService {
	return &SessionService{
		sessions:      sessions,
		questions:     questions,
		samples:       samples,
		invalidations: invalidations,
	}
}

// Create persists a new session over a sample and a chosen set of
// questions.
func (s *SessionService) Create(ctx context.Context, sampleID string, questionIDs []string) (*domain.Session, error) {
	if len(questionIDs) == 0 {
		return nil, fmt.Errorf("%w: a session needs at least one question", domain.ErrInvalidInput)
	}
	if _, err := s.samples.Get(ctx, sampleID); err != nil {
		return nil, fmt.Errorf("loading sample %s: %w", sampleID, err)
	}
	for _, id := range questionIDs {
		if _, err := s.questions.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("loading question %s: %w", id, err)
		}
	}

	session := &domain.Session{
		ID:               uuid.NewString(),
		DocumentSampleID: sampleID,
		QuestionIDs:      append([]string(nil), questionIDs...),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	logger.Info("created session %s over sample %s (%d questions)", session.ID, sampleID, len(questionIDs))
	s.invalidations.Invalidate(KindSession, session.ID)
	return session, nil
}

// Load fetches and denormalises a session, making it current. Loading
// the already-current session returns the existing handle untouched so
// unsaved edits survive redundant loads.
func (s *SessionService) Load(ctx context.Context, sessionID string) (driving.AnnotationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID() == sessionID {
		return s.current, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	view, err := s.sessions.Denormalize(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("denormalising session %s: %w", sessionID, err)
	}

	s.current = newSessionHandle(view, s.sessions, s.invalidations)
	logger.Info("loaded session %s (%d questions, %d documents)",
		sessionID, len(view.Questions), len(view.DocumentSample.Documents))
	return s.current, nil
}

// Current returns the loaded session, if any.
func (s *SessionService) Current() (driving.AnnotationSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// Unload drops the loaded session without saving.
func (s *SessionService) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// List returns denormalised views of all sessions. Sessions whose
// document sample no longer resolves are skipped with a warning
// instead of failing the whole listing.
func (s *SessionService) List(ctx context.Context) ([]domain.SessionView, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	views := make([]domain.SessionView, 0, len(sessions))
	for i := range sessions {
		view, err := s.sessions.Denormalize(ctx, &sessions[i])
		if err != nil {
			if errors.Is(err, domain.ErrReferenceNotFound) {
				logger.Warn("skipping session %s: %v", sessions[i].ID, err)
				continue
			}
			return nil, fmt.Errorf("denormalising session %s: %w", sessions[i].ID, err)
		}
		views = append(views, *view)
	}
	return views, nil
}

// SessionHandle is the in-memory view-model for one loaded session.
// All mutations go through the handle and stay memory-only until Save;
// a snapshot of the last durable state backs Discard.
type SessionHandle struct {
	store         driven.SessionStore
	invalidations *Invalidations

	mu       sync.Mutex
	view     *domain.SessionView
	snapshot *domain.SessionView
	status   driving.SyncStatus
}

func newSessionHandle(view *domain.SessionView, store driven.SessionStore, invalidations *Invalidations) *SessionHandle {
	view.HasUnsavedChanges = false
	return &SessionHandle{
		store:         store,
		invalidations: invalidations,
		view:          view,
		snapshot:      view.Clone(),
		status:        driving.SyncStatusIdle,
	}
}

// ID returns the session identifier.
func (h *SessionHandle) ID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view.ID
}

// View returns a copy of the current working view.
func (h *SessionHandle) View() *domain.SessionView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view.Clone()
}

// UpdateAnnotation rescores the annotation for a pair in place, or
// synthesises a new one if the pair is unscored. The change is
// memory-only until Save.
func (h *SessionHandle) UpdateAnnotation(questionID, documentID string, score domain.RelevancyScore) error {
	if !score.IsValid() {
		return fmt.Errorf("%w: relevancy score %d is outside 0-%d", domain.ErrInvalidInput, score, domain.MaxRelevancyScore)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.hasQuestion(questionID) {
		return fmt.Errorf("%w: question %s is not part of this session", domain.ErrInvalidInput, questionID)
	}
	if !h.hasDocument(documentID) {
		return fmt.Errorf("%w: document %s is not part of this session's sample", domain.ErrInvalidInput, documentID)
	}

	now := time.Now().UTC()
	if existing := h.view.Annotation(questionID, documentID); existing != nil {
		existing.RelevancyScore = score
		existing.UpdatedAt = now
	} else {
		h.view.Annotations = append(h.view.Annotations, domain.Annotation{
			ID:             uuid.NewString(),
			QuestionID:     questionID,
			DocumentID:     documentID,
			RelevancyScore: score,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	h.view.HasUnsavedChanges = true
	return nil
}

func (h *SessionHandle) hasQuestion(id string) bool {
	for i := range h.view.Questions {
		if h.view.Questions[i].ID == id {
			return true
		}
	}
	return false
}

func (h *SessionHandle) hasDocument(id string) bool {
	for i := range h.view.DocumentSample.Documents {
		if h.view.DocumentSample.Documents[i].ID == id {
			return true
		}
	}
	return false
}

// Pairs enumerates the cross-product of the session's questions and
// its sample's documents, in question-major order, with a copy of each
// pair's annotation if scored.
func (h *SessionHandle) Pairs() []domain.Pair {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pairsLocked()
}

func (h *SessionHandle) pairsLocked() []domain.Pair {
	pairs := make([]domain.Pair, 0, len(h.view.Questions)*len(h.view.DocumentSample.Documents))
	for _, question := range h.view.Questions {
		for _, document := range h.view.DocumentSample.Documents {
			pair := domain.Pair{Question: question, Document: document}
			if ann := h.view.Annotation(question.ID, document.ID); ann != nil {
				copied := *ann
				pair.Annotation = &copied
			}
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// CurrentPair returns the pair at the given position.
func (h *SessionHandle) CurrentPair(index int) (*domain.Pair, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pairs := h.pairsLocked()
	if index < 0 || index >= len(pairs) {
		return nil, false
	}
	return &pairs[index], true
}

// Progress reports how many pairs have been annotated.
func (h *SessionHandle) Progress() domain.Progress {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := len(h.view.Questions) * len(h.view.DocumentSample.Documents)
	completed := 0
	for _, question := range h.view.Questions {
		for _, document := range h.view.DocumentSample.Documents {
			if h.view.Annotation(question.ID, document.ID) != nil {
				completed++
			}
		}
	}

	progress := domain.Progress{Completed: completed, Total: total}
	if total > 0 {
		progress.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return progress
}

// HasUnsavedChanges reports whether the session is dirty.
func (h *SessionHandle) HasUnsavedChanges() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view.HasUnsavedChanges
}

// Status returns the current sync status.
func (h *SessionHandle) Status() driving.SyncStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Save atomically persists the session and all its relations. A clean
// session is a no-op. On failure the in-memory edits are untouched and
// the session stays dirty.
func (h *SessionHandle) Save(ctx context.Context) error {
	h.mu.Lock()
	if !h.view.HasUnsavedChanges {
		h.mu.Unlock()
		return nil
	}
	if h.status == driving.SyncStatusSaving {
		h.mu.Unlock()
		return domain.ErrSaveInProgress
	}
	h.status = driving.SyncStatusSaving
	// The write runs on a copy so the lock is not held across I/O.
	pending := h.view.Clone()
	h.mu.Unlock()

	if _, err := h.store.SaveWithRelations(ctx, pending); err != nil {
		h.mu.Lock()
		h.status = driving.SyncStatusError
		h.mu.Unlock()
		return fmt.Errorf("saving session %s: %w", pending.ID, err)
	}

	h.mu.Lock()
	h.view.HasUnsavedChanges = false
	h.snapshot = h.view.Clone()
	h.status = driving.SyncStatusSaved
	count := len(h.view.Annotations)
	h.mu.Unlock()

	logger.Info("saved session %s (%d annotations)", pending.ID, count)
	h.invalidations.Invalidate(KindSession, pending.ID)
	h.invalidations.Invalidate(KindAnnotation)
	return nil
}

// Discard restores the last durable snapshot, dropping every unsaved
// edit and clearing dirty and error state.
func (h *SessionHandle) Discard() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.view = h.snapshot.Clone()
	h.view.HasUnsavedChanges = false
	h.status = driving.SyncStatusIdle
}
