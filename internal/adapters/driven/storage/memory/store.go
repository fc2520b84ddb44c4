package memory

import (
	"sync"
	"time"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// Store is a unified in-memory storage providing the same per-kind
// store interfaces as the SQLite store.
type Store struct {
	mu          sync.RWMutex
	samples     map[string]domain.DocumentSample
	questions   map[string]domain.Question
	annotations map[string]domain.Annotation
	sessions    map[string]domain.Session

	// annotationSessions mirrors the declared session-ownership index.
	annotationSessions map[string]string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		samples:            make(map[string]domain.DocumentSample),
		questions:          make(map[string]domain.Question),
		annotations:        make(map[string]domain.Annotation),
		sessions:           make(map[string]domain.Session),
		annotationSessions: make(map[string]string),
	}
}

// Samples returns a SampleStore interface backed by this store.
func (s *Store) Samples() driven.SampleStore {
	return &sampleStore{store: s}
}

// Questions returns a QuestionStore interface backed by this store.
func (s *Store) Questions() driven.QuestionStore {
	return &questionStore{store: s}
}

// Annotations returns an AnnotationStore interface backed by this store.
func (s *Store) Annotations() driven.AnnotationStore {
	return &annotationStore{store: s}
}

// Sessions returns a SessionStore interface backed by this store.
func (s *Store) Sessions() driven.SessionStore {
	return &sessionStore{store: s}
}

// stamp fills in creation and update timestamps the way the durable
// store does on write.
func stamp(createdAt *time.Time, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
