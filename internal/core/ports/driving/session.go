package driving

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// SyncStatus tracks where the loaded session sits between memory and
// durable storage.
type SyncStatus string

const (
	// SyncStatusIdle means no save has been attempted since load or
	// the last discard.
	SyncStatusIdle SyncStatus = "idle"

	// SyncStatusSaving means a save is in flight.
	SyncStatusSaving SyncStatus = "saving"

	// SyncStatusSaved means the last save succeeded.
	SyncStatusSaved SyncStatus = "saved"

	// SyncStatusError means the last save failed; in-memory edits are
	// intact and the session is still dirty.
	SyncStatusError SyncStatus = "error"
)

// AnnotationSession is the view-model for the session currently being
// annotated: the single in-memory source of truth isolating callers
// from normalise/denormalise mechanics. All annotation mutations are
// memory-only until Save.
type AnnotationSession interface {
	// ID returns the session identifier.
	ID() string

	// View returns a copy of the current working view.
	View() *domain.SessionView

	// UpdateAnnotation rescores an existing annotation for the pair in
	// place, or synthesises a new one. Always marks the session dirty.
	UpdateAnnotation(questionID, documentID string, score domain.RelevancyScore) error

	// Pairs enumerates the cross-product of the session's questions
	// and its sample's documents, each with its annotation if scored.
	Pairs() []domain.Pair

	// CurrentPair returns the pair at the given position, or false if
	// the index is out of range.
	CurrentPair(index int) (*domain.Pair, bool)

	// Progress reports completed and total pair counts.
	Progress() domain.Progress

	// HasUnsavedChanges reports whether the session is dirty.
	HasUnsavedChanges() bool

	// Status returns the current sync status.
	Status() SyncStatus

	// Save atomically persists the session and its relations. A clean
	// session is a no-op. On failure the in-memory edits are kept and
	// the session stays dirty.
	Save(ctx context.Context) error

	// Discard restores the last durable snapshot, clearing dirty and
	// error state.
	Discard()
}

// SessionManager creates, lists and loads annotation sessions.
type SessionManager interface {
	// Create persists a new session over a sample and a chosen set of
	// questions, and returns its normalised record.
	Create(ctx context.Context, sampleID string, questionIDs []string) (*domain.Session, error)

	// Load fetches and denormalises a session. If a session with the
	// same id is already loaded it is returned as-is, preserving any
	// unsaved edits.
	Load(ctx context.Context, sessionID string) (AnnotationSession, error)

	// Current returns the loaded session, if any.
	Current() (AnnotationSession, bool)

	// Unload drops the loaded session without saving.
	Unload()

	// List returns denormalised views of all sessions. Sessions whose
	// sample no longer resolves are skipped with a warning.
	List(ctx context.Context) ([]domain.SessionView, error)
}
