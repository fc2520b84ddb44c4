package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charislam/metrick/internal/adapters/driven/storage/memory"
	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
)

// failingSessionStore delegates everything except SaveWithRelations.
type failingSessionStore struct {
	driven.SessionStore
	saveErr error
}

func (f *failingSessionStore) SaveWithRelations(ctx context.Context, view *domain.SessionView) (*domain.Session, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.SessionStore.SaveWithRelations(ctx, view)
}

// newSessionFixture seeds a sample with three documents and two
// accepted questions, then creates a session over them.
func newSessionFixture(t *testing.T, store *memory.Store) (*SessionService, string) {
	t.Helper()
	ctx := context.Background()

	docs := make([]domain.Document, 3)
	for i := range docs {
		docs[i] = domain.Document{
			ID:          fmt.Sprintf("doc-%d", i+1),
			Title:       fmt.Sprintf("Doc %d", i+1),
			ContentType: domain.ContentTypeGuide,
		}
	}
	require.NoError(t, store.Samples().Save(ctx, &domain.DocumentSample{
		ID:        "sample-1",
		Name:      "fixture",
		Documents: docs,
	}))

	for i := 1; i <= 2; i++ {
		require.NoError(t, store.Questions().Save(ctx, &domain.Question{
			ID:               fmt.Sprintf("q-%d", i),
			Text:             fmt.Sprintf("question %d", i),
			Type:             domain.QuestionTypeAnswerable,
			GeneratedBy:      domain.QuestionOriginManual,
			DocumentSampleID: "sample-1",
			Status:           domain.QuestionStatusAccepted,
		}))
	}

	svc := NewSessionService(store.Sessions(), store.Questions(), store.Samples(), NewInvalidations())
	session, err := svc.Create(ctx, "sample-1", []string{"q-1", "q-2"})
	require.NoError(t, err)
	return svc, session.ID
}

func TestSessionService_Create_Validates(t *testing.T) {
	store := memory.NewStore()
	svc := NewSessionService(store.Sessions(), store.Questions(), store.Samples(), NewInvalidations())

	_, err := svc.Create(context.Background(), "sample-1", nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "missing", []string{"q-1"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionHandle_UpdateAnnotation_NoDuplicatePairs(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)

	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 2))
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 3))

	view := handle.View()
	require.Len(t, view.Annotations, 1)
	assert.Equal(t, domain.RelevancyScore(3), view.Annotations[0].RelevancyScore)
	assert.True(t, handle.HasUnsavedChanges())
}

func TestSessionHandle_UpdateAnnotation_Validates(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)

	assert.ErrorIs(t, handle.UpdateAnnotation("q-1", "doc-1", 4), domain.ErrInvalidInput)
	assert.ErrorIs(t, handle.UpdateAnnotation("q-1", "doc-1", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, handle.UpdateAnnotation("q-9", "doc-1", 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, handle.UpdateAnnotation("q-1", "doc-9", 1), domain.ErrInvalidInput)
	assert.False(t, handle.HasUnsavedChanges())
}

func TestSessionHandle_Progress(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)

	assert.Equal(t, domain.Progress{Completed: 0, Total: 6, Percentage: 0}, handle.Progress())

	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 0))
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-2", 1))
	require.NoError(t, handle.UpdateAnnotation("q-2", "doc-1", 2))
	require.NoError(t, handle.UpdateAnnotation("q-2", "doc-3", 3))

	assert.Equal(t, domain.Progress{Completed: 4, Total: 6, Percentage: 67}, handle.Progress())

	// Rescoring an already-annotated pair does not move progress.
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 3))
	assert.Equal(t, domain.Progress{Completed: 4, Total: 6, Percentage: 67}, handle.Progress())
}

func TestSessionHandle_Pairs(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-2", 2))

	pairs := handle.Pairs()
	require.Len(t, pairs, 6)

	// Question-major order.
	assert.Equal(t, "q-1", pairs[0].Question.ID)
	assert.Equal(t, "doc-1", pairs[0].Document.ID)
	assert.Nil(t, pairs[0].Annotation)

	require.NotNil(t, pairs[1].Annotation)
	assert.Equal(t, domain.RelevancyScore(2), pairs[1].Annotation.RelevancyScore)

	pair, ok := handle.CurrentPair(5)
	require.True(t, ok)
	assert.Equal(t, "q-2", pair.Question.ID)
	assert.Equal(t, "doc-3", pair.Document.ID)

	_, ok = handle.CurrentPair(6)
	assert.False(t, ok)
	_, ok = handle.CurrentPair(-1)
	assert.False(t, ok)
}

func TestSessionHandle_SaveAndReload(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)
	ctx := context.Background()

	handle, err := svc.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 3))
	require.NoError(t, handle.UpdateAnnotation("q-2", "doc-2", 1))

	require.NoError(t, handle.Save(ctx))
	assert.False(t, handle.HasUnsavedChanges())
	assert.Equal(t, driving.SyncStatusSaved, handle.Status())

	ann, err := store.Annotations().GetByPair(ctx, "q-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RelevancyScore(3), ann.RelevancyScore)

	// A fresh load sees the saved annotations.
	svc.Unload()
	reloaded, err := svc.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, reloaded.View().Annotations, 2)
	assert.Equal(t, domain.Progress{Completed: 2, Total: 6, Percentage: 33}, reloaded.Progress())
}

func TestSessionHandle_Save_CleanIsNoOp(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)

	require.NoError(t, handle.Save(context.Background()))
	assert.Equal(t, driving.SyncStatusIdle, handle.Status())
}

func TestSessionHandle_Save_FailureKeepsEdits(t *testing.T) {
	store := memory.NewStore()
	_, sessionID := newSessionFixture(t, store)

	failing := &failingSessionStore{
		SessionStore: store.Sessions(),
		saveErr:      fmt.Errorf("%w: disk full", domain.ErrTransactionFailed),
	}
	svc := NewSessionService(failing, store.Questions(), store.Samples(), NewInvalidations())

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 2))

	err = handle.Save(context.Background())
	require.ErrorIs(t, err, domain.ErrTransactionFailed)

	assert.True(t, handle.HasUnsavedChanges())
	assert.Equal(t, driving.SyncStatusError, handle.Status())
	require.Len(t, handle.View().Annotations, 1)

	// Recovery: clear the fault and retry the same edits.
	failing.saveErr = nil
	require.NoError(t, handle.Save(context.Background()))
	assert.Equal(t, driving.SyncStatusSaved, handle.Status())
}

func TestSessionHandle_Discard(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)
	ctx := context.Background()

	handle, err := svc.Load(ctx, sessionID)
	require.NoError(t, err)

	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 1))
	require.NoError(t, handle.Save(ctx))

	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-2", 2))
	require.NoError(t, handle.UpdateAnnotation("q-2", "doc-1", 3))
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 0))
	require.True(t, handle.HasUnsavedChanges())

	handle.Discard()

	assert.False(t, handle.HasUnsavedChanges())
	assert.Equal(t, driving.SyncStatusIdle, handle.Status())

	view := handle.View()
	require.Len(t, view.Annotations, 1)
	assert.Equal(t, domain.RelevancyScore(1), view.Annotations[0].RelevancyScore)
}

func TestSessionService_Load_SameIDPreservesEdits(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)
	ctx := context.Background()

	handle, err := svc.Load(ctx, sessionID)
	require.NoError(t, err)
	require.NoError(t, handle.UpdateAnnotation("q-1", "doc-1", 2))

	again, err := svc.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Same(t, handle, again)
	assert.True(t, again.HasUnsavedChanges())
}

func TestSessionService_CurrentAndUnload(t *testing.T) {
	store := memory.NewStore()
	svc, sessionID := newSessionFixture(t, store)

	_, ok := svc.Current()
	assert.False(t, ok)

	handle, err := svc.Load(context.Background(), sessionID)
	require.NoError(t, err)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, handle.ID(), current.ID())

	svc.Unload()
	_, ok = svc.Current()
	assert.False(t, ok)
}

func TestSessionService_List_SkipsBrokenSampleReference(t *testing.T) {
	store := memory.NewStore()
	svc, _ := newSessionFixture(t, store)
	ctx := context.Background()

	// A second session over a sample that no longer exists.
	require.NoError(t, store.Sessions().Save(ctx, &domain.Session{
		ID:               "orphan",
		DocumentSampleID: "deleted-sample",
		QuestionIDs:      []string{"q-1"},
	}))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.NotEqual(t, "orphan", views[0].ID)
}

func TestSessionService_Load_MissingSession(t *testing.T) {
	store := memory.NewStore()
	svc := NewSessionService(store.Sessions(), store.Questions(), store.Samples(), NewInvalidations())

	_, err := svc.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
