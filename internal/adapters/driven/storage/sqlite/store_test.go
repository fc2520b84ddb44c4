package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charislam/metrick/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func testSample(id string, docs ...domain.Document) *domain.DocumentSample {
	return &domain.DocumentSample{
		ID:          id,
		Name:        "Sample " + id,
		Description: "test sample",
		Documents:   docs,
		Criteria: domain.SamplingCriteria{
			SampleSize: len(docs),
			ContentTypeDistribution: domain.Distribution{
				Guide: len(docs),
			},
		},
	}
}

func testQuestion(id, sampleID string) *domain.Question {
	return &domain.Question{
		ID:               id,
		Text:             "What does " + id + " cover?",
		Type:             domain.QuestionTypeAnswerable,
		GeneratedBy:      domain.QuestionOriginManual,
		DocumentSampleID: sampleID,
		Status:           domain.QuestionStatusAccepted,
	}
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "metrick.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestSampleStore_SaveGetDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	sample := testSample("sample-1", domain.Document{
		ID:          "doc-1",
		Title:       "Getting started",
		Content:     "How to get started.",
		ContentType: domain.ContentTypeGuide,
		Metadata:    map[string]any{"slug": "getting-started"},
	})

	require.NoError(t, store.Samples().Save(ctx, sample))
	assert.False(t, sample.CreatedAt.IsZero())

	got, err := store.Samples().Get(ctx, "sample-1")
	require.NoError(t, err)
	assert.Equal(t, "Sample sample-1", got.Name)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "Getting started", got.Documents[0].Title)
	assert.Equal(t, domain.ContentTypeGuide, got.Documents[0].ContentType)
	assert.Equal(t, "getting-started", got.Documents[0].Metadata["slug"])
	assert.Equal(t, 1, got.Criteria.SampleSize)

	require.NoError(t, store.Samples().Delete(ctx, "sample-1"))
	_, err = store.Samples().Get(ctx, "sample-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSampleStore_Upsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	sample := testSample("sample-1")
	require.NoError(t, store.Samples().Save(ctx, sample))

	sample.Description = "renamed"
	require.NoError(t, store.Samples().Save(ctx, sample))

	samples, err := store.Samples().List(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "renamed", samples[0].Description)
}

func TestQuestionStore_IndexedReads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	q1 := testQuestion("q-1", "sample-1")
	q2 := testQuestion("q-2", "sample-1")
	q2.Type = domain.QuestionTypeNonAnswerable
	q3 := testQuestion("q-3", "sample-2")

	for _, q := range []*domain.Question{q1, q2, q3} {
		require.NoError(t, store.Questions().Save(ctx, q))
	}

	bySample, err := store.Questions().ListBySample(ctx, "sample-1")
	require.NoError(t, err)
	assert.Len(t, bySample, 2)

	byType, err := store.Questions().ListByType(ctx, domain.QuestionTypeNonAnswerable)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "q-2", byType[0].ID)

	all, err := store.Questions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuestionStore_UpdateStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	question := testQuestion("q-1", "sample-1")
	question.Status = domain.QuestionStatusPending
	require.NoError(t, store.Questions().Save(ctx, question))

	updated, err := store.Questions().UpdateStatus(ctx, "q-1", domain.QuestionStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionStatusRejected, updated.Status)

	_, err = store.Questions().UpdateStatus(ctx, "missing", domain.QuestionStatusAccepted)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Questions().UpdateStatus(ctx, "q-1", domain.QuestionStatus("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnnotationStore_PairUniqueness(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := &domain.Annotation{
		ID:             "ann-1",
		QuestionID:     "q-1",
		DocumentID:     "doc-1",
		RelevancyScore: 2,
	}
	require.NoError(t, store.Annotations().Save(ctx, first))

	// A second annotation for the same pair under a different id
	// violates the unique pair index.
	duplicate := &domain.Annotation{
		ID:             "ann-2",
		QuestionID:     "q-1",
		DocumentID:     "doc-1",
		RelevancyScore: 1,
	}
	assert.Error(t, store.Annotations().Save(ctx, duplicate))

	// Rescoring under the same id updates in place.
	first.RelevancyScore = 3
	require.NoError(t, store.Annotations().Save(ctx, first))

	got, err := store.Annotations().GetByPair(ctx, "q-1", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "ann-1", got.ID)
	assert.Equal(t, domain.RelevancyScore(3), got.RelevancyScore)
}

func TestAnnotationStore_GetByPair_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Annotations().GetByPair(context.Background(), "q-x", "doc-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_TimestampsStamped(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	question := testQuestion("q-1", "sample-1")
	require.NoError(t, store.Questions().Save(ctx, question))

	got, err := store.Questions().Get(ctx, "q-1")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.After(before))
	assert.True(t, !got.UpdatedAt.Before(got.CreatedAt))
}
