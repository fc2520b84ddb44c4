package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// annotationStore implements driven.AnnotationStore.
type annotationStore struct {
	store *Store
}

var _ driven.AnnotationStore = (*annotationStore)(nil)

const annotationColumns = "id, question_id, document_id, relevancy_score, created_at, updated_at"

// Save stores or updates an annotation. The unique index on
// (question_id, document_id) rejects a second annotation for a pair
// under a different id.
func (s *annotationStore) Save(ctx context.Context, annotation *domain.Annotation) error {
	now := time.Now().UTC()
	if annotation.CreatedAt.IsZero() {
		annotation.CreatedAt = now
	}
	annotation.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO annotations (`+annotationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question_id = excluded.question_id,
			document_id = excluded.document_id,
			relevancy_score = excluded.relevancy_score,
			updated_at = excluded.updated_at
	`, annotation.ID, annotation.QuestionID, annotation.DocumentID,
		annotation.RelevancyScore, annotation.CreatedAt, annotation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving annotation: %w", err)
	}
	return nil
}

// Get retrieves an annotation by ID.
func (s *annotationStore) Get(ctx context.Context, id string) (*domain.Annotation, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+annotationColumns+" FROM annotations WHERE id = ?", id)

	annotation, err := scanAnnotation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return annotation, nil
}

// GetByPair retrieves the annotation for a question-document pair via
// the unique pair index.
func (s *annotationStore) GetByPair(ctx context.Context, questionID, documentID string) (*domain.Annotation, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+annotationColumns+" FROM annotations WHERE question_id = ? AND document_id = ?",
		questionID, documentID)

	annotation, err := scanAnnotation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return annotation, nil
}

// ListBySession returns annotations stamped with a session id via the
// session index.
func (s *annotationStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Annotation, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+annotationColumns+" FROM annotations WHERE session_id = ? ORDER BY created_at",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	var annotations []domain.Annotation //nolint:prealloc // size unknown from query
	for rows.Next() {
		annotation, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, *annotation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating annotations: %w", err)
	}

	return annotations, nil
}

func scanAnnotation(row rowScanner) (*domain.Annotation, error) {
	var annotation domain.Annotation
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&annotation.ID, &annotation.QuestionID, &annotation.DocumentID,
		&annotation.RelevancyScore, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning annotation: %w", err)
	}

	if createdAt.Valid {
		annotation.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		annotation.UpdatedAt = updatedAt.Time
	}

	return &annotation, nil
}
