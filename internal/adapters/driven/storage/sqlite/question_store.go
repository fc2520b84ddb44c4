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

// questionStore implements driven.QuestionStore.
type questionStore struct {
	store *Store
}

var _ driven.QuestionStore = (*questionStore)(nil)

const questionColumns = "id, text, type, generated_by, status, document_sample_id, created_at, updated_at"

// Save stores or updates a question.
func (s *questionStore) Save(ctx context.Context, question *domain.Question) error {
	now := time.Now().UTC()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}
	question.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO questions (`+questionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			type = excluded.type,
			generated_by = excluded.generated_by,
			status = excluded.status,
			document_sample_id = excluded.document_sample_id,
			updated_at = excluded.updated_at
	`, question.ID, question.Text, question.Type, question.GeneratedBy,
		question.Status, question.DocumentSampleID, question.CreatedAt, question.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving question: %w", err)
	}
	return nil
}

// Get retrieves a question by ID.
func (s *questionStore) Get(ctx context.Context, id string) (*domain.Question, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = ?", id)

	question, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

// List returns all questions.
func (s *questionStore) List(ctx context.Context) ([]domain.Question, error) {
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM questions ORDER BY created_at")
}

// ListByType returns questions of one type via the type index.
func (s *questionStore) ListByType(ctx context.Context, t domain.QuestionType) ([]domain.Question, error) {
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE type = ? ORDER BY created_at", t)
}

// ListBySample returns questions owned by a sample via the sample index.
func (s *questionStore) ListBySample(ctx context.Context, sampleID string) ([]domain.Question, error) {
	return s.queryQuestions(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE document_sample_id = ? ORDER BY created_at", sampleID)
}

// UpdateStatus flips the curation status of a question.
func (s *questionStore) UpdateStatus(ctx context.Context, id string, status domain.QuestionStatus) (*domain.Question, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: question status %q", domain.ErrInvalidInput, status)
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE questions SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("updating question status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	return s.Get(ctx, id)
}

func (s *questionStore) queryQuestions(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question //nolint:prealloc // size unknown from query
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}

	return questions, nil
}

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var question domain.Question
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&question.ID, &question.Text, &question.Type,
		&question.GeneratedBy, &question.Status, &question.DocumentSampleID,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning question: %w", err)
	}

	if createdAt.Valid {
		question.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		question.UpdatedAt = updatedAt.Time
	}

	return &question, nil
}
