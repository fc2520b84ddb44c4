package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

const sessionColumns = "id, document_sample_id, question_ids, annotation_ids, created_at, updated_at"

// Save stores or updates a normalised session record.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	questionIDs, err := marshalJSON(session.QuestionIDs)
	if err != nil {
		return fmt.Errorf("marshalling question ids: %w", err)
	}
	annotationIDs, err := marshalJSON(session.AnnotationIDs)
	if err != nil {
		return fmt.Errorf("marshalling annotation ids: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx,
		upsertSessionSQL, session.ID, session.DocumentSampleID,
		questionIDs, annotationIDs, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

const upsertSessionSQL = `
	INSERT INTO annotation_sessions (` + sessionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		document_sample_id = excluded.document_sample_id,
		question_ids = excluded.question_ids,
		annotation_ids = excluded.annotation_ids,
		updated_at = excluded.updated_at
`

// Get retrieves a normalised session by ID.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM annotation_sessions WHERE id = ?", id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// List returns all normalised session records.
func (s *sessionStore) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM annotation_sessions ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session //nolint:prealloc // size unknown from query
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session record. No cascade: its annotations stay.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM annotation_sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Denormalize resolves a session's references into an embedded view.
// The document sample is required: a dangling sample reference fails
// with domain.ErrReferenceNotFound. Questions and annotations that
// have been deleted since the session last referenced them are
// silently dropped from the view.
func (s *sessionStore) Denormalize(ctx context.Context, session *domain.Session) (*domain.SessionView, error) {
	sample, err := s.store.Samples().Get(ctx, session.DocumentSampleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: document sample %s", domain.ErrReferenceNotFound, session.DocumentSampleID)
		}
		return nil, fmt.Errorf("resolving document sample: %w", err)
	}

	questions := make([]domain.Question, 0, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		question, err := s.store.Questions().Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving question %s: %w", id, err)
		}
		questions = append(questions, *question)
	}

	annotations := make([]domain.Annotation, 0, len(session.AnnotationIDs))
	for _, id := range session.AnnotationIDs {
		annotation, err := s.store.Annotations().Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving annotation %s: %w", id, err)
		}
		annotations = append(annotations, *annotation)
	}

	return &domain.SessionView{
		ID:             session.ID,
		DocumentSample: *sample,
		Questions:      questions,
		Annotations:    annotations,
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}, nil
}

// Normalize recomputes the reference lists from the embedded view.
// Stored id lists are never trusted; membership is derived from the
// embedded records on every write.
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

// SaveWithRelations writes the embedded sample, every embedded
// question, every embedded annotation and the normalised session
// record in one transaction. Any failure rolls the whole write back;
// no partial state is visible to subsequent reads.
func (s *sessionStore) SaveWithRelations(ctx context.Context, view *domain.SessionView) (*domain.Session, error) {
	normalized := s.Normalize(view)

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", domain.ErrTransactionFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := saveSessionRelations(ctx, tx, view, normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing: %v", domain.ErrTransactionFailed, err)
	}

	return normalized, nil
}

// saveSessionRelations performs the individual writes inside the
// transaction.
func saveSessionRelations(ctx context.Context, tx *sql.Tx, view *domain.SessionView, normalized *domain.Session) error {
	now := time.Now().UTC()

	sample := view.DocumentSample
	documentsJSON, err := marshalJSON(sample.Documents)
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}
	criteriaJSON, err := marshalJSON(sample.Criteria)
	if err != nil {
		return fmt.Errorf("marshalling criteria: %w", err)
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = now
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO document_samples (id, name, description, documents, criteria, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			documents = excluded.documents,
			criteria = excluded.criteria,
			updated_at = excluded.updated_at
	`, sample.ID, sample.Name, sample.Description, documentsJSON, criteriaJSON, sample.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("saving document sample: %w", err)
	}

	for i := range view.Questions {
		question := view.Questions[i]
		if question.CreatedAt.IsZero() {
			question.CreatedAt = now
		}
		_, err = tx.ExecContext(ctx, `
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
			question.Status, question.DocumentSampleID, question.CreatedAt, now)
		if err != nil {
			return fmt.Errorf("saving question %s: %w", question.ID, err)
		}
	}

	for i := range view.Annotations {
		annotation := view.Annotations[i]
		if annotation.CreatedAt.IsZero() {
			annotation.CreatedAt = now
		}
		// session_id is the declared ownership index; the session
		// record's id list stays the membership truth.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO annotations (id, question_id, document_id, relevancy_score, session_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				question_id = excluded.question_id,
				document_id = excluded.document_id,
				relevancy_score = excluded.relevancy_score,
				session_id = excluded.session_id,
				updated_at = excluded.updated_at
		`, annotation.ID, annotation.QuestionID, annotation.DocumentID,
			annotation.RelevancyScore, nullString(view.ID), annotation.CreatedAt, now)
		if err != nil {
			return fmt.Errorf("saving annotation %s: %w", annotation.ID, err)
		}
	}

	questionIDs, err := marshalJSON(normalized.QuestionIDs)
	if err != nil {
		return fmt.Errorf("marshalling question ids: %w", err)
	}
	annotationIDs, err := marshalJSON(normalized.AnnotationIDs)
	if err != nil {
		return fmt.Errorf("marshalling annotation ids: %w", err)
	}
	if normalized.CreatedAt.IsZero() {
		normalized.CreatedAt = now
	}
	normalized.UpdatedAt = now
	_, err = tx.ExecContext(ctx, upsertSessionSQL, normalized.ID, normalized.DocumentSampleID,
		questionIDs, annotationIDs, normalized.CreatedAt, normalized.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving session record: %w", err)
	}

	return nil
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var questionIDs, annotationIDs string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&session.ID, &session.DocumentSampleID,
		&questionIDs, &annotationIDs, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if err := json.Unmarshal([]byte(questionIDs), &session.QuestionIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling question ids: %w", err)
	}
	if err := json.Unmarshal([]byte(annotationIDs), &session.AnnotationIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling annotation ids: %w", err)
	}

	if createdAt.Valid {
		session.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		session.UpdatedAt = updatedAt.Time
	}

	return &session, nil
}
