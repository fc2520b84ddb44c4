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

// sampleStore implements driven.SampleStore.
type sampleStore struct {
	store *Store
}

var _ driven.SampleStore = (*sampleStore)(nil)

// Save stores or updates a document sample. The embedded documents
// are serialised into the row: samples hold copies, not references.
func (s *sampleStore) Save(ctx context.Context, sample *domain.DocumentSample) error {
	documentsJSON, err := marshalJSON(sample.Documents)
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}
	criteriaJSON, err := marshalJSON(sample.Criteria)
	if err != nil {
		return fmt.Errorf("marshalling criteria: %w", err)
	}

	now := time.Now().UTC()
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = now
	}
	sample.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO document_samples (id, name, description, documents, criteria, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			documents = excluded.documents,
			criteria = excluded.criteria,
			updated_at = excluded.updated_at
	`, sample.ID, sample.Name, sample.Description, documentsJSON, criteriaJSON,
		sample.CreatedAt, sample.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document sample: %w", err)
	}
	return nil
}

// Get retrieves a sample by ID.
func (s *sampleStore) Get(ctx context.Context, id string) (*domain.DocumentSample, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, documents, criteria, created_at, updated_at
		FROM document_samples WHERE id = ?
	`, id)

	sample, err := scanSample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return sample, nil
}

// Delete removes a sample. Questions and sessions referencing it are
// left orphaned; sessions over a deleted sample fail to denormalise.
func (s *sampleStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM document_samples WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document sample: %w", err)
	}
	return nil
}

// List returns all samples.
func (s *sampleStore) List(ctx context.Context) ([]domain.DocumentSample, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description, documents, criteria, created_at, updated_at
		FROM document_samples
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying document samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.DocumentSample //nolint:prealloc // size unknown from query
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document samples: %w", err)
	}

	return samples, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*domain.DocumentSample, error) {
	var sample domain.DocumentSample
	var documentsJSON, criteriaJSON string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&sample.ID, &sample.Name, &sample.Description,
		&documentsJSON, &criteriaJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document sample: %w", err)
	}

	if err := json.Unmarshal([]byte(documentsJSON), &sample.Documents); err != nil {
		return nil, fmt.Errorf("unmarshaling documents: %w", err)
	}
	if err := json.Unmarshal([]byte(criteriaJSON), &sample.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshaling criteria: %w", err)
	}

	if createdAt.Valid {
		sample.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		sample.UpdatedAt = updatedAt.Time
	}

	return &sample, nil
}
