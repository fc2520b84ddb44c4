package driving

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// CreateSampleRequest describes a new stratified sample.
type CreateSampleRequest struct {
	// Name is the sample name. Empty means a name is generated.
	Name string

	// Description is an optional free-form note.
	Description string

	// Counts is the requested per-content-type distribution.
	Counts domain.Distribution
}

// SamplerService builds and manages document samples.
type SamplerService interface {
	// Create fetches the document pools, validates sufficiency, draws
	// a stratified sample and persists it. Requesting more documents
	// than a pool (or all pools combined) can provide fails with
	// domain.ErrInsufficientData before anything is written.
	Create(ctx context.Context, req CreateSampleRequest) (*domain.DocumentSample, error)

	// Get retrieves a sample by id.
	Get(ctx context.Context, id string) (*domain.DocumentSample, error)

	// List returns all samples.
	List(ctx context.Context) ([]domain.DocumentSample, error)

	// Delete removes a sample. References held by questions or
	// sessions are left orphaned; sessions over a deleted sample fail
	// to load.
	Delete(ctx context.Context, id string) error
}
