package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
	"github.com/charislam/metrick/internal/logger"
)

// Ensure SamplerService implements the interface.
var _ driving.SamplerService = (*SamplerService)(nil)

// SamplerService builds stratified document samples from the remote
// document source.
type SamplerService struct {
	samples       driven.SampleStore
	source        driven.DocumentSource
	invalidations *Invalidations
	rng           *rand.Rand
}

// NewSamplerService creates a new sampler service.
func NewSamplerService(samples driven.SampleStore, source driven.DocumentSource, invalidations *Invalidations) *SamplerService {
	return &SamplerService{
		samples:       samples,
		source:        source,
		invalidations: invalidations,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create fetches the document pools, validates sufficiency, draws a
// stratified sample and persists it. No partial sample is ever
// written: sufficiency is checked before sampling.
func (s *SamplerService) Create(ctx context.Context, req driving.CreateSampleRequest) (*domain.DocumentSample, error) {
	if req.Counts.Total() <= 0 {
		return nil, fmt.Errorf("%w: sample size must be positive", domain.ErrInvalidInput)
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no document source configured", domain.ErrInvalidInput)
	}

	pools, err := s.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching documents: %w", err)
	}

	if err := checkSufficiency(pools, req.Counts); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = randomSampleName(s.rng)
	}

	sample := &domain.DocumentSample{
		ID:          uuid.NewString(),
		Name:        name,
		Description: req.Description,
		Documents:   domain.StratifiedSample(*pools, req.Counts, s.rng),
		Criteria: domain.SamplingCriteria{
			SampleSize:              req.Counts.Total(),
			ContentTypeDistribution: req.Counts,
		},
	}

	if err := s.samples.Save(ctx, sample); err != nil {
		return nil, fmt.Errorf("saving sample: %w", err)
	}

	logger.Info("created sample %s (%d documents)", sample.ID, len(sample.Documents))
	s.invalidations.Invalidate(KindSample, sample.ID)

	return sample, nil
}

// checkSufficiency rejects a request that exceeds the combined pools
// or any single content-type pool.
func checkSufficiency(pools *domain.DocumentCollection, counts domain.Distribution) error {
	if counts.Total() > pools.Total() {
		return fmt.Errorf("%w: requested %d documents but only %d available",
			domain.ErrInsufficientData, counts.Total(), pools.Total())
	}

	perType := []struct {
		contentType domain.ContentType
		requested   int
	}{
		{domain.ContentTypeGuide, counts.Guide},
		{domain.ContentTypeReference, counts.Reference},
		{domain.ContentTypeTroubleshooting, counts.Troubleshooting},
	}
	for _, p := range perType {
		if available := pools.PoolSize(p.contentType); p.requested > available {
			return fmt.Errorf("%w: requested %d %s documents but only %d available",
				domain.ErrInsufficientData, p.requested, p.contentType, available)
		}
	}

	return nil
}

// Get retrieves a sample by id.
func (s *SamplerService) Get(ctx context.Context, id string) (*domain.DocumentSample, error) {
	return s.samples.Get(ctx, id)
}

// List returns all samples.
func (s *SamplerService) List(ctx context.Context) ([]domain.DocumentSample, error) {
	return s.samples.List(ctx)
}

// Delete removes a sample. Questions and sessions that reference it
// are left orphaned.
func (s *SamplerService) Delete(ctx context.Context, id string) error {
	if err := s.samples.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidations.Invalidate(KindSample, id)
	return nil
}
