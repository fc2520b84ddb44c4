package memory

import (
	"context"
	"sort"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// sampleStore implements driven.SampleStore.
type sampleStore struct {
	store *Store
}

var _ driven.SampleStore = (*sampleStore)(nil)

// Save stores or updates a sample.
func (s *sampleStore) Save(_ context.Context, sample *domain.DocumentSample) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	stamp(&sample.CreatedAt, &sample.UpdatedAt)
	s.store.samples[sample.ID] = *sample
	return nil
}

// Get retrieves a sample by ID.
func (s *sampleStore) Get(_ context.Context, id string) (*domain.DocumentSample, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	sample, ok := s.store.samples[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sample, nil
}

// List returns all samples ordered by creation time.
func (s *sampleStore) List(_ context.Context) ([]domain.DocumentSample, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	samples := make([]domain.DocumentSample, 0, len(s.store.samples))
	for _, sample := range s.store.samples {
		samples = append(samples, sample)
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.Before(samples[j].CreatedAt)
	})
	return samples, nil
}

// Delete removes a sample. No cascade.
func (s *sampleStore) Delete(_ context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	delete(s.store.samples, id)
	return nil
}
