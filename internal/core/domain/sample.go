package domain

import (
	"math/rand"
	"time"
)

// Distribution is the requested number of documents per content type.
type Distribution struct {
	Guide           int `json:"guide"`
	Reference       int `json:"reference"`
	Troubleshooting int `json:"troubleshooting"`
}

// Total returns the combined requested count.
func (d Distribution) Total() int {
	return d.Guide + d.Reference + d.Troubleshooting
}

// SamplingCriteria records how a sample was drawn.
type SamplingCriteria struct {
	// SampleSize is the total number of documents requested.
	SampleSize int `json:"sampleSize"`

	// ContentTypeDistribution is the requested per-type breakdown.
	ContentTypeDistribution Distribution `json:"contentTypeDistribution"`

	// AdditionalFilters carries optional source-side filters.
	AdditionalFilters map[string]any `json:"additionalFilters,omitempty"`
}

// DocumentSample is a named, fixed collection of documents drawn from
// the source pools under a stratified distribution. The documents are
// embedded copies taken at sampling time.
type DocumentSample struct {
	ID          string
	Name        string
	Description string
	Documents   []Document
	Criteria    SamplingCriteria
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StratifiedSample draws documents from each pool without replacement
// and concatenates the picks in fixed pool order: guides, references,
// troubleshootings. Each pool contributes min(requested, pool size)
// documents; a pool smaller than its request silently under-fills.
// Callers must validate sufficiency beforehand if under-filling is
// not acceptable.
func StratifiedSample(pools DocumentCollection, counts Distribution, rng *rand.Rand) []Document {
	result := make([]Document, 0, counts.Total())
	result = append(result, sampleFrom(pools.Guides, counts.Guide, rng)...)
	result = append(result, sampleFrom(pools.References, counts.Reference, rng)...)
	result = append(result, sampleFrom(pools.Troubleshootings, counts.Troubleshooting, rng)...)
	return result
}

// sampleFrom picks n distinct documents from pool by repeatedly
// drawing a uniformly random index until enough unused ones are found.
func sampleFrom(pool []Document, n int, rng *rand.Rand) []Document {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	want := n
	if len(pool) < want {
		want = len(pool)
	}
	picked := make([]Document, 0, want)
	used := make(map[int]struct{}, want)
	for len(picked) < want {
		idx := rng.Intn(len(pool))
		if _, ok := used[idx]; ok {
			continue
		}
		used[idx] = struct{}{}
		picked = append(picked, pool[idx])
	}
	return picked
}
