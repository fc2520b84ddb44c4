package driven

import (
	"context"

	"github.com/charislam/metrick/internal/core/domain"
)

// DocumentSource fetches the categorised document pools from the
// remote documentation store. It is called only when building a new
// sample; sampled documents are copied into the sample and never
// re-fetched.
type DocumentSource interface {
	// FetchAll performs a bulk categorised fetch of every available
	// document, grouped by content type.
	FetchAll(ctx context.Context) (*domain.DocumentCollection, error)
}
