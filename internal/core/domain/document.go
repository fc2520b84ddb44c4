package domain

// ContentType categorises a documentation page.
type ContentType string

// Recognised content types, in sampling pool order.
const (
	ContentTypeGuide           ContentType = "guide"
	ContentTypeReference       ContentType = "reference"
	ContentTypeTroubleshooting ContentType = "troubleshooting"
)

// IsValid returns true if the content type is recognised.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeGuide, ContentTypeReference, ContentTypeTroubleshooting:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c ContentType) String() string {
	return string(c)
}

// Document is a documentation page as copied into a sample.
// Documents are immutable once sampled: a sample holds copies, not
// references, so the same source page may exist as divergent copies
// across samples.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Content is the full text content.
	Content string `json:"content"`

	// ContentType categorises the document for stratified sampling.
	ContentType ContentType `json:"contentType"`

	// Metadata contains arbitrary key-value pairs from the source.
	Metadata map[string]any `json:"metadata"`
}

// DocumentCollection holds the full categorised document pools as
// returned by the document source in a single bulk fetch.
type DocumentCollection struct {
	Guides           []Document
	References       []Document
	Troubleshootings []Document
}

// Total returns the combined size of all pools.
func (c *DocumentCollection) Total() int {
	return len(c.Guides) + len(c.References) + len(c.Troubleshootings)
}

// PoolSize returns the size of the pool for the given content type.
func (c *DocumentCollection) PoolSize(t ContentType) int {
	switch t {
	case ContentTypeGuide:
		return len(c.Guides)
	case ContentTypeReference:
		return len(c.References)
	case ContentTypeTroubleshooting:
		return len(c.Troubleshootings)
	default:
		return 0
	}
}
