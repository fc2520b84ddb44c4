// Package rest provides a document source adapter for a REST
// documentation endpoint that filters by content type.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the REST document source.
type Config struct {
	// BaseURL is the endpoint serving documents (required). The source
	// queries <BaseURL>/documents?contentType=<type>.
	BaseURL string

	// APIKey is an optional bearer token.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Source fetches categorised document pools over HTTP. The three
// content-type pools are fetched concurrently in one bulk operation.
type Source struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// documentRow is the wire format of one document record.
type documentRow struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	ContentType string         `json:"contentType"`
	Metadata    map[string]any `json:"metadata"`
}

// NewSource creates a new REST document source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("rest: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Source{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// FetchAll fetches every document grouped by content type. The pools
// are fetched in parallel; any failed fetch fails the whole call.
func (s *Source) FetchAll(ctx context.Context) (*domain.DocumentCollection, error) {
	var collection domain.DocumentCollection

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.fetchType(ctx, domain.ContentTypeGuide)
		collection.Guides = docs
		return err
	})
	g.Go(func() error {
		docs, err := s.fetchType(ctx, domain.ContentTypeReference)
		collection.References = docs
		return err
	})
	g.Go(func() error {
		docs, err := s.fetchType(ctx, domain.ContentTypeTroubleshooting)
		collection.Troubleshootings = docs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &collection, nil
}

// fetchType fetches one content-type pool.
func (s *Source) fetchType(ctx context.Context, contentType domain.ContentType) ([]domain.Document, error) {
	endpoint := fmt.Sprintf("%s/documents?contentType=%s", s.baseURL, url.QueryEscape(contentType.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("rest: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: fetch %s documents: %w", contentType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rest: fetch %s documents: status %d: %s", contentType, resp.StatusCode, string(body))
	}

	var rows []documentRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("rest: decode %s documents: %w", contentType, err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, domain.Document{
			ID:          row.ID,
			Title:       row.Title,
			Content:     row.Content,
			ContentType: contentType,
			Metadata:    row.Metadata,
		})
	}
	return docs, nil
}
