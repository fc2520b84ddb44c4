package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charislam/metrick/internal/core/domain"
)

func newDocServer(t *testing.T, perType map[string][]documentRow) (*httptest.Server, *[]string) {
	t.Helper()

	var mu sync.Mutex
	var requested []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents", r.URL.Path)
		contentType := r.URL.Query().Get("contentType")

		mu.Lock()
		requested = append(requested, contentType)
		mu.Unlock()

		rows, ok := perType[contentType]
		if !ok {
			rows = []documentRow{}
		}
		json.NewEncoder(w).Encode(rows)
	}))
	t.Cleanup(srv.Close)
	return srv, &requested
}

func TestSource_FetchAll(t *testing.T) {
	srv, requested := newDocServer(t, map[string][]documentRow{
		"guide": {
			{ID: "g-1", Title: "Getting Started", Content: "intro", ContentType: "guide"},
			{ID: "g-2", Title: "Auth", Content: "auth", ContentType: "guide", Metadata: map[string]any{"section": "security"}},
		},
		"reference": {
			{ID: "r-1", Title: "CLI", Content: "flags", ContentType: "reference"},
		},
	})

	source, err := NewSource(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	pools, err := source.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, pools.Guides, 2)
	require.Len(t, pools.References, 1)
	assert.Empty(t, pools.Troubleshootings)
	assert.Equal(t, 3, pools.Total())

	assert.Equal(t, "g-1", pools.Guides[0].ID)
	assert.Equal(t, domain.ContentTypeGuide, pools.Guides[0].ContentType)
	assert.Equal(t, "security", pools.Guides[1].Metadata["section"])

	// One request per content type.
	assert.ElementsMatch(t, []string{"guide", "reference", "troubleshooting"}, *requested)
}

func TestSource_FetchAll_SendsAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]documentRow{})
	}))
	defer srv.Close()

	source, err := NewSource(Config{BaseURL: srv.URL, APIKey: "token-123"})
	require.NoError(t, err)

	_, err = source.FetchAll(context.Background())
	require.NoError(t, err)
}

func TestSource_FetchAll_FailsOnAnyPool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("contentType") == "reference" {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]documentRow{})
	}))
	defer srv.Close()

	source, err := NewSource(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = source.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference")
	assert.Contains(t, err.Error(), fmt.Sprint(http.StatusBadGateway))
}

func TestNewSource_RequiresBaseURL(t *testing.T) {
	_, err := NewSource(Config{})
	require.Error(t, err)
}
