package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

func testDocuments() []domain.Document {
	return []domain.Document{
		{ID: "doc-1", Title: "Auth Guide", Content: "How to set up auth.", ContentType: domain.ContentTypeGuide},
		{ID: "doc-2", Title: "CLI Reference", Content: "Flags and commands.", ContentType: domain.ContentTypeReference},
	}
}

func completionJSON(t *testing.T, payload any) []byte {
	t.Helper()
	content, err := json.Marshal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": string(content)}, "finish_reason": "stop"},
		},
	})
	require.NoError(t, err)
	return body
}

func TestGenerator_Generate(t *testing.T) {
	var gotReq chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write(completionJSON(t, generatedPayload{
			Answerable:    []string{"How do I set up auth?", "  What flags exist?  "},
			NonAnswerable: []string{"What is the pricing?", ""},
		}))
	}))
	defer srv.Close()

	gen, err := NewGenerator(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), testDocuments(), driven.GenerateOptions{
		AnswerableCount:    2,
		NonAnswerableCount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"How do I set up auth?", "What flags exist?"}, out.Answerable)
	assert.Equal(t, []string{"What is the pricing?"}, out.NonAnswerable)

	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Auth Guide")
}

func TestGenerator_Generate_CapsOverDelivery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(completionJSON(t, generatedPayload{
			Answerable: []string{"q1", "q2", "q3", "q4"},
		}))
	}))
	defer srv.Close()

	gen, err := NewGenerator(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), testDocuments(), driven.GenerateOptions{AnswerableCount: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, out.Answerable)
	assert.Empty(t, out.NonAnswerable)
}

func TestGenerator_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	gen, err := NewGenerator(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), testDocuments(), driven.GenerateOptions{AnswerableCount: 1})
	require.ErrorIs(t, err, domain.ErrGenerationService)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerator_Generate_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "not json"}},
			},
		})
		w.Write(body)
	}))
	defer srv.Close()

	gen, err := NewGenerator(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), testDocuments(), driven.GenerateOptions{AnswerableCount: 1})
	require.ErrorIs(t, err, domain.ErrGenerationService)
}

func TestGenerator_Generate_NoDocuments(t *testing.T) {
	gen, err := NewGenerator(Config{APIKey: "sk-test"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), nil, driven.GenerateOptions{AnswerableCount: 1})
	require.ErrorIs(t, err, domain.ErrGenerationService)
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(Config{})
	require.Error(t, err)
}

func TestNewGenerator_Defaults(t *testing.T) {
	gen, err := NewGenerator(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gen.ModelName())
	assert.Equal(t, DefaultBaseURL, gen.baseURL)
}
