// Package openai provides a question generator using the OpenAI API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.QuestionGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// defaultRequestsPerMinute throttles generation calls so bulk
	// question generation stays inside API rate limits.
	defaultRequestsPerMinute = 20
)

// Config holds configuration for the OpenAI question generator.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Generator produces candidate annotation questions from sampled
// documents using the OpenAI chat completions API.
type Generator struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat requests structured JSON output.
type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// generatedPayload is the JSON object the model is instructed to emit.
type generatedPayload struct {
	Answerable    []string `json:"answerable"`
	NonAnswerable []string `json:"nonAnswerable"`
}

// NewGenerator creates a new OpenAI question generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Generator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/defaultRequestsPerMinute), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

const systemPrompt = `You write evaluation questions for a documentation relevance study.
Given a set of documentation pages, produce two lists of questions:
- "answerable": questions the provided pages can answer
- "nonAnswerable": plausible questions about the same product that the provided pages cannot answer

Respond with a single JSON object of the form:
{"answerable": ["..."], "nonAnswerable": ["..."]}
Return nothing but the JSON object.`

// Generate asks the model for questions about the given documents.
// Failures wrap domain.ErrGenerationService so callers can
// distinguish generation outages from their own input errors.
func (g *Generator) Generate(ctx context.Context, documents []domain.Document, opts driven.GenerateOptions) (*driven.GeneratedQuestions, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: no documents to generate from", domain.ErrGenerationService)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}

	reqBody := chatCompletionRequest{
		Model: g.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(documents, opts)},
		},
		Temperature:    0.7,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", domain.ErrGenerationService, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrGenerationService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", domain.ErrGenerationService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGenerationService, err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGenerationService, err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGenerationService, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGenerationService, resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no response choices returned", domain.ErrGenerationService)
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed question payload: %v", domain.ErrGenerationService, err)
	}

	return &driven.GeneratedQuestions{
		Answerable:    trimAll(payload.Answerable, opts.AnswerableCount),
		NonAnswerable: trimAll(payload.NonAnswerable, opts.NonAnswerableCount),
	}, nil
}

// userPrompt assembles the document digest and the requested counts.
func userPrompt(documents []domain.Document, opts driven.GenerateOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d answerable and %d non-answerable questions for these %d pages.\n\n",
		opts.AnswerableCount, opts.NonAnswerableCount, len(documents))
	for _, doc := range documents {
		fmt.Fprintf(&b, "## %s (%s)\n%s\n\n", doc.Title, doc.ContentType, doc.Content)
	}
	return b.String()
}

// trimAll trims whitespace, drops empty entries and caps the list at
// the requested count. Models occasionally over-deliver.
func trimAll(questions []string, limit int) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}
