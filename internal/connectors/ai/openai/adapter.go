// Package openai provides an AI source adapter using the OpenAI chat
// completions API. The query is answered by the model and wrapped as a
// single search result.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// answerScore is the fixed relevance for model answers.
	answerScore = 0.9

	maxAnswerTokens = 1024
)

// systemPrompt steers the model towards a compact search-style answer.
const systemPrompt = "You are a search assistant. Answer the user's query concisely " +
	"and factually, in a few sentences. Do not ask follow-up questions."

// Adapter answers search queries with an OpenAI model.
type Adapter struct {
	sourceID string
	label    string
	baseURL  string
	apiKey   string
	model    string
	client   *http.Client

	mu     sync.Mutex
	closed bool
}

// New creates an OpenAI adapter from a source configuration.
// Optional config: model, base_url. The credential token is the API key.
func New(source domain.Source, _ driven.RelevanceScorer) (*Adapter, error) {
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: openai source needs an API key", domain.ErrAuthRequired)
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		baseURL:  strings.TrimRight(source.ConfigValue("base_url", DefaultBaseURL), "/"),
		apiKey:   source.Credentials.Token,
		model:    source.ConfigValue("model", DefaultModel),
		client:   &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "openai" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyAI }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// chatRequest is the /v1/chat/completions request format.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// chatMessage is the OpenAI message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the /v1/chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Search asks the model to answer the query and wraps the answer as a
// single result. Malformed response bodies degrade to raw-text
// extraction instead of failing.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	answer, err := a.ask(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("openai search: %w", err)
	}
	if answer == "" {
		return []domain.SearchResult{}, nil
	}

	return []domain.SearchResult{{
		ID:          a.sourceID + "-answer",
		Title:       "AI answer: " + truncate(req.Query, 60),
		Content:     answer,
		SourceType:  domain.FamilyAI,
		SourceLabel: a.label,
		Author:      a.model,
		Date:        time.Now(),
		Score:       answerScore,
		Metadata: map[string]any{
			"model": a.model,
		},
	}}, nil
}

// ask sends the query to the chat completions API and returns the
// answer text.
func (a *Adapter) ask(ctx context.Context, query string) (string, error) {
	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		MaxTokens: maxAnswerTokens,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", domain.ErrAuthInvalid
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		logger.Warn("OpenAI response decode failed, using raw text: %v", err)
		return strings.TrimSpace(string(body)), nil
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// Validate checks the API key against the models endpoint.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: openai returned status %d", domain.ErrAuthInvalid, resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

func (a *Adapter) checkOpen() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("openai adapter closed")
	}
	return nil
}

// truncate shortens text to max runes for display.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
