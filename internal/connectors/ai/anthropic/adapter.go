// Package anthropic provides an AI source adapter using the Anthropic
// Messages API. The query is answered by the model and wrapped as a
// single search result.
package anthropic

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
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// answerScore is the fixed relevance for model answers. The model
	// answered this exact query, so the answer ranks near the top
	// without outranking exact backend matches scored at 1.0.
	answerScore = 0.9

	maxAnswerTokens = 1024
)

// systemPrompt steers the model towards a compact search-style answer.
const systemPrompt = "You are a search assistant. Answer the user's query concisely " +
	"and factually, in a few sentences. Do not ask follow-up questions."

// Adapter answers search queries with an Anthropic model.
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

// New creates an Anthropic adapter from a source configuration.
// Optional config: model, base_url. The credential token is the API key.
func New(source domain.Source, _ driven.RelevanceScorer) (*Adapter, error) {
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: anthropic source needs an API key", domain.ErrAuthRequired)
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
func (a *Adapter) Type() string { return "anthropic" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyAI }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
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
		return nil, fmt.Errorf("anthropic search: %w", err)
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

// ask sends the query to the Messages API and returns the answer text.
func (a *Adapter) ask(ctx context.Context, query string) (string, error) {
	reqBody := messagesRequest{
		Model:     a.model,
		Messages:  []messagesMessage{{Role: "user", Content: query}},
		MaxTokens: maxAnswerTokens,
		System:    systemPrompt,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		return "", fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, string(body))
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		// Lenient fallback: a 200 with an undecodable body still
		// carried an answer of some form. Surface the raw text rather
		// than failing the whole search.
		logger.Warn("Anthropic response decode failed, using raw text: %v", err)
		return strings.TrimSpace(string(body)), nil
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	var sb strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Validate checks the API key against the models endpoint. Lightweight,
// no inference run.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: anthropic returned status %d", domain.ErrAuthInvalid, resp.StatusCode)
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
		return fmt.Errorf("anthropic adapter closed")
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
