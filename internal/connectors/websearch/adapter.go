// Package websearch provides a source adapter for Google Programmable
// Search, with the company web policy applied to every result.
package websearch

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// maxPageSize is the Custom Search API's per-request ceiling.
const maxPageSize = 10

// PolicyProvider returns the web policy in force at search time.
// Looked up per call so settings edits apply without re-creating the
// adapter.
type PolicyProvider func() domain.WebPolicy

// Adapter searches the web through a Programmable Search Engine.
type Adapter struct {
	sourceID string
	label    string
	engineID string
	service  *customsearch.Service
	scorer   driven.RelevanceScorer
	policy   PolicyProvider
	limiter  *RateLimiter

	mu     sync.Mutex
	closed bool
}

// New creates a web search adapter from a source configuration.
// Required config: engine_id. The credential token is the API key.
func New(source domain.Source, scorer driven.RelevanceScorer, policy PolicyProvider) (*Adapter, error) {
	engineID := source.ConfigValue("engine_id", "")
	if engineID == "" {
		return nil, fmt.Errorf("%w: websearch source needs engine_id", domain.ErrInvalidInput)
	}
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: websearch source needs an API key", domain.ErrAuthRequired)
	}

	opts := []option.ClientOption{option.WithAPIKey(source.Credentials.Token)}
	if endpoint := source.ConfigValue("endpoint", ""); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	service, err := customsearch.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("customsearch service: %w", err)
	}

	if policy == nil {
		policy = func() domain.WebPolicy { return domain.DefaultAppSettings().WebPolicy }
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		engineID: engineID,
		service:  service,
		scorer:   scorer,
		policy:   policy,
		limiter:  NewRateLimiter(),
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "websearch" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyWeb }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search fetches raw web results and runs them through the policy
// filter. Filtering happens post-fetch, so a heavily filtered page may
// return fewer results than the budget allows.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	pageSize := req.Limit
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	resp, err := a.service.Cse.List().
		Q(req.Query).
		Cx(a.engineID).
		Num(int64(pageSize)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Items))
	for i, item := range resp.Items {
		results = append(results, a.mapItem(req.Query, i, item))
	}

	policy := a.policy()
	filtered := policy.Filter(results)
	if dropped := len(results) - len(filtered); dropped > 0 {
		logger.Debug("Web policy filtered %d of %d results", dropped, len(results))
	}
	return filtered, nil
}

// mapItem converts a search item into the common result shape. The
// position index keeps IDs unique when distinct pages share a URL.
func (a *Adapter) mapItem(query string, position int, item *customsearch.Result) domain.SearchResult {
	return domain.SearchResult{
		ID:          fmt.Sprintf("%s-web-%d", a.sourceID, position),
		Title:       item.Title,
		Content:     item.Snippet,
		SourceType:  domain.FamilyWeb,
		SourceLabel: a.label,
		URL:         item.Link,
		Score:       a.scorer.Score(query, item.Title+" "+item.Snippet),
		Metadata: map[string]any{
			"displayLink": item.DisplayLink,
		},
	}
}

// Validate issues a one-result probe query to check the key and engine.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := a.service.Cse.List().Q("connectivity probe").Cx(a.engineID).Num(1).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
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
		return fmt.Errorf("websearch adapter closed")
	}
	return nil
}
