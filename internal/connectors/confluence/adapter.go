// Package confluence provides a source adapter for Confluence Cloud
// page search via CQL.
package confluence

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter searches Confluence pages for one configured source.
type Adapter struct {
	sourceID string
	label    string
	space    string
	client   *Client
	scorer   driven.RelevanceScorer

	mu     sync.Mutex
	closed bool
}

// New creates a Confluence adapter from a source configuration.
// Required config: base_url. Optional: space (space key restriction).
func New(source domain.Source, scorer driven.RelevanceScorer) (*Adapter, error) {
	baseURL := source.ConfigValue("base_url", "")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: confluence source needs base_url", domain.ErrInvalidInput)
	}
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: confluence source needs email and API token", domain.ErrAuthRequired)
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		space:    source.ConfigValue("space", ""),
		client:   NewClient(baseURL, source.Credentials),
		scorer:   scorer,
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "confluence" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyWiki }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search runs a CQL text search over pages and blog posts.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	cql := BuildCQL(req.Query, a.space, req.Filters)
	hits, err := a.client.Search(ctx, cql, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("confluence search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, a.mapHit(req.Query, hit))
	}
	return results, nil
}

// mapHit converts a search hit into the common result shape. The
// excerpt comes back with @@@hl@@@ highlight markers that are stripped
// before display and scoring.
func (a *Adapter) mapHit(query string, hit SearchHit) domain.SearchResult {
	content := stripHighlights(hit.Excerpt)

	metadata := map[string]any{
		"type": hit.Content.Type,
	}
	if hit.Space.Key != "" {
		metadata["space"] = hit.Space.Key
	}

	return domain.SearchResult{
		ID:          a.sourceID + "-" + hit.Content.ID,
		Title:       hit.Content.Title,
		Content:     content,
		SourceType:  domain.FamilyWiki,
		SourceLabel: a.label,
		Date:        hit.LastModified.Time(),
		URL:         a.client.PageURL(hit.URL),
		Score:       a.scorer.Score(query, hit.Content.Title+" "+content),
		Metadata:    metadata,
	}
}

// Validate checks credentials with a lightweight current-user call.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := a.client.CurrentUser(ctx); err != nil {
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
		return fmt.Errorf("confluence adapter closed")
	}
	return nil
}

// stripHighlights removes Confluence's @@@hl@@@ / @@@endhl@@@ markers.
func stripHighlights(s string) string {
	s = strings.ReplaceAll(s, "@@@hl@@@", "")
	s = strings.ReplaceAll(s, "@@@endhl@@@", "")
	return strings.TrimSpace(s)
}
