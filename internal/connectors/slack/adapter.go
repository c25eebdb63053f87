// Package slack provides a source adapter for Slack message search.
package slack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter searches Slack messages for one configured source.
type Adapter struct {
	sourceID string
	label    string
	client   *Client
	scorer   driven.RelevanceScorer

	mu     sync.Mutex
	closed bool
}

// New creates a Slack adapter from a source configuration. Auth is a
// Bearer user token with the search:read scope.
func New(source domain.Source, scorer driven.RelevanceScorer) (*Adapter, error) {
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: slack source needs a user token", domain.ErrAuthRequired)
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		client:   NewClient(source.ConfigValue("base_url", DefaultBaseURL), source.Credentials),
		scorer:   scorer,
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "slack" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyChat }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search runs a message search and maps the matches.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	query := req.Query
	if !req.Filters.Since.IsZero() {
		query += " after:" + req.Filters.Since.Format("2006-01-02")
	}
	if !req.Filters.Until.IsZero() {
		query += " before:" + req.Filters.Until.Format("2006-01-02")
	}

	matches, err := a.client.SearchMessages(ctx, query, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("slack search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, a.mapMessage(req.Query, match))
	}
	return results, nil
}

// mapMessage converts a message match into the common result shape.
// Slack timestamps are "epoch.sequence" strings; the epoch part is the
// message time and, with the channel, makes the ID unique.
func (a *Adapter) mapMessage(query string, match MessageMatch) domain.SearchResult {
	title := match.Text
	if len(title) > 80 {
		title = title[:80] + "…"
	}
	title = fmt.Sprintf("#%s: %s", match.Channel.Name, strings.TrimSpace(title))

	return domain.SearchResult{
		ID:          a.sourceID + "-" + match.Channel.ID + "-" + match.TS,
		Title:       title,
		Content:     match.Text,
		SourceType:  domain.FamilyChat,
		SourceLabel: a.label,
		Author:      match.Username,
		Date:        parseSlackTS(match.TS),
		URL:         match.Permalink,
		Score:       a.scorer.Score(query, match.Text),
		Metadata: map[string]any{
			"channel": match.Channel.Name,
		},
	}
}

// Validate checks the token with an auth.test call.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := a.client.AuthTest(ctx); err != nil {
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
		return fmt.Errorf("slack adapter closed")
	}
	return nil
}

// parseSlackTS converts an "epoch.sequence" timestamp string.
func parseSlackTS(ts string) time.Time {
	seconds, _, _ := strings.Cut(ts, ".")
	epoch, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0)
}
