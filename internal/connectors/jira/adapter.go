// Package jira provides a source adapter for Jira Cloud issue search.
package jira

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

// Adapter searches Jira issues for one configured source.
type Adapter struct {
	sourceID string
	label    string
	project  string
	client   *Client
	scorer   driven.RelevanceScorer

	mu     sync.Mutex
	closed bool
}

// New creates a Jira adapter from a source configuration.
// Required config: base_url. Optional: project (default project key).
func New(source domain.Source, scorer driven.RelevanceScorer) (*Adapter, error) {
	baseURL := source.ConfigValue("base_url", "")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: jira source needs base_url", domain.ErrInvalidInput)
	}
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: jira source needs email and API token", domain.ErrAuthRequired)
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		project:  source.ConfigValue("project", ""),
		client:   NewClient(baseURL, source.Credentials),
		scorer:   scorer,
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "jira" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyIssueTracker }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search runs a JQL text search and maps the matching issues.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	project := req.Filters.Project
	if project == "" {
		project = a.project
	}
	jql := BuildJQL(req.Query, project, req.Filters)

	issues, err := a.client.SearchIssues(ctx, jql, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("jira search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(issues))
	for _, issue := range issues {
		results = append(results, a.mapIssue(req.Query, issue))
	}
	return results, nil
}

// mapIssue converts a Jira issue into the common result shape.
// Jira's search API returns no relevance ranking, so the score comes
// from the injected scorer over summary plus description.
func (a *Adapter) mapIssue(query string, issue Issue) domain.SearchResult {
	title := fmt.Sprintf("%s: %s", issue.Key, issue.Fields.Summary)
	content := snippet(issue.Fields.Description, 300)

	metadata := map[string]any{
		"key": issue.Key,
	}
	if issue.Fields.Status.Name != "" {
		metadata["status"] = issue.Fields.Status.Name
	}
	if issue.Fields.Priority.Name != "" {
		metadata["priority"] = issue.Fields.Priority.Name
	}
	if issue.Fields.Project.Key != "" {
		metadata["project"] = issue.Fields.Project.Key
	}

	return domain.SearchResult{
		ID:          a.sourceID + "-" + issue.Key,
		Title:       title,
		Content:     content,
		SourceType:  domain.FamilyIssueTracker,
		SourceLabel: a.label,
		Author:      issue.Fields.Assignee.DisplayName,
		Date:        issue.Fields.Updated.Time(),
		URL:         a.client.BrowseURL(issue.Key),
		Score:       a.scorer.Score(query, issue.Fields.Summary+" "+issue.Fields.Description),
		Metadata:    metadata,
	}
}

// Validate checks credentials with a lightweight myself call.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := a.client.Myself(ctx); err != nil {
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
		return fmt.Errorf("jira adapter closed")
	}
	return nil
}

// snippet truncates text to max runes for display.
func snippet(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
