// Package bitbucket provides a source adapter for Bitbucket Cloud.
// One query fans out into repository and code sub-queries within a
// workspace.
package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter searches Bitbucket Cloud for one configured source.
type Adapter struct {
	sourceID  string
	label     string
	workspace string
	client    *Client
	scorer    driven.RelevanceScorer

	mu     sync.Mutex
	closed bool
}

// New creates a Bitbucket adapter from a source configuration.
// Required config: workspace. Auth is Basic with email and app password.
func New(source domain.Source, scorer driven.RelevanceScorer) (*Adapter, error) {
	workspace := source.ConfigValue("workspace", "")
	if workspace == "" {
		return nil, fmt.Errorf("%w: bitbucket source needs workspace", domain.ErrInvalidInput)
	}
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: bitbucket source needs email and app password", domain.ErrAuthRequired)
	}

	return &Adapter{
		sourceID:  source.ID,
		label:     source.DisplayName(),
		workspace: workspace,
		client:    NewClient(source.ConfigValue("base_url", DefaultBaseURL), source.Credentials),
		scorer:    scorer,
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "bitbucket" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyCodeHost }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search fans out into repository and code sub-queries and returns
// whatever succeeded.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	budget := req.Limit / 2
	if budget < 1 {
		budget = 1
	}

	var results []domain.SearchResult
	var errs []error

	repos, err := a.client.SearchRepositories(ctx, a.workspace, req.Query, budget)
	if err != nil {
		logger.Warn("Bitbucket repository search failed: %v", err)
		errs = append(errs, err)
	} else {
		for _, repo := range repos {
			results = append(results, a.mapRepository(req.Query, repo))
		}
	}

	code, err := a.client.SearchCode(ctx, a.workspace, req.Query, budget)
	if err != nil {
		logger.Warn("Bitbucket code search failed: %v", err)
		errs = append(errs, err)
	} else {
		for _, hit := range code {
			results = append(results, a.mapCode(req.Query, hit))
		}
	}

	if len(errs) == 2 {
		return nil, fmt.Errorf("bitbucket search: %w", errors.Join(errs...))
	}
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

// mapRepository converts a repository into the common result shape.
func (a *Adapter) mapRepository(query string, repo Repository) domain.SearchResult {
	return domain.SearchResult{
		ID:          a.sourceID + "-repo-" + repo.FullName,
		Title:       repo.FullName,
		Content:     repo.Description,
		SourceType:  domain.FamilyCodeHost,
		SourceLabel: a.label,
		Date:        repo.UpdatedOn.Time(),
		URL:         repo.Links.HTML.Href,
		Score:       a.scorer.Score(query, repo.FullName+" "+repo.Description),
		Metadata: map[string]any{
			"kind":     "repository",
			"language": repo.Language,
			"private":  repo.IsPrivate,
		},
	}
}

// mapCode converts a code hit into the common result shape.
func (a *Adapter) mapCode(query string, hit CodeHit) domain.SearchResult {
	path := hit.File.Path
	repoName := hit.File.Commit.Repository.FullName
	snippet := hit.Snippet()

	return domain.SearchResult{
		ID:          a.sourceID + "-code-" + repoName + "/" + path,
		Title:       path,
		Content:     snippet,
		SourceType:  domain.FamilyCodeHost,
		SourceLabel: a.label,
		URL:         hit.File.Links.HTML.Href,
		Score:       a.scorer.Score(query, path+" "+snippet),
		Metadata: map[string]any{
			"kind":       "code",
			"repository": repoName,
		},
	}
}

// Validate checks credentials against the current-user endpoint.
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
		return fmt.Errorf("bitbucket adapter closed")
	}
	return nil
}
