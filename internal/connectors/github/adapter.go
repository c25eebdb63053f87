// Package github provides a source adapter for GitHub search. One
// query fans out into repository, issue, and code sub-queries.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	gh "github.com/google/go-github/v80/github"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// subQueryCount is the number of backend sub-queries per search
// (repositories, issues, code).
const subQueryCount = 3

// Adapter searches GitHub for one configured source.
type Adapter struct {
	sourceID string
	label    string
	client   *Client
	scorer   driven.RelevanceScorer

	mu     sync.Mutex
	closed bool
}

// New creates a GitHub adapter from a source configuration.
// Optional config: base_url (GitHub Enterprise), org (owner qualifier).
func New(source domain.Source, scorer driven.RelevanceScorer) (*Adapter, error) {
	if !source.Credentials.IsConfigured() {
		return nil, fmt.Errorf("%w: github source needs a personal access token", domain.ErrAuthRequired)
	}

	client, err := NewClient(source.Credentials.Token, source.ConfigValue("base_url", ""))
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}

	return &Adapter{
		sourceID: source.ID,
		label:    source.DisplayName(),
		client:   client,
		scorer:   scorer,
	}, nil
}

// Type returns the connector type identifier.
func (a *Adapter) Type() string { return "github" }

// Family returns the connector family.
func (a *Adapter) Family() domain.Family { return domain.FamilyCodeHost }

// SourceID returns the source identifier.
func (a *Adapter) SourceID() string { return a.sourceID }

// Label returns the configured source display name.
func (a *Adapter) Label() string { return a.label }

// Search fans out into repository, issue, and code sub-queries and
// returns whatever succeeded. Only when every sub-query fails does the
// adapter report an error.
func (a *Adapter) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}

	query := RewriteQuery(req.Query)
	budget := req.Limit / subQueryCount
	if budget < 1 {
		budget = 1
	}

	var results []domain.SearchResult
	var errs []error

	repos, err := a.client.SearchRepositories(ctx, query, budget)
	if err != nil {
		logger.Warn("GitHub repository search failed: %v", err)
		errs = append(errs, err)
	} else {
		for _, repo := range repos {
			results = append(results, a.mapRepository(req.Query, repo))
		}
	}

	issues, err := a.client.SearchIssues(ctx, query, budget)
	if err != nil {
		logger.Warn("GitHub issue search failed: %v", err)
		errs = append(errs, err)
	} else {
		for _, issue := range issues {
			results = append(results, a.mapIssue(req.Query, issue))
		}
	}

	code, err := a.client.SearchCode(ctx, query, budget)
	if err != nil {
		logger.Warn("GitHub code search failed: %v", err)
		errs = append(errs, err)
	} else {
		for _, hit := range code {
			results = append(results, a.mapCode(req.Query, hit))
		}
	}

	if len(errs) == subQueryCount {
		return nil, fmt.Errorf("github search: %w", errors.Join(errs...))
	}
	if len(results) > req.Limit {
		results = results[:req.Limit]
	}
	return results, nil
}

// mapRepository converts a repository hit into the common result shape.
func (a *Adapter) mapRepository(query string, repo *gh.Repository) domain.SearchResult {
	return domain.SearchResult{
		ID:          a.sourceID + "-repo-" + repo.GetFullName(),
		Title:       repo.GetFullName(),
		Content:     repo.GetDescription(),
		SourceType:  domain.FamilyCodeHost,
		SourceLabel: a.label,
		Author:      repo.GetOwner().GetLogin(),
		Date:        repo.GetUpdatedAt().Time,
		URL:         repo.GetHTMLURL(),
		Score:       a.scorer.Score(query, repo.GetFullName()+" "+repo.GetDescription()),
		Metadata: map[string]any{
			"kind":     "repository",
			"stars":    repo.GetStargazersCount(),
			"language": repo.GetLanguage(),
		},
	}
}

// mapIssue converts an issue hit into the common result shape.
func (a *Adapter) mapIssue(query string, issue *gh.Issue) domain.SearchResult {
	kind := "issue"
	if issue.IsPullRequest() {
		kind = "pull-request"
	}
	body := issue.GetBody()
	if len(body) > 300 {
		body = body[:300] + "…"
	}
	return domain.SearchResult{
		ID:          fmt.Sprintf("%s-%s-%d", a.sourceID, kind, issue.GetID()),
		Title:       issue.GetTitle(),
		Content:     body,
		SourceType:  domain.FamilyCodeHost,
		SourceLabel: a.label,
		Author:      issue.GetUser().GetLogin(),
		Date:        issue.GetUpdatedAt().Time,
		URL:         issue.GetHTMLURL(),
		Score:       a.scorer.Score(query, issue.GetTitle()+" "+issue.GetBody()),
		Metadata: map[string]any{
			"kind":     kind,
			"state":    issue.GetState(),
			"comments": issue.GetComments(),
		},
	}
}

// mapCode converts a code hit into the common result shape. Code search
// returns text-match fragments when requested; the first fragment
// serves as the snippet.
func (a *Adapter) mapCode(query string, hit *gh.CodeResult) domain.SearchResult {
	var fragment string
	if len(hit.TextMatches) > 0 {
		fragment = strings.TrimSpace(hit.TextMatches[0].GetFragment())
	}
	repoName := hit.GetRepository().GetFullName()

	return domain.SearchResult{
		ID:          a.sourceID + "-code-" + repoName + "/" + hit.GetPath(),
		Title:       hit.GetPath(),
		Content:     fragment,
		SourceType:  domain.FamilyCodeHost,
		SourceLabel: a.label,
		URL:         hit.GetHTMLURL(),
		Score:       a.scorer.Score(query, hit.GetPath()+" "+fragment),
		Metadata: map[string]any{
			"kind":       "code",
			"repository": repoName,
		},
	}
}

// Validate checks the token by fetching the authenticated user.
func (a *Adapter) Validate(ctx context.Context) error {
	if err := a.checkOpen(); err != nil {
		return err
	}
	if err := a.client.ValidateCredentials(ctx); err != nil {
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
		return fmt.Errorf("github adapter closed")
	}
	return nil
}
