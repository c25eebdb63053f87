package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client with a static token. A
// non-empty baseURL points the client at a GitHub Enterprise instance.
func NewClient(token, baseURL string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout

	client := gh.NewClient(tc)
	if baseURL != "" {
		parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(),
	}, nil
}

// SearchRepositories runs a repository search.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]*gh.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	c.updateRateLimit(resp)
	return result.Repositories, nil
}

// SearchIssues runs an issue and pull request search.
func (c *Client) SearchIssues(ctx context.Context, query string, limit int) ([]*gh.Issue, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	result, resp, err := c.gh.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	c.updateRateLimit(resp)
	return result.Issues, nil
}

// SearchCode runs a code search with text-match fragments enabled.
func (c *Client) SearchCode(ctx context.Context, query string, limit int) ([]*gh.CodeResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{
		TextMatch:   true,
		ListOptions: gh.ListOptions{PerPage: limit},
	}
	result, resp, err := c.gh.Search.Code(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search code: %w", err)
	}
	c.updateRateLimit(resp)
	return result.CodeResults, nil
}

// ValidateCredentials checks the token by fetching the current user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	c.updateRateLimit(resp)
	return nil
}

// updateRateLimit feeds response headers into the rate limiter.
func (c *Client) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}
