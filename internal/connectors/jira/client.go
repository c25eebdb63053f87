package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// jiraDateLayout is the timestamp format Jira Cloud returns.
const jiraDateLayout = "2006-01-02T15:04:05.000-0700"

// Client is a minimal Jira Cloud REST client scoped to search.
type Client struct {
	http    *http.Client
	baseURL string
	creds   domain.Credentials
}

// NewClient creates a Jira client for the given site.
func NewClient(baseURL string, creds domain.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// JiraTime unmarshals Jira's non-RFC3339 timestamp format.
type JiraTime struct {
	t time.Time
}

// UnmarshalJSON parses the Jira timestamp, tolerating RFC3339 too.
func (jt *JiraTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(jiraDateLayout, raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil // tolerate unknown formats, date is display-only
		}
	}
	jt.t = parsed
	return nil
}

// Time returns the parsed time.
func (jt JiraTime) Time() time.Time { return jt.t }

// Issue is the subset of the Jira issue payload the adapter maps.
type Issue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Updated     JiraTime `json:"updated"`
		Status      struct {
			Name string `json:"name"`
		} `json:"status"`
		Priority struct {
			Name string `json:"name"`
		} `json:"priority"`
		Project struct {
			Key string `json:"key"`
		} `json:"project"`
		Assignee struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

// searchResponse is the /rest/api/2/search response envelope.
type searchResponse struct {
	Issues []Issue `json:"issues"`
	Total  int     `json:"total"`
}

// SearchIssues runs a JQL query and returns up to limit issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, limit int) ([]Issue, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("fields", "summary,description,status,priority,project,assignee,updated")

	var resp searchResponse
	if err := c.get(ctx, "/rest/api/2/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Issues, nil
}

// Myself checks the credentials against the current-user endpoint.
func (c *Client) Myself(ctx context.Context) error {
	return c.get(ctx, "/rest/api/2/myself", &struct{}{})
}

// BrowseURL returns the deep link for an issue key.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// get issues an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.creds.BasicAuthHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrAuthInvalid
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("jira returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
