package bitbucket

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

const (
	// DefaultBaseURL is the Bitbucket Cloud API root.
	DefaultBaseURL = "https://api.bitbucket.org/2.0"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxPages bounds the next-URL pagination walk per sub-query.
	maxPages = 5
)

// Client is a minimal Bitbucket Cloud 2.0 REST client.
type Client struct {
	http    *http.Client
	baseURL string
	creds   domain.Credentials
}

// NewClient creates a Bitbucket client.
func NewClient(baseURL string, creds domain.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// UpdatedTime unmarshals Bitbucket's updated_on timestamp.
type UpdatedTime struct {
	t time.Time
}

// UnmarshalJSON parses RFC3339 timestamps, tolerating failures since
// the date is display-only.
func (ut *UpdatedTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		ut.t = parsed
	}
	return nil
}

// Time returns the parsed time.
func (ut UpdatedTime) Time() time.Time { return ut.t }

// htmlLink is the self/html link wrapper Bitbucket nests everywhere.
type htmlLink struct {
	HTML struct {
		Href string `json:"href"`
	} `json:"html"`
}

// Repository is the subset of the repository payload the adapter maps.
type Repository struct {
	FullName    string      `json:"full_name"`
	Description string      `json:"description"`
	Language    string      `json:"language"`
	IsPrivate   bool        `json:"is_private"`
	UpdatedOn   UpdatedTime `json:"updated_on"`
	Links       htmlLink    `json:"links"`
}

// CodeHit is one entry of the workspace code search response.
type CodeHit struct {
	File struct {
		Path  string `json:"path"`
		Links htmlLink `json:"links"`
		Commit struct {
			Repository struct {
				FullName string `json:"full_name"`
			} `json:"repository"`
		} `json:"commit"`
	} `json:"file"`
	ContentMatches []struct {
		Lines []struct {
			Segments []struct {
				Text string `json:"text"`
			} `json:"segments"`
		} `json:"lines"`
	} `json:"content_matches"`
}

// Snippet flattens the first content match into one display line.
func (h CodeHit) Snippet() string {
	var b strings.Builder
	for _, match := range h.ContentMatches {
		for _, line := range match.Lines {
			for _, seg := range line.Segments {
				b.WriteString(seg.Text)
			}
			b.WriteString(" ")
		}
		break
	}
	return strings.TrimSpace(b.String())
}

// page is the common paginated envelope: values plus a next URL.
type page[T any] struct {
	Values []T    `json:"values"`
	Next   string `json:"next"`
}

// SearchRepositories lists workspace repositories whose name matches
// the query, following next-URL pagination up to the limit.
func (c *Client) SearchRepositories(
	ctx context.Context, workspace, query string, limit int,
) ([]Repository, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("name ~ %q", sanitise(query)))
	params.Set("pagelen", strconv.Itoa(limit))
	params.Set("sort", "-updated_on")

	endpoint := fmt.Sprintf("%s/repositories/%s?%s",
		c.baseURL, url.PathEscape(workspace), params.Encode())
	return collectPages[Repository](ctx, c, endpoint, limit)
}

// SearchCode runs a workspace code search.
func (c *Client) SearchCode(
	ctx context.Context, workspace, query string, limit int,
) ([]CodeHit, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("pagelen", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/workspaces/%s/search/code?%s",
		c.baseURL, url.PathEscape(workspace), params.Encode())
	return collectPages[CodeHit](ctx, c, endpoint, limit)
}

// CurrentUser checks the credentials against the user endpoint.
func (c *Client) CurrentUser(ctx context.Context) error {
	return c.get(ctx, c.baseURL+"/user", &struct{}{})
}

// collectPages walks the next-URL chain until the limit or page cap is
// reached.
func collectPages[T any](ctx context.Context, c *Client, endpoint string, limit int) ([]T, error) {
	var all []T
	next := endpoint

	for pages := 0; next != "" && pages < maxPages && len(all) < limit; pages++ {
		var p page[T]
		if err := c.get(ctx, next, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Values...)
		next = p.Next
	}

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// get issues an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, http.NoBody)
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
		return fmt.Errorf("bitbucket returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sanitise removes characters that would break out of a quoted BBQL
// string.
func sanitise(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, `\`, "")
	return s
}
