package confluence

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

// Client is a minimal Confluence Cloud REST client scoped to search.
type Client struct {
	http    *http.Client
	baseURL string
	creds   domain.Credentials
}

// NewClient creates a Confluence client for the given site. The base
// URL is the site root; the /wiki prefix is added per request.
func NewClient(baseURL string, creds domain.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// ModifiedTime unmarshals the lastModified timestamp.
type ModifiedTime struct {
	t time.Time
}

// UnmarshalJSON parses RFC3339 timestamps, tolerating failures since
// the date is display-only.
func (mt *ModifiedTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		mt.t = parsed
	}
	return nil
}

// Time returns the parsed time.
func (mt ModifiedTime) Time() time.Time { return mt.t }

// SearchHit is one entry of the /wiki/rest/api/search response.
type SearchHit struct {
	Content struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	} `json:"content"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Excerpt      string       `json:"excerpt"`
	URL          string       `json:"url"`
	LastModified ModifiedTime `json:"lastModified"`
}

// searchResponse is the search response envelope.
type searchResponse struct {
	Results []SearchHit `json:"results"`
}

// Search runs a CQL query and returns up to limit hits.
func (c *Client) Search(ctx context.Context, cql string, limit int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("cql", cql)
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.get(ctx, "/wiki/rest/api/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// CurrentUser checks the credentials against the current-user endpoint.
func (c *Client) CurrentUser(ctx context.Context) error {
	return c.get(ctx, "/wiki/rest/api/user/current", &struct{}{})
}

// PageURL turns the relative URL from a search hit into a deep link.
func (c *Client) PageURL(relative string) string {
	if relative == "" {
		return ""
	}
	if strings.HasPrefix(relative, "http") {
		return relative
	}
	return c.baseURL + "/wiki" + relative
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
		return fmt.Errorf("confluence returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
