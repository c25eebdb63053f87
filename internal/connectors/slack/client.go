package slack

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
	// DefaultBaseURL is the Slack Web API root.
	DefaultBaseURL = "https://slack.com/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client is a minimal Slack Web API client scoped to search.
type Client struct {
	http    *http.Client
	baseURL string
	creds   domain.Credentials
}

// NewClient creates a Slack client.
func NewClient(baseURL string, creds domain.Credentials) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// MessageMatch is one entry of the search.messages response.
type MessageMatch struct {
	TS        string `json:"ts"`
	Text      string `json:"text"`
	Username  string `json:"username"`
	Permalink string `json:"permalink"`
	Channel   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

// searchResponse is the search.messages response envelope. Slack
// reports failure in-band with ok=false plus an error code.
type searchResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages struct {
		Matches []MessageMatch `json:"matches"`
	} `json:"messages"`
}

// authTestResponse is the auth.test response envelope.
type authTestResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// SearchMessages runs a message search and returns up to count matches.
func (c *Client) SearchMessages(ctx context.Context, query string, count int) ([]MessageMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("count", strconv.Itoa(count))

	var resp searchResponse
	if err := c.get(ctx, "/search.messages?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, apiError(resp.Error)
	}
	return resp.Messages.Matches, nil
}

// AuthTest checks the token with the auth.test endpoint.
func (c *Client) AuthTest(ctx context.Context) error {
	var resp authTestResponse
	if err := c.get(ctx, "/auth.test", &resp); err != nil {
		return err
	}
	if !resp.OK {
		return apiError(resp.Error)
	}
	return nil
}

// apiError maps Slack's in-band error codes onto domain errors.
func apiError(code string) error {
	switch code {
	case "invalid_auth", "not_authed", "token_revoked", "token_expired":
		return domain.ErrAuthInvalid
	case "ratelimited", "rate_limited":
		return domain.ErrRateLimited
	default:
		return fmt.Errorf("slack api error: %s", code)
	}
}

// get issues an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.creds.BearerAuthHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
