package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/relevance"
)

func testSource(baseURL string) domain.Source {
	return domain.Source{
		ID:          "src-gh",
		Type:        "github",
		Name:        "GitHub",
		Config:      map[string]string{"base_url": baseURL},
		Credentials: domain.Credentials{Token: "ghp_token"},
	}
}

const (
	reposPayload = `{"total_count": 1, "items": [{
		"full_name": "acme/payments",
		"description": "Payment gateway service",
		"html_url": "https://github.com/acme/payments",
		"stargazers_count": 42,
		"language": "Go",
		"owner": {"login": "acme"}
	}]}`

	issuesPayload = `{"total_count": 1, "items": [{
		"id": 7001,
		"title": "Gateway timeout under load",
		"body": "The payment gateway times out when concurrency exceeds 100",
		"state": "open",
		"comments": 3,
		"html_url": "https://github.com/acme/payments/issues/17",
		"user": {"login": "dev1"}
	}]}`

	codePayload = `{"total_count": 1, "items": [{
		"path": "internal/gateway/client.go",
		"html_url": "https://github.com/acme/payments/blob/main/internal/gateway/client.go",
		"repository": {"full_name": "acme/payments"},
		"text_matches": [{"fragment": "func dialGateway(ctx context.Context)"}]
	}]}`
)

func newSearchServer(t *testing.T, repoStatus, issueStatus, codeStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(status int, payload string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			if status != http.StatusOK {
				w.WriteHeader(status)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		}
	}
	mux.HandleFunc("/search/repositories", serve(repoStatus, reposPayload))
	mux.HandleFunc("/search/issues", serve(issueStatus, issuesPayload))
	mux.HandleFunc("/search/code", serve(codeStatus, codePayload))
	return httptest.NewServer(mux)
}

func TestAdapter_Search(t *testing.T) {
	server := newSearchServer(t, http.StatusOK, http.StatusOK, http.StatusOK)
	defer server.Close()

	adapter, err := New(testSource(server.URL), relevance.NewScorer())
	require.NoError(t, err)
	defer adapter.Close() //nolint:errcheck

	results, err := adapter.Search(context.Background(), driven.SearchRequest{
		Query: "payment gateway",
		Limit: 9,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	kinds := make(map[string]domain.SearchResult)
	for _, r := range results {
		assert.Equal(t, domain.FamilyCodeHost, r.SourceType)
		assert.NotEmpty(t, r.ID)
		kinds[r.Metadata["kind"].(string)] = r
	}

	repo := kinds["repository"]
	assert.Equal(t, "acme/payments", repo.Title)
	assert.Equal(t, 42, repo.Metadata["stars"])

	issue := kinds["issue"]
	assert.Equal(t, "Gateway timeout under load", issue.Title)
	assert.Equal(t, "dev1", issue.Author)

	code := kinds["code"]
	assert.Equal(t, "internal/gateway/client.go", code.Title)
	assert.Contains(t, code.Content, "dialGateway")
}

// TestAdapter_PartialSubQueryFailure tests that one failing sub-query
// does not cost the others their results.
func TestAdapter_PartialSubQueryFailure(t *testing.T) {
	server := newSearchServer(t, http.StatusOK, http.StatusInternalServerError, http.StatusOK)
	defer server.Close()

	adapter, err := New(testSource(server.URL), relevance.NewScorer())
	require.NoError(t, err)

	results, err := adapter.Search(context.Background(), driven.SearchRequest{Query: "q", Limit: 9})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

// TestAdapter_AllSubQueriesFailing tests that total failure surfaces
// an error to the dispatcher.
func TestAdapter_AllSubQueriesFailing(t *testing.T) {
	server := newSearchServer(t,
		http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError)
	defer server.Close()

	adapter, err := New(testSource(server.URL), relevance.NewScorer())
	require.NoError(t, err)

	_, err = adapter.Search(context.Background(), driven.SearchRequest{Query: "q", Limit: 9})
	assert.Error(t, err)
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(domain.Source{ID: "x", Type: "github"}, relevance.NewScorer())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my repos", "user:@me"},
		{"Show me my repos", "user:@me"},
		{"my repositories with go", "with go user:@me"},
		{"payment gateway", "payment gateway"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RewriteQuery(tt.in), "query %q", tt.in)
	}
}
