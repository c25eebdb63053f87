package confluence

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
		ID:          "src-wiki",
		Type:        "confluence",
		Name:        "Acme Wiki",
		Config:      map[string]string{"base_url": baseURL, "space": "ENG"},
		Credentials: domain.Credentials{Username: "dev@acme.io", Token: "tok"},
	}
}

const searchPayload = `{
	"results": [{
		"content": {"id": "12345", "type": "page", "title": "Payment gateway runbook"},
		"space": {"key": "ENG"},
		"excerpt": "How the @@@hl@@@payment gateway@@@endhl@@@ is deployed",
		"url": "/spaces/ENG/pages/12345",
		"lastModified": "2024-03-01T10:00:00Z"
	}]
}`

func TestAdapter_Search(t *testing.T) {
	var gotCQL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wiki/rest/api/search", r.URL.Path)
		gotCQL = r.URL.Query().Get("cql")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	adapter, err := New(testSource(server.URL), relevance.NewScorer())
	require.NoError(t, err)
	defer adapter.Close() //nolint:errcheck

	results, err := adapter.Search(context.Background(), driven.SearchRequest{
		Query: "payment gateway",
		Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "src-wiki-12345", r.ID)
	assert.Equal(t, "Payment gateway runbook", r.Title)
	assert.Equal(t, "How the payment gateway is deployed", r.Content)
	assert.Equal(t, domain.FamilyWiki, r.SourceType)
	assert.Equal(t, server.URL+"/wiki/spaces/ENG/pages/12345", r.URL)
	assert.Greater(t, r.Score, 0.5)
	assert.Equal(t, "ENG", r.Metadata["space"])

	assert.Contains(t, gotCQL, `text ~ "payment gateway"`)
	assert.Contains(t, gotCQL, `space = "ENG"`)
}

func TestAdapter_ValidateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter, err := New(testSource(server.URL), relevance.NewScorer())
	require.NoError(t, err)

	assert.ErrorIs(t, adapter.Validate(context.Background()), domain.ErrAuthInvalid)
}

func TestBuildCQL(t *testing.T) {
	got := BuildCQL("payment gateway", "", domain.SearchFilters{})
	assert.Equal(t, `text ~ "payment gateway" AND type in ("page","blogpost")`, got)

	got = BuildCQL(`evil" quotes`, "ENG", domain.SearchFilters{})
	assert.Equal(t, `text ~ "evil quotes" AND type in ("page","blogpost") AND space = "ENG"`, got)
}

func TestNew_MissingBaseURL(t *testing.T) {
	_, err := New(domain.Source{
		ID:          "x",
		Credentials: domain.Credentials{Username: "a", Token: "b"},
	}, relevance.NewScorer())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
