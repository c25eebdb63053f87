package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

func testSource(baseURL string) domain.Source {
	return domain.Source{
		ID:          "src-claude",
		Type:        "anthropic",
		Name:        "Claude",
		Config:      map[string]string{"base_url": baseURL},
		Credentials: domain.Credentials{Token: "sk-ant-key"},
	}
}

func TestAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "sk-ant-key", r.Header.Get("x-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "A payment gateway relays card transactions."}]}`))
	}))
	defer server.Close()

	adapter, err := New(testSource(server.URL), nil)
	require.NoError(t, err)
	defer adapter.Close() //nolint:errcheck

	results, err := adapter.Search(context.Background(), driven.SearchRequest{
		Query: "what is a payment gateway",
		Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "src-claude-answer", r.ID)
	assert.Equal(t, "AI answer: what is a payment gateway", r.Title)
	assert.Equal(t, "A payment gateway relays card transactions.", r.Content)
	assert.Equal(t, domain.FamilyAI, r.SourceType)
	assert.Empty(t, r.URL)
	assert.Equal(t, 0.9, r.Score)
}

// TestAdapter_LenientParseFallback tests that an undecodable 200 body
// degrades to raw text instead of an error.
func TestAdapter_LenientParseFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("plain text answer, not json"))
	}))
	defer server.Close()

	adapter, err := New(testSource(server.URL), nil)
	require.NoError(t, err)

	results, err := adapter.Search(context.Background(), driven.SearchRequest{Query: "q", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "plain text answer, not json", results[0].Content)
}

func TestAdapter_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	adapter, err := New(testSource(server.URL), nil)
	require.NoError(t, err)

	_, err = adapter.Search(context.Background(), driven.SearchRequest{Query: "q", Limit: 5})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	assert.ErrorIs(t, adapter.Validate(context.Background()), domain.ErrAuthInvalid)
}

func TestNew_MissingKey(t *testing.T) {
	_, err := New(domain.Source{ID: "x", Type: "anthropic"}, nil)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}
