package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// blockingSearcher implements driving.SearchService with searches that
// block until released, so tests can interleave calls deterministically.
type blockingSearcher struct {
	mu      sync.Mutex
	started chan string
	release map[string]chan struct{}
	ctxs    map[string]context.Context
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{
		started: make(chan string, 8),
		release: make(map[string]chan struct{}),
		ctxs:    make(map[string]context.Context),
	}
}

func (b *blockingSearcher) expect(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release[query] = make(chan struct{})
}

func (b *blockingSearcher) releaseQuery(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	close(b.release[query])
}

func (b *blockingSearcher) contextOf(query string) context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctxs[query]
}

func (b *blockingSearcher) Search(
	ctx context.Context, query string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	b.mu.Lock()
	gate := b.release[query]
	b.ctxs[query] = ctx
	b.mu.Unlock()

	b.started <- query
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	return []domain.SearchResult{{ID: query, Score: 0.5}}, nil
}

// TestSession_PassThrough tests a single uncontested search.
func TestSession_PassThrough(t *testing.T) {
	searcher := newBlockingSearcher()
	session := NewSearchSession(searcher)

	results, err := session.Search(context.Background(), "solo", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "solo", results[0].ID)
}

// TestSession_SupersedeDiscardsStaleResults tests that a newer search
// cancels the older one and the older call reports supersession rather
// than delivering its results.
func TestSession_SupersedeDiscardsStaleResults(t *testing.T) {
	searcher := newBlockingSearcher()
	searcher.expect("old")
	session := NewSearchSession(searcher)

	type outcome struct {
		results []domain.SearchResult
		err     error
	}
	oldDone := make(chan outcome, 1)

	go func() {
		results, err := session.Search(context.Background(), "old", domain.SearchOptions{})
		oldDone <- outcome{results, err}
	}()
	require.Equal(t, "old", <-searcher.started)

	// Second search supersedes the blocked first one.
	results, err := session.Search(context.Background(), "new", domain.SearchOptions{})
	require.Equal(t, "new", <-searcher.started)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].ID)

	select {
	case got := <-oldDone:
		assert.ErrorIs(t, got.err, domain.ErrSearchSuperseded)
		assert.Nil(t, got.results)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded search never returned")
	}

	oldCtx := searcher.contextOf("old")
	require.NotNil(t, oldCtx)
	assert.ErrorIs(t, oldCtx.Err(), context.Canceled)
}

// TestSession_SequentialSearchesAllSucceed tests that supersession only
// affects overlapping searches.
func TestSession_SequentialSearchesAllSucceed(t *testing.T) {
	searcher := newBlockingSearcher()
	session := NewSearchSession(searcher)

	for _, query := range []string{"first", "second", "third"} {
		results, err := session.Search(context.Background(), query, domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, query, results[0].ID)
		<-searcher.started
	}
}
