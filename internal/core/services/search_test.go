package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/omnisearch-cli/internal/adapters/driven/storage/memory"
	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/relevance"
)

// --- Mock implementations ---

// mockAdapter implements driven.SourceAdapter for testing.
type mockAdapter struct {
	sourceID string
	typ      string
	family   domain.Family
	label    string
	results  []domain.SearchResult
	err      error

	mu      sync.Mutex
	lastReq driven.SearchRequest
	calls   int
	closed  bool
}

func (m *mockAdapter) SourceID() string      { return m.sourceID }
func (m *mockAdapter) Type() string          { return m.typ }
func (m *mockAdapter) Family() domain.Family { return m.family }
func (m *mockAdapter) Label() string         { return m.label }

func (m *mockAdapter) Search(_ context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	m.mu.Lock()
	m.lastReq = req
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockAdapter) Validate(context.Context) error { return nil }

func (m *mockAdapter) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// mockFactory implements driven.AdapterFactory for testing.
type mockFactory struct {
	types    []domain.ConnectorType
	adapters map[string]driven.SourceAdapter
}

func newMockFactory() *mockFactory {
	return &mockFactory{
		types: []domain.ConnectorType{
			{ID: "jira", Family: domain.FamilyIssueTracker},
			{ID: "github", Family: domain.FamilyCodeHost},
			{ID: "websearch", Family: domain.FamilyWeb},
			{ID: "anthropic", Family: domain.FamilyAI},
		},
		adapters: make(map[string]driven.SourceAdapter),
	}
}

func (f *mockFactory) Create(source domain.Source) (driven.SourceAdapter, error) {
	adapter, ok := f.adapters[source.ID]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return adapter, nil
}

func (f *mockFactory) Register(string, driven.AdapterBuilder) {}

func (f *mockFactory) Types() []domain.ConnectorType { return f.types }

// fixture wires a search service over a memory store and mock factory.
type fixture struct {
	store   *memory.SourceStore
	factory *mockFactory
	service *SearchService
	created time.Time
}

func newFixture() *fixture {
	store := memory.NewSourceStore()
	factory := newMockFactory()
	return &fixture{
		store:   store,
		factory: factory,
		service: NewSearchService(store, factory),
		created: time.Now(),
	}
}

func (f *fixture) addSource(t *testing.T, adapter *mockAdapter, enabled bool) {
	t.Helper()
	f.created = f.created.Add(time.Second)
	err := f.store.Save(context.Background(), domain.Source{
		ID:        adapter.sourceID,
		Type:      adapter.typ,
		Name:      adapter.label,
		Enabled:   enabled,
		CreatedAt: f.created,
	})
	require.NoError(t, err)
	f.factory.adapters[adapter.sourceID] = adapter
}

func result(id string, score float64) domain.SearchResult {
	return domain.SearchResult{
		ID:         id,
		Title:      "title " + id,
		Content:    "content",
		SourceType: domain.FamilyIssueTracker,
		Score:      score,
	}
}

// --- Tests ---

// TestSearch_BasicInvariants tests the result cap, score range, and ID
// uniqueness for a healthy multi-adapter search.
func TestSearch_BasicInvariants(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9), result("s1-b", 0.3)},
	}, true)
	f.addSource(t, &mockAdapter{
		sourceID: "s2", typ: "github", family: domain.FamilyCodeHost, label: "GitHub",
		results: []domain.SearchResult{result("s2-a", 0.7)},
	}, true)

	results, err := f.service.Search(context.Background(), "payment", domain.SearchOptions{
		Mode:       domain.SearchModeApps,
		MaxResults: 10,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(results), 10)
	seen := make(map[string]bool)
	for _, r := range results {
		assert.NotEmpty(t, r.ID)
		assert.False(t, seen[r.ID], "duplicate ID %s", r.ID)
		seen[r.ID] = true
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
	assert.Len(t, results, 3)
}

// TestSearch_SortedDescendingStable tests score ordering with stable ties.
func TestSearch_SortedDescendingStable(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.5), result("s1-b", 0.5)},
	}, true)
	f.addSource(t, &mockAdapter{
		sourceID: "s2", typ: "github", family: domain.FamilyCodeHost, label: "GitHub",
		results: []domain.SearchResult{result("s2-a", 0.5), result("s2-b", 0.9)},
	}, true)

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "s2-b", results[0].ID)
	// Ties keep adapter-emission order: s1 before s2, a before b.
	assert.Equal(t, "s1-a", results[1].ID)
	assert.Equal(t, "s1-b", results[2].ID)
	assert.Equal(t, "s2-a", results[3].ID)
}

// TestSearch_PartialFailure tests that one failing adapter never costs
// the healthy adapters their results.
func TestSearch_PartialFailure(t *testing.T) {
	f := newFixture()
	healthy := &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{
			result("s1-1", 0.9), result("s1-2", 0.8), result("s1-3", 0.7),
			result("s1-4", 0.6), result("s1-5", 0.5),
		},
	}
	failing := &mockAdapter{
		sourceID: "s2", typ: "github", family: domain.FamilyCodeHost, label: "GitHub",
		err: errors.New("boom"),
	}
	f.addSource(t, healthy, true)
	f.addSource(t, failing, true)

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	require.NoError(t, err)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.Contains(t, r.ID, "s1-")
	}
}

// TestSearch_AllAdaptersFailing tests silent degradation to an empty list.
func TestSearch_AllAdaptersFailing(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		err: errors.New("network down"),
	}, true)

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearch_NoSourcesForMode tests the configuration error.
func TestSearch_NoSourcesForMode(t *testing.T) {
	f := newFixture()
	// Only an apps source is configured; AI mode has nothing.
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9)},
	}, true)

	_, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeAI})
	assert.ErrorIs(t, err, domain.ErrNoSourcesEnabled)
}

// TestSearch_DisabledSourcesExcluded tests the enabled flag.
func TestSearch_DisabledSourcesExcluded(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9)},
	}, false)

	_, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	assert.ErrorIs(t, err, domain.ErrNoSourcesEnabled)
}

// TestSearch_GlobalCap tests truncation: three adapters with ten
// results each and a cap of ten yields exactly ten, sorted.
func TestSearch_GlobalCap(t *testing.T) {
	f := newFixture()
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("s%d", i)
		adapter := &mockAdapter{
			sourceID: id, typ: "jira", family: domain.FamilyIssueTracker, label: id,
		}
		for j := 0; j < 10; j++ {
			adapter.results = append(adapter.results, result(fmt.Sprintf("%s-%d", id, j), float64(j)/10))
		}
		f.addSource(t, adapter, true)
	}

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{
		Mode:       domain.SearchModeApps,
		MaxResults: 10,
	})
	require.NoError(t, err)
	assert.Len(t, results, 10)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

// TestSearch_BudgetSplit tests floor division with a minimum of one.
func TestSearch_BudgetSplit(t *testing.T) {
	f := newFixture()
	var adapters []*mockAdapter
	for i := 1; i <= 3; i++ {
		adapter := &mockAdapter{
			sourceID: fmt.Sprintf("s%d", i), typ: "jira",
			family: domain.FamilyIssueTracker, label: fmt.Sprintf("s%d", i),
		}
		adapters = append(adapters, adapter)
		f.addSource(t, adapter, true)
	}

	_, err := f.service.Search(context.Background(), "q", domain.SearchOptions{
		Mode:       domain.SearchModeApps,
		MaxResults: 20,
	})
	require.NoError(t, err)
	for _, adapter := range adapters {
		assert.Equal(t, 6, adapter.lastReq.Limit) // floor(20/3)
	}

	// More adapters than the cap: nobody starves to zero.
	_, err = f.service.Search(context.Background(), "q", domain.SearchOptions{
		Mode:       domain.SearchModeApps,
		MaxResults: 2,
	})
	require.NoError(t, err)
	for _, adapter := range adapters {
		assert.Equal(t, 1, adapter.lastReq.Limit)
	}
}

// TestSearch_ModeRouting tests the fixed mode-to-adapter table.
func TestSearch_ModeRouting(t *testing.T) {
	f := newFixture()
	jira := &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9)},
	}
	web := &mockAdapter{
		sourceID: "s2", typ: "websearch", family: domain.FamilyWeb, label: "Web",
		results: []domain.SearchResult{{ID: "s2-a", SourceType: domain.FamilyWeb, Score: 0.4}},
	}
	ai := &mockAdapter{
		sourceID: "s3", typ: "anthropic", family: domain.FamilyAI, label: "Claude",
		results: []domain.SearchResult{{ID: "s3-a", SourceType: domain.FamilyAI, Score: 0.9}},
	}
	f.addSource(t, jira, true)
	f.addSource(t, web, true)
	f.addSource(t, ai, true)

	tests := []struct {
		mode domain.SearchMode
		want []string
	}{
		{domain.SearchModeApps, []string{"s1-a"}},
		{domain.SearchModeWeb, []string{"s2-a"}},
		{domain.SearchModeAI, []string{"s3-a"}},
		{domain.SearchModeUnified, []string{"s1-a", "s3-a", "s2-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: tt.mode})
			require.NoError(t, err)
			ids := make([]string, len(results))
			for i, r := range results {
				ids[i] = r.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

// TestSearch_SourceIDFilter tests restriction to specific sources.
func TestSearch_SourceIDFilter(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9)},
	}, true)
	f.addSource(t, &mockAdapter{
		sourceID: "s2", typ: "github", family: domain.FamilyCodeHost, label: "GitHub",
		results: []domain.SearchResult{result("s2-a", 0.8)},
	}, true)

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{
		Mode:      domain.SearchModeApps,
		SourceIDs: []string{"s2"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s2-a", results[0].ID)
}

// TestSearch_Idempotent tests that identical input over deterministic
// backends yields identical ordered output.
func TestSearch_Idempotent(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.5), result("s1-b", 0.5), result("s1-c", 0.8)},
	}, true)

	opts := domain.SearchOptions{Mode: domain.SearchModeApps, MaxResults: 10}
	first, err := f.service.Search(context.Background(), "q", opts)
	require.NoError(t, err)
	second, err := f.service.Search(context.Background(), "q", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestSearch_EmptyQuery tests that a blank query is a no-op success.
func TestSearch_EmptyQuery(t *testing.T) {
	f := newFixture()
	results, err := f.service.Search(context.Background(), "   ", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestSearch_InvalidMode tests rejection of unknown modes.
func TestSearch_InvalidMode(t *testing.T) {
	f := newFixture()
	_, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: "hybrid"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestSearch_DuplicateIDsSuffixed tests the uniqueness safeguard when
// two adapters emit the same ID.
func TestSearch_DuplicateIDsSuffixed(t *testing.T) {
	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("dup", 0.9)},
	}, true)
	f.addSource(t, &mockAdapter{
		sourceID: "s2", typ: "github", family: domain.FamilyCodeHost, label: "GitHub",
		results: []domain.SearchResult{result("dup", 0.8)},
	}, true)

	results, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].ID, results[1].ID)
}

// TestSearch_AdaptersClosed tests resource cleanup after the merge.
func TestSearch_AdaptersClosed(t *testing.T) {
	f := newFixture()
	adapter := &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Jira",
		results: []domain.SearchResult{result("s1-a", 0.9)},
	}
	f.addSource(t, adapter, true)

	_, err := f.service.Search(context.Background(), "q", domain.SearchOptions{Mode: domain.SearchModeApps})
	require.NoError(t, err)
	assert.True(t, adapter.closed)
}

// TestSearch_ScoredScenario tests the end-to-end ranking scenario: a
// single issue-tracker source with one strongly matching item.
func TestSearch_ScoredScenario(t *testing.T) {
	scorer := relevance.NewScorer()
	title := "Payment gateway timeout issue"

	f := newFixture()
	f.addSource(t, &mockAdapter{
		sourceID: "s1", typ: "jira", family: domain.FamilyIssueTracker, label: "Acme Jira",
		results: []domain.SearchResult{{
			ID:         "s1-PAY-42",
			Title:      title,
			SourceType: domain.FamilyIssueTracker,
			Score:      scorer.Score("payment gateway", title),
		}},
	}, true)

	results, err := f.service.Search(context.Background(), "payment gateway", domain.SearchOptions{
		Mode: domain.SearchModeApps,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Greater(t, results[0].Score, 0.5)
	assert.Equal(t, domain.FamilyIssueTracker, results[0].SourceType)
}
