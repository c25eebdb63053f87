package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService is the mode controller, query dispatcher, and
// aggregator in one: it selects the adapters for the requested mode,
// fans the query out to them concurrently, and merges their results
// into a single ranked list.
type SearchService struct {
	sourceStore driven.SourceStore
	factory     driven.AdapterFactory
}

// NewSearchService creates a new search service.
func NewSearchService(sourceStore driven.SourceStore, factory driven.AdapterFactory) *SearchService {
	return &SearchService{
		sourceStore: sourceStore,
		factory:     factory,
	}
}

// adapterResult holds one adapter's contribution to the merge.
type adapterResult struct {
	adapter driven.SourceAdapter
	results []domain.SearchResult
	err     error
}

// Search fans the query out to every adapter selected by the mode and
// returns the merged, ranked list.
//
// Failure policy: each adapter invocation is isolated. A failing
// adapter is logged and contributes zero results; it never aborts its
// siblings. The only error surfaced to the caller is
// domain.ErrNoSourcesEnabled when no source is configured and enabled
// for the mode. All sources failing yields an empty list, not an error.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeUnified
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, opts.Mode)
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = domain.DefaultResultLimit
	}

	logger.Debug("Query: %q", query)
	logger.Info("Mode: %s, limit: %d", mode.Description(), limit)

	adapters, err := s.selectAdapters(ctx, mode, opts.SourceIDs)
	if err != nil {
		return nil, err
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSourcesEnabled, mode)
	}
	defer closeAdapters(adapters)

	req := driven.SearchRequest{
		Query:   query,
		Limit:   perAdapterBudget(limit, len(adapters)),
		Filters: opts.Filters,
	}
	logger.Debug("Selected %d adapters, per-adapter budget: %d", len(adapters), req.Limit)

	collected := s.dispatch(ctx, adapters, req)

	merged := merge(collected, limit)
	logger.Info("Final results: %d", len(merged))
	return merged, nil
}

// selectAdapters builds one adapter per enabled source whose family
// participates in the mode. Sources that cannot be constructed are
// skipped with a warning rather than failing the search.
func (s *SearchService) selectAdapters(
	ctx context.Context, mode domain.SearchMode, sourceIDs []string,
) ([]driven.SourceAdapter, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	families := make(map[string]domain.Family)
	for _, ct := range s.factory.Types() {
		families[ct.ID] = ct.Family
	}

	wanted := make(map[string]bool, len(sourceIDs))
	for _, id := range sourceIDs {
		wanted[id] = true
	}

	adapters := make([]driven.SourceAdapter, 0, len(sources))
	for i := range sources {
		src := sources[i]
		if !src.Enabled {
			continue
		}
		if len(wanted) > 0 && !wanted[src.ID] {
			continue
		}
		family, known := families[src.Type]
		if !known {
			logger.Warn("Source %s has unknown type %q, skipping", src.ID, src.Type)
			continue
		}
		if !mode.Includes(family) {
			continue
		}

		adapter, createErr := s.factory.Create(src)
		if createErr != nil {
			logger.Warn("Source %s (%s) could not be created: %v", src.ID, src.Type, createErr)
			continue
		}
		adapters = append(adapters, adapter)
	}

	return adapters, nil
}

// dispatch launches every adapter concurrently and waits for all of
// them to settle. The join tolerates individual failures: a rejected
// adapter is logged and excluded, never propagated.
func (s *SearchService) dispatch(
	ctx context.Context, adapters []driven.SourceAdapter, req driven.SearchRequest,
) []adapterResult {
	collected := make([]adapterResult, len(adapters))

	var wg sync.WaitGroup
	wg.Add(len(adapters))

	for i, adapter := range adapters {
		go func(i int, adapter driven.SourceAdapter) {
			defer wg.Done()
			results, err := adapter.Search(ctx, req)
			collected[i] = adapterResult{adapter: adapter, results: results, err: err}
		}(i, adapter)
	}

	wg.Wait()

	for i := range collected {
		if collected[i].err != nil {
			logger.Warn("Adapter %s (%s) failed: %v",
				collected[i].adapter.Label(), collected[i].adapter.Type(), collected[i].err)
			collected[i].results = nil
			continue
		}
		logger.Debug("Adapter %s returned %d results",
			collected[i].adapter.Label(), len(collected[i].results))
	}

	return collected
}

// perAdapterBudget divides the global cap evenly across adapters.
// Floor division, but no adapter is starved below 1.
func perAdapterBudget(limit, adapterCount int) int {
	if adapterCount <= 0 {
		return limit
	}
	budget := limit / adapterCount
	if budget < 1 {
		budget = 1
	}
	return budget
}

// merge flattens the per-adapter results, enforces the ID uniqueness
// invariant, sorts descending by score, and truncates to the cap.
// The sort is stable: ties keep their adapter-emission order.
func merge(collected []adapterResult, limit int) []domain.SearchResult {
	flat := make([]domain.SearchResult, 0, limit)
	seen := make(map[string]int)

	for i := range collected {
		for _, r := range collected[i].results {
			if n, dup := seen[r.ID]; dup {
				seen[r.ID] = n + 1
				r.ID = fmt.Sprintf("%s-%d", r.ID, n+1)
			} else {
				seen[r.ID] = 1
			}
			if r.Score < 0 {
				r.Score = 0
			}
			if r.Score > 1 {
				r.Score = 1
			}
			flat = append(flat, r)
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Score > flat[j].Score
	})

	if len(flat) > limit {
		flat = flat[:limit]
	}
	return flat
}

// closeAdapters releases adapter resources, logging close failures.
func closeAdapters(adapters []driven.SourceAdapter) {
	for _, adapter := range adapters {
		if err := adapter.Close(); err != nil {
			logger.Warn("Adapter %s close: %v", adapter.Type(), err)
		}
	}
}
