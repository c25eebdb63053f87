package services

import (
	"context"
	"sync"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// SearchSession serialises searches from one interactive caller and
// guarantees that a superseded search can never deliver its results.
// Starting a new search cancels the previous in-flight one; if a
// cancelled search still completes, its generation no longer matches
// and the session reports domain.ErrSearchSuperseded instead of
// returning stale results.
type SearchSession struct {
	service driving.SearchService

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewSearchSession wraps a search service with supersede semantics.
func NewSearchSession(service driving.SearchService) *SearchSession {
	return &SearchSession{service: service}
}

// Search runs a query, cancelling any search this session still has in
// flight. Results belonging to an older generation are discarded.
func (s *SearchSession) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	s.mu.Lock()
	if s.cancel != nil {
		logger.Debug("Superseding in-flight search")
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	defer cancel()

	results, err := s.service.Search(ctx, query, opts)

	s.mu.Lock()
	stale := generation != s.generation
	if !stale {
		s.cancel = nil
	}
	s.mu.Unlock()

	if stale {
		return nil, domain.ErrSearchSuperseded
	}
	return results, err
}
