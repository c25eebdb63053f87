package driving

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SearchService is the sole search surface the rest of the application
// depends on. It fans the query out to the adapters selected by the
// mode, merges their results, and returns one ranked list.
//
// Partial backend failures never surface as errors; the only error a
// caller sees is domain.ErrNoSourcesEnabled when zero sources are
// configured and enabled for the requested mode.
type SearchService interface {
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
