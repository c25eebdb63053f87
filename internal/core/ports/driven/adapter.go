package driven

import (
	"context"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SearchRequest is the normalized per-adapter search input.
type SearchRequest struct {
	// Query is the trimmed, non-empty search text.
	Query string

	// Limit is this adapter's share of the global result cap.
	// Always at least 1.
	Limit int

	// Filters carries backend-specific criteria. Adapters honour the
	// fields their backend understands and ignore the rest.
	Filters domain.SearchFilters
}

// SourceAdapter translates a normalized query into backend-specific
// calls and maps the backend's response into the common result shape.
// One adapter instance serves one configured source.
//
// Adapters degrade instead of failing: an adapter that fans out into
// several backend sub-queries returns whatever sub-queries succeeded
// and only returns an error when it produced nothing at all. Errors
// never escape the dispatcher; they are logged and the adapter
// contributes zero results.
type SourceAdapter interface {
	// SourceID returns the configured source ID. It prefixes every
	// result ID this adapter emits.
	SourceID() string

	// Type returns the connector type identifier.
	Type() string

	// Family returns the connector family for mode selection.
	Family() domain.Family

	// Label returns the configured source display name.
	Label() string

	// Search executes the request against the backend.
	// Returns an empty slice, not nil, when nothing matched.
	Search(ctx context.Context, req SearchRequest) ([]domain.SearchResult, error)

	// Validate checks the adapter is properly configured and
	// authenticated, typically with a lightweight API call.
	Validate(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// AdapterBuilder creates a SourceAdapter from a source configuration.
type AdapterBuilder func(source domain.Source, scorer RelevanceScorer) (SourceAdapter, error)

// AdapterFactory creates adapters from source configurations.
// It maintains a registry of connector types and their builders.
type AdapterFactory interface {
	// Create returns an adapter for the given source.
	// Returns domain.ErrUnsupportedType if the source type is unknown.
	Create(source domain.Source) (SourceAdapter, error)

	// Register adds an adapter builder for the given connector type.
	Register(connectorType string, builder AdapterBuilder)

	// Types returns the catalogue of registered connector types.
	Types() []domain.ConnectorType
}
