package mcp

import (
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides unified search.
	Search driving.SearchService

	// Source lists configured sources. Optional; the list_sources tool
	// is only registered when it is set.
	Source driving.SourceService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
