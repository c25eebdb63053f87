// Package mcp provides an MCP (Model Context Protocol) server adapter
// for omnisearch. It lets AI assistants run unified searches across the
// user's configured sources.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
