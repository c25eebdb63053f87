package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	Mode  string `json:"mode,omitempty" jsonschema:"search mode: unified, apps, web, or ai (default unified)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content,omitempty"`
	SourceType  string  `json:"source_type"`
	SourceLabel string  `json:"source_label,omitempty"`
	URL         string  `json:"url,omitempty"`
	Score       float64 `json:"score"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct{}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SourceOutput represents a configured source.
type SourceOutput struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across the user's configured sources: workspace apps, the web, and AI providers",
	}, s.handleSearch)

	if s.ports.Source != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_sources",
			Description: "List the user's configured search sources",
		}, s.handleListSources)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{MaxResults: input.Limit}

	if input.Mode != "" {
		mode := domain.SearchMode(input.Mode)
		if !mode.IsValid() {
			return nil, SearchOutput{}, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, input.Mode)
		}
		opts.Mode = mode
	}

	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:          results[i].ID,
			Title:       results[i].Title,
			Content:     results[i].Content,
			SourceType:  results[i].SourceType.String(),
			SourceLabel: results[i].SourceLabel,
			URL:         results[i].URL,
			Score:       results[i].Score,
		}
	}

	return nil, output, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	sources, err := s.ports.Source.List(ctx)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	output := ListSourcesOutput{
		Sources: make([]SourceOutput, len(sources)),
		Count:   len(sources),
	}
	for i := range sources {
		output.Sources[i] = SourceOutput{
			ID:      sources[i].ID,
			Type:    sources[i].Type,
			Name:    sources[i].DisplayName(),
			Enabled: sources[i].Enabled,
			Status:  string(sources[i].Status),
		}
	}

	return nil, output, nil
}
