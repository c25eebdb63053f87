package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

var (
	searchMode     string
	searchLimit    int
	searchJSON     bool
	searchSources  []string
	searchProject  string
	searchAssignee string
	searchSince    string
	searchUntil    string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across configured sources",
	Long: `Searches all enabled sources for the selected mode and merges the
results into one list ranked by relevance.

Modes:
  unified - apps + web + AI (default)
  apps    - workspace applications only
  web     - policy-filtered web search only
  ai      - AI model providers only`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "search mode (unified, apps, web, ai)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchSources, "source", nil, "restrict to specific source IDs (repeatable)")
	searchCmd.Flags().StringVar(&searchProject, "project", "", "restrict issue-tracker results to a project key")
	searchCmd.Flags().StringVar(&searchAssignee, "assignee", "", "restrict issue-tracker results to an assignee")
	searchCmd.Flags().StringVar(&searchSince, "since", "", "only items updated on or after this date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchUntil, "until", "", "only items updated on or before this date (YYYY-MM-DD)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts, err := buildSearchOptions()
	if err != nil {
		return err
	}
	applySettingsDefaults(cmd, &opts)

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoSourcesEnabled) {
			cmd.Println("No sources are enabled for this mode. Run 'omni sources add' to connect one.")
			return nil
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchList(cmd, results)
}

// buildSearchOptions assembles SearchOptions from the command flags.
// Unset mode and limit are left zero so the service applies the
// configured defaults.
func buildSearchOptions() (domain.SearchOptions, error) {
	opts := domain.SearchOptions{
		MaxResults: searchLimit,
		SourceIDs:  searchSources,
		Filters: domain.SearchFilters{
			Project:  searchProject,
			Assignee: searchAssignee,
		},
	}

	if searchMode != "" {
		mode := domain.SearchMode(searchMode)
		if !mode.IsValid() {
			return opts, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, searchMode)
		}
		opts.Mode = mode
	}

	if searchSince != "" {
		since, err := time.Parse("2006-01-02", searchSince)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid --since date %q", domain.ErrInvalidInput, searchSince)
		}
		opts.Filters.Since = since
	}
	if searchUntil != "" {
		until, err := time.Parse("2006-01-02", searchUntil)
		if err != nil {
			return opts, fmt.Errorf("%w: invalid --until date %q", domain.ErrInvalidInput, searchUntil)
		}
		opts.Filters.Until = until
	}

	return opts, nil
}

// applySettingsDefaults fills mode and limit from the configured
// settings when the flags were not given. Best effort: without a
// settings service the core falls back to its built-in defaults.
func applySettingsDefaults(cmd *cobra.Command, opts *domain.SearchOptions) {
	if settingsService == nil || (opts.Mode != "" && opts.MaxResults > 0) {
		return
	}
	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return
	}
	if opts.Mode == "" {
		opts.Mode = settings.Search.Mode
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = settings.Search.MaxResults
	}
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchList(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]

		title := r.Title
		if title == "" {
			title = r.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.Score)
		cmd.Printf("      %s", r.SourceType)
		if r.SourceLabel != "" {
			cmd.Printf(" / %s", r.SourceLabel)
		}
		cmd.Println()
		if snippet := firstLine(r.Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		if r.URL != "" {
			cmd.Printf("      %s\n", r.URL)
		}
		cmd.Println()
	}
	return nil
}

// firstLine returns the first non-empty line of text, trimmed.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
