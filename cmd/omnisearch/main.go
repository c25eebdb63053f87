// Command omni is the omnisearch CLI: one query, every backend.
package main

import (
	"fmt"
	"os"

	"github.com/meridian-labs/omnisearch-cli/internal/adapters/driven/config/file"
	"github.com/meridian-labs/omnisearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/meridian-labs/omnisearch-cli/internal/adapters/driving/cli"
	"github.com/meridian-labs/omnisearch-cli/internal/connectors"
	"github.com/meridian-labs/omnisearch-cli/internal/core/services"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
	"github.com/meridian-labs/omnisearch-cli/internal/relevance"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Storage and settings live under ~/.omnisearch (override via
	// OMNISEARCH_HOME, mainly for tests and side-by-side profiles).
	home := os.Getenv("OMNISEARCH_HOME")

	sourceStore, err := sqlite.NewStore(home)
	if err != nil {
		return fmt.Errorf("opening source store: %w", err)
	}
	defer sourceStore.Close() //nolint:errcheck

	settingsStore, err := file.NewSettingsStore(home)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}

	settingsService := services.NewSettingsService(settingsStore)

	// Pick up hand edits to settings.toml while running. Matters for
	// the long-lived `omni mcp serve`; harmless for one-shot commands.
	watcher, err := file.WatchSettings(settingsStore.Path(), settingsService.Invalidate)
	if err != nil {
		logger.Warn("Settings watcher unavailable: %v", err)
	} else {
		defer watcher.Close() //nolint:errcheck
	}

	factory := connectors.DefaultFactory(relevance.NewScorer(), settingsService.WebPolicy)

	searchService := services.NewSearchService(sourceStore, factory)
	sourceService := services.NewSourceService(sourceStore, factory)

	cli.SetServices(cli.Services{
		Search:    searchService,
		Session:   services.NewSearchSession(searchService),
		Source:    sourceService,
		Settings:  settingsService,
		Catalogue: factory.Types(),
	})

	return cli.Execute()
}
