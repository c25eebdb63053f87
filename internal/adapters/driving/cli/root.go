// Package cli provides the command-line interface for omnisearch.
// Commands talk to the core exclusively through the driving ports;
// services are injected once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driving"
	"github.com/meridian-labs/omnisearch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Commands check for nil so a partially wired
// binary fails with a clear message instead of a panic.
var (
	searchService   driving.SearchService
	sessionService  driving.SearchService
	sourceService   driving.SourceService
	settingsService driving.SettingsService

	// connectorCatalogue lists the connector types available for
	// `sources add` prompting.
	connectorCatalogue []domain.ConnectorType
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "omni",
	Short: "One search across your work apps, the web, and AI",
	Long: `Omnisearch fans a single query out to your configured backends --
issue trackers, wikis, code hosts, chat, web search, and AI providers --
and merges everything into one ranked result list.

Connect a backend with 'omni sources add', then search:

  omni search "payment gateway timeout"
  omni search --mode web "golang context cancellation"
  omni search --mode ai "summarise our deploy process"`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the CLI needs from the core.
type Services struct {
	Search driving.SearchService

	// Session is the supersede-aware search surface handed to the MCP
	// server, where a new assistant query cancels the previous one.
	// Falls back to Search when unset.
	Session  driving.SearchService
	Source   driving.SourceService
	Settings driving.SettingsService

	// Catalogue lists the registered connector types.
	Catalogue []domain.ConnectorType
}

// SetServices injects the core services into the CLI. Must be called
// before Execute.
func SetServices(s Services) {
	searchService = s.Search
	sessionService = s.Session
	if sessionService == nil {
		sessionService = s.Search
	}
	sourceService = s.Source
	settingsService = s.Settings
	connectorCatalogue = s.Catalogue
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
