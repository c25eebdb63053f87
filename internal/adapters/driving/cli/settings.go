package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure search defaults and the web result policy.

Settings live in ~/.omnisearch/settings.toml and can also be edited by
hand; a running 'omni mcp serve' picks the change up automatically.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [mode]",
	Short: "Set the default search mode",
	Long: `Set the default search mode used when 'omni search' is run without
--mode.

Available modes:
  unified - apps + web + AI
  apps    - workspace applications only
  web     - policy-filtered web search only
  ai      - AI model providers only`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsMode,
}

var settingsLimitCmd = &cobra.Command{
	Use:   "limit [n]",
	Short: "Set the default result limit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsLimit,
}

var settingsPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Configure the web result policy",
	Long: `Configure the policy filter applied to web search results.

Every stage is a hard filter: a result that fails any stage is dropped
from the merged list entirely.`,
	RunE: runSettingsPolicy,
}

var (
	policyAllowed    []string
	policyBlocked    []string
	policyKeywords   []string
	policyHTTPSOnly  string
	policyCompliance string
)

func init() {
	settingsPolicyCmd.Flags().StringSliceVar(&policyAllowed, "allow-domain", nil, "replace the allowed domain suffixes (repeatable)")
	settingsPolicyCmd.Flags().StringSliceVar(&policyBlocked, "block-domain", nil, "replace the blocked domain terms (repeatable)")
	settingsPolicyCmd.Flags().StringSliceVar(&policyKeywords, "block-keyword", nil, "replace the blocked keywords (repeatable)")
	settingsPolicyCmd.Flags().StringVar(&policyHTTPSOnly, "https-only", "", "require HTTPS result URLs (true or false)")
	settingsPolicyCmd.Flags().StringVar(&policyCompliance, "compliance", "", "content filter level (standard or strict)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsLimitCmd)
	settingsCmd.AddCommand(settingsPolicyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Default mode:  %s\n", settings.Search.Mode.Description())
	cmd.Printf("  Result limit:  %d\n", settings.Search.MaxResults)
	cmd.Println()

	cmd.Println("[Web Policy]")
	cmd.Printf("  Allowed domains:  %s\n", listOrAll(settings.WebPolicy.AllowedDomains))
	cmd.Printf("  Blocked domains:  %s\n", listOrNone(settings.WebPolicy.BlockedDomains))
	cmd.Printf("  Blocked keywords: %s\n", listOrNone(settings.WebPolicy.BlockedKeywords))
	cmd.Printf("  HTTPS only:       %t\n", settings.WebPolicy.HTTPSOnly)
	cmd.Printf("  Compliance:       %s\n", settings.WebPolicy.Compliance)

	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	mode := domain.SearchMode(args[0])
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, args[0])
	}

	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Search.Mode = mode

	if err := settingsService.Update(cmd.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Default search mode set to: %s\n", mode.Description())
	return nil
}

func runSettingsLimit(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 1 {
		return fmt.Errorf("%w: limit must be a positive number", domain.ErrInvalidInput)
	}

	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Search.MaxResults = limit

	if err := settingsService.Update(cmd.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Default result limit set to: %d\n", limit)
	return nil
}

func runSettingsPolicy(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("allow-domain") {
		settings.WebPolicy.AllowedDomains = policyAllowed
		changed = true
	}
	if cmd.Flags().Changed("block-domain") {
		settings.WebPolicy.BlockedDomains = policyBlocked
		changed = true
	}
	if cmd.Flags().Changed("block-keyword") {
		settings.WebPolicy.BlockedKeywords = policyKeywords
		changed = true
	}
	if policyHTTPSOnly != "" {
		httpsOnly, parseErr := strconv.ParseBool(policyHTTPSOnly)
		if parseErr != nil {
			return fmt.Errorf("%w: --https-only must be true or false", domain.ErrInvalidInput)
		}
		settings.WebPolicy.HTTPSOnly = httpsOnly
		changed = true
	}
	if policyCompliance != "" {
		level := domain.ComplianceLevel(policyCompliance)
		if !level.IsValid() {
			return fmt.Errorf("%w: compliance must be standard or strict", domain.ErrInvalidInput)
		}
		settings.WebPolicy.Compliance = level
		changed = true
	}

	if !changed {
		return runSettingsShow(cmd, nil)
	}

	if err := settingsService.Update(cmd.Context(), settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Web policy updated.")
	return nil
}

func listOrAll(items []string) string {
	if len(items) == 0 {
		return "(all)"
	}
	return strings.Join(items, ", ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
