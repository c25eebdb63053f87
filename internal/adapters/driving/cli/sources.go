package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage search sources",
	Long: `Connect, inspect, and remove the backends omnisearch fans queries
out to. Each source is one configured backend instance: a Jira site, a
GitHub account, a Slack workspace, and so on.`,
	RunE: runSourcesList,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourcesList,
}

var sourcesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available connector types",
	RunE:  runSourcesTypes,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add [type]",
	Short: "Connect a new source",
	Long: `Connect a new source of the given connector type. Prompts for the
connector's configuration and credentials, then runs a connection test.

Run 'omni sources types' to see the available connector types.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesAdd,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a source and its credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

var sourcesEnableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable a source for searching",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetEnabledRun(true),
}

var sourcesDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable a source without removing it",
	Args:  cobra.ExactArgs(1),
	RunE:  makeSetEnabledRun(false),
}

var sourcesTestCmd = &cobra.Command{
	Use:   "test [id]",
	Short: "Test the connection to a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesTest,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesTypesCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesEnableCmd)
	sourcesCmd.AddCommand(sourcesDisableCmd)
	sourcesCmd.AddCommand(sourcesTestCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured. Run 'omni sources add' to connect one.")
		return nil
	}

	cmd.Println("Configured sources:")
	cmd.Println()
	for i := range sources {
		s := &sources[i]
		enabled := "enabled"
		if !s.Enabled {
			enabled = "disabled"
		}
		cmd.Printf("  %s\n", s.DisplayName())
		cmd.Printf("    ID:     %s\n", s.ID)
		cmd.Printf("    Type:   %s\n", s.Type)
		cmd.Printf("    Status: %s, %s\n", s.Status, enabled)
		cmd.Println()
	}
	return nil
}

func runSourcesTypes(cmd *cobra.Command, _ []string) error {
	if len(connectorCatalogue) == 0 {
		return errors.New("connector catalogue not configured")
	}

	cmd.Println("Available connector types:")
	cmd.Println()
	for i := range connectorCatalogue {
		ct := &connectorCatalogue[i]
		cmd.Printf("  %-10s %s (%s)\n", ct.ID, ct.Name, ct.Family)
		cmd.Printf("             %s\n", ct.Description)
	}
	return nil
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	connType := catalogueEntry(args[0])
	if connType == nil {
		return fmt.Errorf("%w: %q, run 'omni sources types' to see the available types",
			domain.ErrUnsupportedType, args[0])
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Printf("Connecting a %s source\n", connType.Name)
	cmd.Println()

	cmd.Printf("Name [%s]: ", connType.Name)
	name := readLine(reader)
	if name == "" {
		name = connType.Name
	}

	config := make(map[string]string)
	for _, key := range connType.ConfigKeys {
		if key.Secret {
			continue
		}
		prompt := key.Label
		if key.Default != "" {
			prompt += fmt.Sprintf(" [%s]", key.Default)
		} else if !key.Required {
			prompt += " (optional)"
		}
		cmd.Printf("%s: ", prompt)
		value := readLine(reader)
		if value == "" {
			value = key.Default
		}
		if value != "" {
			config[key.Key] = value
		}
	}

	var creds domain.Credentials
	if connType.AuthMethod == domain.AuthMethodBasic {
		cmd.Print("Account email: ")
		creds.Username = readLine(reader)
	}
	if connType.RequiresAuth() {
		cmd.Print("Token / API key: ")
		creds.Token = readPassword()
		cmd.Println()
	}

	source, err := sourceService.Add(cmd.Context(), domain.Source{
		Type:        connType.ID,
		Name:        name,
		Enabled:     true,
		Config:      config,
		Credentials: creds,
	})
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Print("Testing connection... ")
	if err := sourceService.TestConnection(cmd.Context(), source.ID); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		cmd.Println("The source was saved. Fix the configuration and run 'omni sources test'.")
		return nil
	}
	cmd.Println("OK")
	cmd.Printf("Added source %s (%s)\n", source.DisplayName(), source.ID)
	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if err := sourceService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}
	cmd.Printf("Removed source %s\n", args[0])
	return nil
}

func makeSetEnabledRun(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if sourceService == nil {
			return errors.New("source service not configured")
		}

		if err := sourceService.SetEnabled(cmd.Context(), args[0], enabled); err != nil {
			return fmt.Errorf("failed to update source: %w", err)
		}
		state := "enabled"
		if !enabled {
			state = "disabled"
		}
		cmd.Printf("Source %s %s\n", args[0], state)
		return nil
	}
}

func runSourcesTest(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	cmd.Print("Testing connection... ")
	if err := sourceService.TestConnection(cmd.Context(), args[0]); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return nil
	}
	cmd.Println("OK")
	return nil
}

// catalogueEntry looks up a connector type by ID.
func catalogueEntry(id string) *domain.ConnectorType {
	for i := range connectorCatalogue {
		if connectorCatalogue[i].ID == id {
			return &connectorCatalogue[i]
		}
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo so tokens stay off the screen
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
