package connectors

import "github.com/meridian-labs/omnisearch-cli/internal/core/domain"

// Catalogue returns the full list of supported connector types with
// their configuration schemas. Order is stable and used for display.
func Catalogue() []domain.ConnectorType {
	return []domain.ConnectorType{
		{
			ID:          "jira",
			Name:        "Jira",
			Description: "Jira Cloud issue search",
			Family:      domain.FamilyIssueTracker,
			AuthMethod:  domain.AuthMethodBasic,
			ConfigKeys: []domain.ConfigKey{
				{Key: "base_url", Label: "Site URL", Description: "Jira site URL (https://yourco.atlassian.net)", Required: true},
				{Key: "project", Label: "Project key", Description: "Restrict searches to one project"},
			},
		},
		{
			ID:          "confluence",
			Name:        "Confluence",
			Description: "Confluence Cloud page search",
			Family:      domain.FamilyWiki,
			AuthMethod:  domain.AuthMethodBasic,
			ConfigKeys: []domain.ConfigKey{
				{Key: "base_url", Label: "Site URL", Description: "Confluence site URL (https://yourco.atlassian.net)", Required: true},
				{Key: "space", Label: "Space key", Description: "Restrict searches to one space"},
			},
		},
		{
			ID:          "github",
			Name:        "GitHub",
			Description: "GitHub repository, issue, and code search",
			Family:      domain.FamilyCodeHost,
			AuthMethod:  domain.AuthMethodBearer,
			ConfigKeys: []domain.ConfigKey{
				{Key: "base_url", Label: "API URL", Description: "GitHub Enterprise API URL, empty for github.com"},
			},
		},
		{
			ID:          "bitbucket",
			Name:        "Bitbucket",
			Description: "Bitbucket Cloud repository and code search",
			Family:      domain.FamilyCodeHost,
			AuthMethod:  domain.AuthMethodBasic,
			ConfigKeys: []domain.ConfigKey{
				{Key: "workspace", Label: "Workspace", Description: "Bitbucket workspace slug", Required: true},
			},
		},
		{
			ID:          "slack",
			Name:        "Slack",
			Description: "Slack message search",
			Family:      domain.FamilyChat,
			AuthMethod:  domain.AuthMethodBearer,
		},
		{
			ID:          "websearch",
			Name:        "Web Search",
			Description: "Google Programmable Search with company policy filter",
			Family:      domain.FamilyWeb,
			AuthMethod:  domain.AuthMethodBearer,
			ConfigKeys: []domain.ConfigKey{
				{Key: "engine_id", Label: "Engine ID", Description: "Programmable Search Engine ID", Required: true},
			},
		},
		{
			ID:          "anthropic",
			Name:        "Anthropic",
			Description: "Query answered by a Claude model",
			Family:      domain.FamilyAI,
			AuthMethod:  domain.AuthMethodBearer,
			ConfigKeys: []domain.ConfigKey{
				{Key: "model", Label: "Model", Description: "Model name", Default: "claude-3-5-sonnet-latest"},
			},
		},
		{
			ID:          "openai",
			Name:        "OpenAI",
			Description: "Query answered by a GPT model",
			Family:      domain.FamilyAI,
			AuthMethod:  domain.AuthMethodBearer,
			ConfigKeys: []domain.ConfigKey{
				{Key: "model", Label: "Model", Description: "Model name", Default: "gpt-4o-mini"},
			},
		},
	}
}
