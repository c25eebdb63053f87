package domain

import "time"

const unknownDescription = "Unknown"

// DefaultResultLimit is the global result cap when none is requested.
const DefaultResultLimit = 50

// SearchMode selects which connector families participate in a search.
type SearchMode string

// Available search modes.
const (
	// SearchModeUnified fans out to every enabled source across apps,
	// web, and AI.
	SearchModeUnified SearchMode = "unified"

	// SearchModeApps searches only configured workspace applications
	// (issue trackers, wikis, code hosts, chat).
	SearchModeApps SearchMode = "apps"

	// SearchModeWeb searches the web only, with the company policy
	// filter applied.
	SearchModeWeb SearchMode = "web"

	// SearchModeAI asks the configured AI model providers only.
	SearchModeAI SearchMode = "ai"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeUnified, SearchModeApps, SearchModeWeb, SearchModeAI:
		return true
	default:
		return false
	}
}

// Includes reports whether sources of the given family participate in
// this mode. The mapping is a fixed table, not configuration.
func (m SearchMode) Includes(f Family) bool {
	switch m {
	case SearchModeUnified:
		return f.IsValid()
	case SearchModeApps:
		return f.IsWorkspaceApp()
	case SearchModeWeb:
		return f == FamilyWeb
	case SearchModeAI:
		return f == FamilyAI
	default:
		return false
	}
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeUnified:
		return "Unified (apps + web + AI)"
	case SearchModeApps:
		return "Apps (workspace applications only)"
	case SearchModeWeb:
		return "Web (policy-filtered web search)"
	case SearchModeAI:
		return "AI (model providers only)"
	default:
		return unknownDescription
	}
}

// AllSearchModes returns all available search modes.
func AllSearchModes() []SearchMode {
	return []SearchMode{
		SearchModeUnified,
		SearchModeApps,
		SearchModeWeb,
		SearchModeAI,
	}
}

// SearchFilters narrows a search with backend-specific criteria.
// Adapters interpret only the fields their backend understands and
// ignore the rest.
type SearchFilters struct {
	// Project restricts issue-tracker results to a project key.
	Project string

	// Assignee restricts issue-tracker results to an assignee.
	Assignee string

	// Since excludes items last updated before this time.
	Since time.Time

	// Until excludes items last updated after this time.
	Until time.Time
}

// IsZero returns true when no filter is set.
func (f SearchFilters) IsZero() bool {
	return f.Project == "" && f.Assignee == "" && f.Since.IsZero() && f.Until.IsZero()
}

// SearchOptions configures one search call.
type SearchOptions struct {
	// Mode selects the participating connector families.
	// Defaults to SearchModeUnified.
	Mode SearchMode

	// MaxResults is the global result cap, divided across the adapters
	// selected for the mode. Defaults to DefaultResultLimit.
	MaxResults int

	// SourceIDs restricts the search to specific configured sources.
	// Empty means all enabled sources for the mode.
	SourceIDs []string

	// Filters carries backend-specific filter criteria.
	Filters SearchFilters
}
