package domain

import "time"

// Family classifies a connector by the kind of backend it searches.
// The family decides which search modes a source participates in and is
// carried on every result as its SourceType tag.
type Family string

// Known connector families.
const (
	// FamilyIssueTracker covers ticketing backends (Jira).
	FamilyIssueTracker Family = "issue-tracker"

	// FamilyWiki covers knowledge-base backends (Confluence).
	FamilyWiki Family = "wiki"

	// FamilyCodeHost covers repository hosting backends (GitHub, Bitbucket).
	FamilyCodeHost Family = "code-host"

	// FamilyChat covers messaging backends (Slack).
	FamilyChat Family = "chat"

	// FamilyAI covers AI model providers that answer the query directly.
	FamilyAI Family = "ai"

	// FamilyWeb covers generic web search.
	FamilyWeb Family = "web"
)

// IsValid returns true if the family is recognised.
func (f Family) IsValid() bool {
	switch f {
	case FamilyIssueTracker, FamilyWiki, FamilyCodeHost, FamilyChat, FamilyAI, FamilyWeb:
		return true
	default:
		return false
	}
}

// IsWorkspaceApp returns true for families that count as workspace
// applications (everything except web search and AI providers).
func (f Family) IsWorkspaceApp() bool {
	switch f {
	case FamilyIssueTracker, FamilyWiki, FamilyCodeHost, FamilyChat:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Family) String() string {
	return string(f)
}

// SearchResult is the common currency of the search pipeline.
// Every adapter maps its backend-specific payload into this shape.
type SearchResult struct {
	// ID is unique within a single search response. Adapters prefix it
	// with their source ID to avoid cross-adapter collisions.
	ID string

	// Title is the display title extracted from the payload.
	Title string

	// Content is the display body or snippet.
	Content string

	// SourceType identifies the family of the adapter that produced this
	// result.
	SourceType Family

	// SourceLabel is the human-readable name of the configured source
	// (e.g., "Acme Jira").
	SourceLabel string

	// Author is best-effort provenance metadata. May be empty.
	Author string

	// Date is best-effort provenance metadata, used for display only.
	Date time.Time

	// URL is a deep link to the original item. Empty for AI answers.
	URL string

	// Score is the relevance score in [0,1]. Either supplied by the
	// backend or computed by the relevance scorer. Always populated in
	// the final merged list.
	Score float64

	// Metadata carries source-specific fields (status, priority,
	// language, stars, channel ...). Never interpreted by the
	// aggregator, only passed through for display.
	Metadata map[string]any
}
