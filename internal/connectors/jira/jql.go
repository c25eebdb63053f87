package jira

import (
	"fmt"
	"strings"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// jqlDateLayout is the date format JQL comparisons accept.
const jqlDateLayout = "2006-01-02"

// selfAssignedPhrases are colloquial phrasings rewritten to an
// assignee = currentUser() clause. Matching is whole-phrase and
// case-insensitive; anything else falls through to a literal text
// search.
var selfAssignedPhrases = []string{
	"assigned to me",
	"my issues",
	"my tickets",
	"my open issues",
}

// BuildJQL assembles a JQL query from free text plus filters.
// Colloquial "assigned to me" phrasing becomes a currentUser() clause;
// the remaining words run as a text match. Quotes in the query are
// stripped rather than escaped, JQL has no sane escape for them.
func BuildJQL(query, project string, filters domain.SearchFilters) string {
	var clauses []string

	text, selfAssigned := rewriteSelfAssigned(query)
	if text != "" {
		clauses = append(clauses, fmt.Sprintf("text ~ %q", sanitise(text)))
	}
	if selfAssigned {
		clauses = append(clauses, "assignee = currentUser()")
	} else if filters.Assignee != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = %q", sanitise(filters.Assignee)))
	}
	if project != "" {
		clauses = append(clauses, fmt.Sprintf("project = %q", sanitise(project)))
	}
	if !filters.Since.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated >= %q", filters.Since.Format(jqlDateLayout)))
	}
	if !filters.Until.IsZero() {
		clauses = append(clauses, fmt.Sprintf("updated <= %q", filters.Until.Format(jqlDateLayout)))
	}

	jql := strings.Join(clauses, " AND ")
	if jql == "" {
		jql = "order by updated DESC"
		return jql
	}
	return jql + " order by updated DESC"
}

// rewriteSelfAssigned strips a self-assignment phrase from the query.
// Returns the remaining text and whether a phrase matched.
func rewriteSelfAssigned(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, phrase := range selfAssignedPhrases {
		if !strings.Contains(lower, phrase) {
			continue
		}
		idx := strings.Index(lower, phrase)
		remaining := query[:idx] + query[idx+len(phrase):]
		return strings.TrimSpace(remaining), true
	}
	return strings.TrimSpace(query), false
}

// sanitise removes characters that would break out of a quoted JQL
// string.
func sanitise(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, `\`, "")
	return s
}
