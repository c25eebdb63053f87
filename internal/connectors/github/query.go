package github

import "strings"

// myReposPhrases are colloquial phrasings rewritten to a user:@me
// qualifier. Matching is whole-phrase and case-insensitive; anything
// else runs as a literal keyword query.
var myReposPhrases = []string{
	"show me my repos",
	"my repositories",
	"my repos",
	"my projects",
}

// RewriteQuery turns colloquial phrasing into GitHub search syntax.
// Best-effort heuristic: a self-reference phrase becomes user:@me,
// everything else passes through unchanged.
func RewriteQuery(query string) string {
	lower := strings.ToLower(query)
	for _, phrase := range myReposPhrases {
		if !strings.Contains(lower, phrase) {
			continue
		}
		idx := strings.Index(lower, phrase)
		remaining := strings.TrimSpace(query[:idx] + query[idx+len(phrase):])
		if remaining == "" {
			return "user:@me"
		}
		return remaining + " user:@me"
	}
	return query
}
