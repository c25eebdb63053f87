package confluence

import (
	"fmt"
	"strings"

	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
)

// cqlDateLayout is the date format CQL comparisons accept.
const cqlDateLayout = "2006-01-02"

// BuildCQL assembles a CQL query: a text match over pages and blog
// posts, optionally restricted to a space and a modification window.
func BuildCQL(query, space string, filters domain.SearchFilters) string {
	clauses := []string{
		fmt.Sprintf("text ~ %q", sanitise(query)),
		`type in ("page","blogpost")`,
	}
	if space != "" {
		clauses = append(clauses, fmt.Sprintf("space = %q", sanitise(space)))
	}
	if !filters.Since.IsZero() {
		clauses = append(clauses, fmt.Sprintf("lastmodified >= %q", filters.Since.Format(cqlDateLayout)))
	}
	if !filters.Until.IsZero() {
		clauses = append(clauses, fmt.Sprintf("lastmodified <= %q", filters.Until.Format(cqlDateLayout)))
	}
	return strings.Join(clauses, " AND ")
}

// sanitise removes characters that would break out of a quoted CQL
// string.
func sanitise(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, `\`, "")
	return s
}
