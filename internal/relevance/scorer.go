// Package relevance provides the default heuristic relevance scorer.
// It is a deliberate heuristic, not a statistical ranking model: good
// enough to order results from backends that return no score of their
// own, and cheap enough to run on every candidate.
package relevance

import (
	"strings"

	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure Scorer implements the interface.
var _ driven.RelevanceScorer = (*Scorer)(nil)

const (
	// neutralScore is returned for empty queries.
	neutralScore = 0.5

	// fullMatchWeight is added when the whole query appears in the text.
	fullMatchWeight = 0.5

	// wordMatchWeight is added per matching query word.
	wordMatchWeight = 0.15

	// minWordLength excludes short stop-ish words from word matching.
	minWordLength = 3
)

// Scorer is the default word-overlap scorer.
type Scorer struct{}

// NewScorer creates the default scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes a relevance score in [0,1] for the query against the
// candidate text. A case-insensitive match of the full query carries a
// large fixed weight; each query word longer than two characters found
// in the text adds a smaller increment. The result is clamped to [0,1].
func (s *Scorer) Score(query, text string) float64 {
	query = strings.TrimSpace(query)
	if query == "" {
		return neutralScore
	}

	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(text)

	score := 0.0
	if strings.Contains(textLower, queryLower) {
		score += fullMatchWeight
	}

	for _, word := range strings.Fields(queryLower) {
		if len(word) < minWordLength {
			continue
		}
		if strings.Contains(textLower, word) {
			score += wordMatchWeight
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}
