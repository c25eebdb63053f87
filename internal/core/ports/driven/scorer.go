package driven

// RelevanceScorer computes a relevance score in [0,1] for a
// (query, candidate text) pair. Adapters call it when their backend
// supplies no ranking of its own.
//
// The scoring strategy is pluggable so the default heuristic can be
// swapped for a real ranking model without touching the dispatcher or
// the aggregator.
type RelevanceScorer interface {
	Score(query, text string) float64
}
