package domain

import "sort"

// SearchOptions configures a semantic search query.
type SearchOptions struct {
	// TopK is the maximum number of results. Zero means no results,
	// not an error; it is an advisory filter, not a query rewrite.
	TopK int

	// MinScore drops results below this cosine similarity.
	MinScore float64

	// Category filters to one citation category, e.g. "ORO.FTL".
	// Empty means all categories.
	Category string

	// Kind filters to one topic kind. Empty means all kinds.
	Kind TopicKind
}

// SearchResult is a single ranked match, denormalised from the stored
// topic so callers never need a second round trip for display.
type SearchResult struct {
	// Reference is the matched topic's citation.
	Reference string

	// Title is the matched topic's heading.
	Title string

	// Content is the matched topic's full text body.
	Content string

	// Kind is the matched topic's classification.
	Kind TopicKind

	// Score is the cosine similarity against the query, in [-1, 1].
	Score float64
}

// SortResults orders results by score descending; ties break by
// reference ascending so repeated queries are deterministic.
func SortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Reference < results[j].Reference
	})
}
