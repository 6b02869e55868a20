package domain

import "time"

// ParseSummary counts the non-fatal issues of one corpus pass. Individual
// bad nodes never abort a parse; they are counted here instead.
type ParseSummary struct {
	// Topics is the number of topics produced, after discard and dedup.
	Topics int

	// Discarded counts scaffolding nodes carrying no information.
	Discarded int

	// Duplicates counts references dropped in favour of their first
	// occurrence in document order.
	Duplicates int

	// Unreferenced counts topics that received a synthesised fallback
	// identifier because no citation grammar matched.
	Unreferenced int
}

// BuildReport summarises one store rebuild.
type BuildReport struct {
	// CorpusPath is the source document.
	CorpusPath string

	// Parse is the parser's issue summary.
	Parse ParseSummary

	// Indexed is the number of topics encoded and persisted.
	Indexed int

	// Model is the embedding model used.
	Model string

	// Dimensions is the vector size.
	Dimensions int

	// BuildID identifies this build pass.
	BuildID string

	// Duration is the wall-clock build time.
	Duration time.Duration
}
