package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested topic or chain root does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoReference indicates that none of the citation grammars matched
	// a topic heading. Callers fall back to a synthesised identifier;
	// the resolver itself never guesses.
	ErrNoReference = errors.New("no reference found")

	// ErrModelMismatch indicates the stored vectors and the configured
	// encoder disagree on the embedding model. Comparing vectors from
	// different models silently corrupts every score, so this is fatal.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrUnsupportedFormat indicates the source document is missing one of
	// the two required trees (table of contents or content) and cannot be
	// parsed at all.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyInput indicates empty text was submitted for validation.
	ErrEmptyInput = errors.New("validation input empty")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Building and searching the store both require an encoder.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreEmpty indicates the topic store has not been built yet.
	ErrStoreEmpty = errors.New("topic store is empty")
)
