package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// TopicFilter scopes store reads to a category and/or kind.
// Both predicates combine with AND semantics; zero values mean "any".
type TopicFilter struct {
	// Category is an exact citation category, e.g. "ORO.FTL".
	Category string

	// Kind is an exact topic kind.
	Kind domain.TopicKind
}

// Candidate pairs a stored topic with its embedding for scoring.
// Topics are denormalised so scoring a candidate set never needs a
// second round trip.
type Candidate struct {
	// Topic is the stored topic.
	Topic domain.Topic

	// Vector is the topic's embedding.
	Vector []float32
}

// StoreStats describes the store contents for one build.
type StoreStats struct {
	// Topics is the total stored topic count.
	Topics int

	// Vectors is the total stored embedding count.
	Vectors int

	// ByKind counts topics per kind.
	ByKind map[domain.TopicKind]int

	// ByCategory counts topics per category.
	ByCategory map[string]int

	// Model is the embedding model the store was built with.
	Model string

	// Dimensions is the vector size.
	Dimensions int

	// BuildID identifies the build pass that produced the store.
	BuildID string

	// BuiltAt is when the build pass ran.
	BuiltAt time.Time

	// SizeBytes is the on-disk size, zero for in-memory stores.
	SizeBytes int64
}

// TopicStore persists topics and their vectors. It exclusively owns the
// persisted corpus: a build pass clears and refills it, queries only read.
type TopicStore interface {
	// Begin wipes the store and records the model identity and a fresh
	// build id for the coming build pass. Vectors are immutable after
	// the pass; the only way to change them is another full rebuild.
	Begin(ctx context.Context, model string, dimensions int) error

	// SaveBatch persists topics with their vectors. Both slices are
	// index-aligned. Re-saving an existing reference overwrites
	// atomically; concurrent readers never observe a partial overwrite.
	SaveBatch(ctx context.Context, topics []domain.Topic, vectors [][]float32) error

	// Get retrieves a topic by exact reference.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, reference string) (*domain.Topic, error)

	// Candidates returns the filtered topics joined with their vectors.
	Candidates(ctx context.Context, filter TopicFilter) ([]Candidate, error)

	// ListTopics returns the filtered topics without vectors,
	// ordered by reference.
	ListTopics(ctx context.Context, filter TopicFilter) ([]domain.Topic, error)

	// ListReferences returns the filtered references, ordered ascending.
	ListReferences(ctx context.Context, filter TopicFilter) ([]string, error)

	// Categories returns per-category topic counts.
	Categories(ctx context.Context) (map[string]int, error)

	// ModelIdentifier returns the model the store was built with.
	// Returns domain.ErrStoreEmpty before the first build.
	ModelIdentifier(ctx context.Context) (model string, dimensions int, err error)

	// Stats returns the store statistics.
	Stats(ctx context.Context) (*StoreStats, error)

	// Close releases resources.
	Close() error
}
