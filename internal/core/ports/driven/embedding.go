package driven

import "context"

// EmbeddingService generates vector embeddings from text. It is the only
// external model the engine consumes: encode(text) -> fixed-size vector,
// deterministic for identical input and model version. The engine does
// not retry or cache calls; batching at the build pipeline is the only
// amortisation performed.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// This is determined by the model and must match the store configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// The topic store records it; a store built with a different model
	// must refuse queries from this encoder.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to a build.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
