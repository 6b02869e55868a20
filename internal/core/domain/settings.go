package domain

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name. The store records it and
	// refuses queries encoded with a different model.
	Model string `toml:"model"`

	// BaseURL is the API endpoint (for Ollama, or OpenAI-compatible APIs).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// Keys never live in the config file itself.
	APIKeyEnv string `toml:"api_key_env,omitempty"`

	// BatchSize is the number of topics encoded per batch during a build.
	BatchSize int `toml:"batch_size,omitempty"`

	// RequestsPerSecond caps the encode request rate. Zero disables
	// the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`

	// MaxInputChars bounds the text submitted per encode call.
	MaxInputChars int `toml:"max_input_chars,omitempty"`
}

// SearchSettings holds default search parameters.
type SearchSettings struct {
	// TopK is the default maximum result count.
	TopK int `toml:"top_k"`

	// MinScore is the default similarity floor.
	MinScore float64 `toml:"min_score"`
}

// ValidateSettings holds default compliance validation parameters.
type ValidateSettings struct {
	// TopK is the number of relevant regulations analysed.
	TopK int `toml:"top_k"`

	// MinScore is the relevance floor for the underlying search.
	MinScore float64 `toml:"min_score"`
}

// Settings holds all application settings.
type Settings struct {
	// DataDir is where the store database lives.
	DataDir string `toml:"data_dir,omitempty"`

	// CorpusPath is the eRules XML export used for builds and watched
	// for staleness during serve.
	CorpusPath string `toml:"corpus_path,omitempty"`

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings `toml:"embedding"`

	// Search holds default search parameters.
	Search SearchSettings `toml:"search"`

	// Validate holds default validation parameters.
	Validate ValidateSettings `toml:"validate"`
}

// DefaultSettings returns settings with sensible defaults: a local
// Ollama encoder and the validation parameters of the reference corpus.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             "nomic-embed-text",
			BatchSize:         32,
			RequestsPerSecond: 8,
			MaxInputChars:     8000,
		},
		Search: SearchSettings{
			TopK:     10,
			MinScore: 0.0,
		},
		Validate: ValidateSettings{
			TopK:     10,
			MinScore: LowThreshold,
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
