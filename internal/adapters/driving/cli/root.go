// Package cli implements the erules command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/erules-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/erules-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/erules-cli/internal/adapters/driven/parser/erules"
	"github.com/custodia-labs/erules-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
	"github.com/custodia-labs/erules-cli/internal/core/services"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// version is the CLI version, overridable at build time with -ldflags.
var version = "0.1.0"

// Persistent flags.
var (
	verboseFlag bool
	configDir   string
	dataDirFlag string
)

// Wired dependencies, populated by initServices before a command runs.
var (
	settings    domain.Settings
	configStore driven.ConfigStore
	topicStore  driven.TopicStore
	embedder    driven.EmbeddingService
	embedderErr error

	indexService      driving.IndexService
	searchService     driving.SearchService
	chainService      driving.ChainService
	validationService driving.ValidationService
	catalogService    driving.CatalogService
)

var rootCmd = &cobra.Command{
	Use:   "erules",
	Short: "Semantic search and compliance tooling for EASA regulations",
	Long: `erules structures EASA eRules XML exports into a searchable corpus.

Build an index once, then search it semantically, retrieve regulations
and their AMC/GM chains, and validate operational texts against the
rule set. All data stays local; only the embedding provider is remote
when OpenAI is configured.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if topicStore != nil {
			return topicStore.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.erules)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory override")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the adapters and services for the invoked command.
// Commands that touch no data (version, help, completion) skip wiring so
// they work on a machine with nothing configured.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}

	cs, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cs

	settings, err = cs.Load()
	if err != nil {
		return err
	}
	if dataDirFlag != "" {
		settings.DataDir = dataDirFlag
	}
	if settings.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		settings.DataDir = filepath.Join(home, ".erules")
	}

	store, err := sqlite.New(filepath.Join(settings.DataDir, "erules.db"))
	if err != nil {
		return fmt.Errorf("opening topic store: %w", err)
	}
	topicStore = store

	// A missing API key must not break commands that never encode
	// anything, so the embedder error is kept for the commands that do.
	embedder, embedderErr = newEmbedder(settings.Embedding)
	if embedderErr != nil {
		logger.Warn("embedding service unavailable: %v", embedderErr)
	}

	indexService = services.NewIndexService(
		erules.NewParser(), topicStore, embedder,
		settings.Embedding.BatchSize, settings.Embedding.MaxInputChars)
	searchService = services.NewSearchService(topicStore, embedder)
	chainService = services.NewChainService(topicStore)
	validationService = services.NewValidationService(searchService)
	catalogService = services.NewCatalogService(topicStore)
	return nil
}

// newEmbedder builds the configured embedding adapter.
func newEmbedder(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.AIProviderOllama, "":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Dimensions:        domain.EmbeddingDimensions()[cfg.Model],
			RequestsPerSecond: cfg.RequestsPerSecond,
		}), nil
	case domain.AIProviderOpenAI:
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("environment variable %s is not set", keyEnv)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            apiKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			RequestsPerSecond: cfg.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// requireEmbedder returns the wiring error of the embedding adapter,
// for commands that cannot run without one.
func requireEmbedder() error {
	if embedder == nil {
		if embedderErr != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, embedderErr)
		}
		return domain.ErrEmbeddingUnavailable
	}
	return nil
}
