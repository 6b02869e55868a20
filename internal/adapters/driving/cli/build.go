package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/adapters/driven/parser/erules"
	"github.com/custodia-labs/erules-cli/internal/core/services"
)

var buildBatchSize int

var buildCmd = &cobra.Command{
	Use:   "build [corpus.xml]",
	Short: "Build the search index from an eRules XML export",
	Long: `Parses the eRules XML export, encodes every topic with the configured
embedding model and rebuilds the local index from scratch. The previous
index is replaced; searches keep working until the build commits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().IntVar(&buildBatchSize, "batch-size", 0, "topics encoded per batch (default from config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	corpusPath := settings.CorpusPath
	if len(args) == 1 {
		corpusPath = args[0]
	}
	if corpusPath == "" {
		return errors.New("no corpus given: pass a path or set corpus_path in the config")
	}

	if err := requireEmbedder(); err != nil {
		return err
	}
	if buildBatchSize > 0 {
		indexService = services.NewIndexService(
			erules.NewParser(), topicStore, embedder,
			buildBatchSize, settings.Embedding.MaxInputChars)
	}

	report, err := indexService.Build(cmd.Context(), corpusPath)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Indexed %d topics from %s\n", report.Indexed, report.CorpusPath)
	cmd.Printf("  model:        %s (%d dimensions)\n", report.Model, report.Dimensions)
	cmd.Printf("  build:        %s\n", report.BuildID)
	cmd.Printf("  duration:     %s\n", report.Duration.Round(timeRounding))
	if report.Parse.Discarded > 0 {
		cmd.Printf("  discarded:    %d structural nodes\n", report.Parse.Discarded)
	}
	if report.Parse.Duplicates > 0 {
		cmd.Printf("  duplicates:   %d (first occurrence kept)\n", report.Parse.Duplicates)
	}
	if report.Parse.Unreferenced > 0 {
		cmd.Printf("  unreferenced: %d (synthesised identifiers)\n", report.Parse.Unreferenced)
	}

	// Remember the corpus for later builds and the serve watcher.
	if len(args) == 1 && settings.CorpusPath != corpusPath {
		settings.CorpusPath = corpusPath
		if err := configStore.Save(settings); err != nil {
			cmd.Println(render(warnStyle, fmt.Sprintf("warning: could not save corpus path: %v", err)))
		}
	}
	return nil
}
