package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

// timeRounding keeps durations readable in command output.
const timeRounding = 10 * time.Millisecond

var (
	searchTopK     int
	searchMinScore float64
	searchCategory string
	searchKind     string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the regulations semantically",
	Long: `Encodes the query with the configured embedding model and ranks the
indexed regulations by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", -1, "drop results below this score")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict to one category, e.g. ORO.FTL")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "restrict to one kind: IR, AMC_TO_IR, GM_TO_IR, CS, GM_TO_CS")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireEmbedder(); err != nil {
		return err
	}

	opts := domain.SearchOptions{
		TopK:     settings.Search.TopK,
		MinScore: settings.Search.MinScore,
		Category: searchCategory,
	}
	if searchTopK > 0 {
		opts.TopK = searchTopK
	}
	if searchMinScore >= 0 {
		opts.MinScore = searchMinScore
	}
	if searchKind != "" {
		kind := domain.TopicKind(searchKind)
		if !kind.IsValid() {
			return fmt.Errorf("unknown kind %q", searchKind)
		}
		opts.Kind = kind
	}

	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, r := range results {
		cmd.Printf("  [%d] %s  %s\n", i+1,
			render(referenceStyle, r.Reference),
			render(scoreStyle, fmt.Sprintf("(%.3f)", r.Score)))
		cmd.Printf("      %s %s\n", r.Title, render(kindStyle, r.Kind.Description()))
		if r.Content != "" {
			cmd.Printf("      %s\n", snippet(r.Content, 160))
		}
		cmd.Println()
	}
	return nil
}

// printJSON writes v indented to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// snippet truncates s to a single display line.
func snippet(s string, max int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
