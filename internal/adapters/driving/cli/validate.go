package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

var (
	validateFile string
	validateTopK int
	validateJSON bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [text]",
	Short: "Validate an operational text against the regulations",
	Long: `Searches the regulation corpus with the given text and reports a
compliance assessment: an aggregate score, a level, coverage gaps and
regulations worth reviewing. The assessment is advisory; it never
replaces a legal compliance review.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "read the text from a file instead")
	validateCmd.Flags().IntVarP(&validateTopK, "top-k", "n", 0, "number of relevant regulations to analyse")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := requireEmbedder(); err != nil {
		return err
	}

	var text string
	switch {
	case validateFile != "":
		data, err := os.ReadFile(validateFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", validateFile, err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return errors.New("no text given: pass it as an argument or with --file")
	}

	opts := domain.SearchOptions{
		TopK:     settings.Validate.TopK,
		MinScore: settings.Validate.MinScore,
	}
	if validateTopK > 0 {
		opts.TopK = validateTopK
	}

	report, err := validationService.Validate(cmd.Context(), text, opts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if validateJSON {
		return printJSON(cmd, report)
	}

	cmd.Printf("Compliance: %s (score %.2f)\n", renderLevel(report.Level), report.Score)
	cmd.Println(report.Summary)

	if len(report.Results) > 0 {
		cmd.Println("\nRelevant regulations:")
		for _, r := range report.Results {
			cmd.Printf("  %s %s %s\n",
				render(referenceStyle, r.Reference), r.Title,
				render(scoreStyle, fmt.Sprintf("(%.3f)", r.Score)))
		}
	}
	if len(report.Gaps) > 0 {
		cmd.Println("\nGaps:")
		for _, gap := range report.Gaps {
			cmd.Printf("  %s %s\n", render(warnStyle, "!"), gap)
		}
	}
	if len(report.Recommendations) > 0 {
		cmd.Println("\nRecommendations:")
		for _, rec := range report.Recommendations {
			cmd.Printf("  - %s\n", rec)
		}
	}
	return nil
}
