package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

var chainJSON bool

var chainCmd = &cobra.Command{
	Use:   "chain [reference]",
	Short: "Show an Implementing Rule with its AMC and GM",
	Long: `Retrieves the Implementing Rule at the given reference together with
every Acceptable Means of Compliance and Guidance Material attached to
it. Attachment follows the citation grammar (AMC1 ORO.FTL.110 attaches
to ORO.FTL.110), not semantic similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

func init() {
	chainCmd.Flags().BoolVar(&chainJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(chainCmd)
}

func runChain(cmd *cobra.Command, args []string) error {
	chain, err := chainService.Chain(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if chainJSON {
		return printJSON(cmd, chain)
	}

	cmd.Printf("%s %s\n", render(referenceStyle, chain.IR.Reference), chain.IR.Title)
	printChainSection(cmd, "AMC", chain.AMCs)
	printChainSection(cmd, "GM", chain.GMs)
	if chain.Size() == 1 {
		cmd.Println("  no AMC or GM attached")
	}
	return nil
}

func printChainSection(cmd *cobra.Command, label string, topics []domain.Topic) {
	if len(topics) == 0 {
		return
	}
	cmd.Printf("  %s:\n", label)
	for _, t := range topics {
		cmd.Printf("    %s %s\n", render(referenceStyle, t.Reference), t.Title)
	}
}
