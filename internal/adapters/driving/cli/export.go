package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCategory string

var exportCmd = &cobra.Command{
	Use:   "export [output.json]",
	Short: "Export the indexed corpus as JSON",
	Long: `Writes the indexed topics as a JSON array, without embedding vectors.
With no output path the export goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "export only one category, e.g. ORO.FTL")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		defer f.Close()
		out = f
	}

	if err := catalogService.Export(cmd.Context(), out, exportCategory); err != nil {
		return err
	}
	if len(args) == 1 && args[0] != "-" {
		cmd.Printf("Exported to %s\n", args[0])
	}
	return nil
}
