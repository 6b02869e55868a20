package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List citation categories with topic counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	categories, err := catalogService.Categories(cmd.Context())
	if err != nil {
		return err
	}

	if categoriesJSON {
		return printJSON(cmd, categories)
	}

	if len(categories) == 0 {
		cmd.Println("The index is empty. Run 'erules build' first.")
		return nil
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.Printf("  %-20s %d\n", name, categories[name])
	}
	return nil
}
