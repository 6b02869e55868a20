package cli

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := catalogService.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	if stats.Topics == 0 {
		return errors.New("the index is empty, run 'erules build' first")
	}

	cmd.Printf("Topics:     %d\n", stats.Topics)
	cmd.Printf("Vectors:    %d\n", stats.Vectors)
	cmd.Printf("Categories: %d\n", len(stats.ByCategory))
	cmd.Printf("Model:      %s (%d dimensions)\n", stats.Model, stats.Dimensions)
	if stats.BuildID != "" {
		cmd.Printf("Build:      %s", stats.BuildID)
		if !stats.BuiltAt.IsZero() {
			cmd.Printf(" at %s", stats.BuiltAt.Format("2006-01-02 15:04:05 MST"))
		}
		cmd.Println()
	}
	if stats.SizeBytes > 0 {
		cmd.Printf("Size:       %.1f MiB\n", float64(stats.SizeBytes)/(1024*1024))
	}

	kinds := make([]domain.TopicKind, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	cmd.Println("\nBy kind:")
	for _, kind := range kinds {
		cmd.Printf("  %-30s %d\n", kind.Description(), stats.ByKind[kind])
	}
	return nil
}
