package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get [reference]",
	Short: "Retrieve one regulation by exact reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	topic, err := catalogService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if getJSON {
		return printJSON(cmd, topic)
	}

	cmd.Printf("%s %s\n", render(referenceStyle, topic.Reference), topic.Title)
	cmd.Printf("%s\n", render(kindStyle, topic.Kind.Description()))
	if topic.RegulatorySubject != "" || topic.Domain != "" {
		cmd.Printf("%s | %s\n", topic.RegulatorySubject, topic.Domain)
	}
	if topic.RegulatorySource != "" {
		cmd.Printf("Source: %s\n", topic.RegulatorySource)
	}
	if topic.ApplicabilityDate != "" {
		cmd.Printf("Applicable from: %s\n", topic.ApplicabilityDate)
	}
	if topic.Content != "" {
		cmd.Println()
		cmd.Println(topic.Content)
	}
	if len(topic.Metadata) > 0 {
		cmd.Println()
		keys := make([]string, 0, len(topic.Metadata))
		for k := range topic.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("%s: %s\n", k, topic.Metadata[k])
		}
	}
	return nil
}
