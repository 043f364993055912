package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/spf13/cobra"
)

var topicsFormat string

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the events published on the internal bus",
	Long: `Lists every event the server publishes on its watermill bus together with
the payload type. The activity counters on /health are fed by these events.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := pubsub.Catalog()
		switch topicsFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		case "table":
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TOPIC\tPAYLOAD\tDESCRIPTION")
			fmt.Fprintln(w, "-----\t-------\t-----------")
			for _, t := range catalog {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Payload, t.Description)
			}
			return w.Flush()
		default:
			return fmt.Errorf("invalid format %q, valid formats: table, json", topicsFormat)
		}
	},
}

func init() {
	topicsCmd.Flags().StringVarP(&topicsFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.AddCommand(topicsCmd)
}
