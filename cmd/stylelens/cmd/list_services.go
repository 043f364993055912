package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/stylelens/cmd/stylelens/internal/services"
	"github.com/spf13/cobra"
)

var servicesRoot string

// listServicesCmd represents the list-services command
var listServicesCmd = &cobra.Command{
	Use:   "list-services",
	Short: "Lists all services discoverable via the service registry",
	Long: `Scans the codebase for definitions of registry.Key[...] to find all services
that modules can resolve at runtime, and where each one is provided with
registry.Set. Run it from the repository root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := services.Find(servicesRoot)
		if err != nil {
			return fmt.Errorf("failed to find registry keys: %w", err)
		}
		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No services found in the registry.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Available Services in the Registry:")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tTYPE\tPROVIDED BY")
		fmt.Fprintln(w, "---\t----\t-----------")
		for _, s := range found {
			provider := "-"
			if len(s.ProvidedBy) > 0 {
				provider = s.ProvidedBy[0]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Type, provider)
			for _, p := range s.ProvidedBy[min(1, len(s.ProvidedBy)):] {
				fmt.Fprintf(w, "\t\t%s\n", p)
			}
		}
		return w.Flush()
	},
}

func init() {
	listServicesCmd.Flags().StringVar(&servicesRoot, "dir", ".", "module root to scan")
	rootCmd.AddCommand(listServicesCmd)
}
