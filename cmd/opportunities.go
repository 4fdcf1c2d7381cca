package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lisboa-tech/olympo-cli/internal/opportunity"
)

var oppFilters opportunity.Filters

var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "Fetch opportunity records and print their distributions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newWebhookClient()

		records, err := client.FetchOpportunities(cmd.Context())
		if err != nil {
			return err
		}
		records = opportunity.Filter(records, oppFilters)

		fmt.Printf("Clientes: %d\n\n", len(records))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tCLIENTES")
		for _, c := range opportunity.CountByStep(records) {
			fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Total)
		}
		fmt.Fprintln(w, "\nSTATUS\tCLIENTES")
		for _, c := range opportunity.CountByStatus(records) {
			fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Total)
		}
		w.Flush()

		return nil
	},
}

func init() {
	opportunitiesCmd.Flags().StringSliceVar(&oppFilters.Status, "status", nil, "filter by raw status label (repeatable)")
	opportunitiesCmd.Flags().StringSliceVar(&oppFilters.Step, "step", nil, "filter by step (repeatable)")
	opportunitiesCmd.Flags().StringSliceVar(&oppFilters.Maturity, "maturidade", nil, "filter by maturity answer (repeatable)")
	opportunitiesCmd.Flags().StringSliceVar(&oppFilters.Growth, "crescimento", nil, "filter by growth answer (repeatable)")
	rootCmd.AddCommand(opportunitiesCmd)
}
