package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lisboa-tech/olympo-cli/internal/billing"
	"github.com/lisboa-tech/olympo-cli/internal/opportunity"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the combined billing and opportunity overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newWebhookClient()

		payload, records, err := client.FetchAll(cmd.Context())
		if err != nil {
			return err
		}

		metrics := billing.Aggregate(payload.Usage, payload.Fees)
		printMetrics(metrics)

		fmt.Println()
		printCounts("STEP", opportunity.CountByStep(records))
		fmt.Println()
		printCounts("STATUS", opportunity.CountByStatus(records))

		return nil
	},
}

func printCounts(header string, counts []opportunity.Count) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCLIENTES\n", header)
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Total)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
