package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lisboa-tech/olympo-cli/internal/billing"
	"github.com/lisboa-tech/olympo-cli/internal/export"
	"github.com/lisboa-tech/olympo-cli/internal/money"
)

var (
	metricsClients []string
	metricsMonths  []string
	metricsXLSX    string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Fetch billing data and print per-client monthly metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newWebhookClient()

		payload, err := client.FetchBilling(cmd.Context())
		if err != nil {
			return err
		}

		metrics := billing.Aggregate(payload.Usage, payload.Fees)
		metrics = billing.Filter(metrics, metricsClients, metricsMonths)

		printMetrics(metrics)

		if metricsXLSX != "" {
			if err := export.WriteMetricsXLSX(metricsXLSX, metrics); err != nil {
				return err
			}
			zap.L().Info("metrics exported",
				zap.String("path", metricsXLSX),
				zap.Int("rows", len(metrics)),
			)
		}

		return nil
	},
}

func printMetrics(metrics []billing.ClientPeriodMetric) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLIENTE\tMÊS\tVALOR VARIÁVEL\tEVENTOS\tVALOR FIXO\tTICKET MÉDIO")
	for _, m := range metrics {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			m.Client, m.Month,
			money.FormatBRL(m.VariableTotal),
			m.EventCount,
			money.FormatBRL(m.FixedFee),
			money.FormatBRL(m.AverageTicket),
		)
	}
	w.Flush()

	s := billing.Summarize(metrics)
	fmt.Println()
	fmt.Printf("Valor variável total: %s\n", money.FormatBRL(s.VariableTotal))
	fmt.Printf("Valor fixo total:     %s\n", money.FormatBRL(s.FixedTotal))
	fmt.Printf("Eventos: %d  Registros: %d\n", s.EventCount, s.RowCount)
}

func init() {
	metricsCmd.Flags().StringSliceVar(&metricsClients, "cliente", nil, "filter by client (repeatable)")
	metricsCmd.Flags().StringSliceVar(&metricsMonths, "mes", nil, "filter by month (repeatable)")
	metricsCmd.Flags().StringVar(&metricsXLSX, "xlsx", "", "also write metrics to an XLSX file")
	rootCmd.AddCommand(metricsCmd)
}
