// Package export writes derived metrics to spreadsheet files for the
// operations team.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/lisboa-tech/olympo-cli/internal/billing"
)

var metricsHeader = []string{
	"Cliente", "Mês", "Valor Variável", "Qtd Eventos", "Valor Fixo", "Ticket Médio",
}

// WriteMetricsXLSX writes the metric rows plus a KPI summary sheet to an
// XLSX workbook at path.
func WriteMetricsXLSX(path string, metrics []billing.ClientPeriodMetric) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Métricas")
	if err != nil {
		return eris.Wrap(err, "export: add metrics sheet")
	}

	header := sheet.AddRow()
	for _, h := range metricsHeader {
		header.AddCell().SetString(h)
	}

	for _, m := range metrics {
		row := sheet.AddRow()
		row.AddCell().SetString(m.Client)
		row.AddCell().SetString(m.Month)
		row.AddCell().SetFloat(m.VariableTotal)
		row.AddCell().SetInt(m.EventCount)
		row.AddCell().SetFloat(m.FixedFee)
		row.AddCell().SetFloat(m.AverageTicket)
	}

	if err := addSummarySheet(f, billing.Summarize(metrics)); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func addSummarySheet(f *xlsx.File, s billing.Summary) error {
	sheet, err := f.AddSheet("KPIs")
	if err != nil {
		return eris.Wrap(err, "export: add kpi sheet")
	}

	kpis := []struct {
		label string
		add   func(*xlsx.Cell)
	}{
		{"Valor Variável Total", func(c *xlsx.Cell) { c.SetFloat(s.VariableTotal) }},
		{"Valor Fixo Total", func(c *xlsx.Cell) { c.SetFloat(s.FixedTotal) }},
		{"Qtd Eventos", func(c *xlsx.Cell) { c.SetInt(s.EventCount) }},
		{"Qtd Registros", func(c *xlsx.Cell) { c.SetInt(s.RowCount) }},
	}
	for _, kpi := range kpis {
		row := sheet.AddRow()
		row.AddCell().SetString(kpi.label)
		kpi.add(row.AddCell())
	}
	return nil
}
