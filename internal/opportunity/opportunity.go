// Package opportunity models the growth-potential questionnaire records
// fetched for the dashboard and their fixed answer catalogs.
package opportunity

import (
	"strings"

	"github.com/lisboa-tech/olympo-cli/internal/status"
)

// Record is one client's growth-potential survey row. The JSON tags follow
// the upstream field names, so decoding the webhook payload is also the
// column rename the dashboard needs.
type Record struct {
	Client          string  `json:"nome_do_cliente"`
	HasRevenue      string  `json:"faturamento_monitorado_ou_previsivel"`
	Maturity        string  `json:"cliente_tem_maturidade_para_variavel"`
	Growth          string  `json:"aumento_de_performance_ultimos_3_meses"`
	RawStatus       *string `json:"status_do_cliente"`
	Step            string  `json:"step_atual_do_cliente"`
	Opportunities   string  `json:"oportunidade_de_monetizacao_mapeada"`
	PriceObjections string  `json:"alguma_objecao_de_preco_em_relacao_a_outros_produtos"`

	// CanonicalStatus is derived from RawStatus by Normalize; never
	// supplied by the webhook.
	CanonicalStatus string `json:"-"`
}

// Fixed answer catalogs, in display order.
var (
	StatusOptions = []string{
		"🟢 Safe (resultado sólido, relacionamento positivo, potencial de longo prazo)",
		"🟡 Care (atenção necessária, alguns pontos de risco ou instabilidade)",
		"🔴 Danger (risco de churn ou baixo engajamento)",
		"⚫ Aviso Prévio",
	}
	StepOptions = []string{"V0", "V1", "V2", "V3", "V4"}

	MaturityOptions = []string{
		"Sim, total abertura",
		"Possivelmente, mas precisa ser educado sobre o modelo",
		"Não, prefere contratos fixos tradicionais",
	}
	GrowthOptions = []string{
		"Sim, houve crescimento consistente",
		"Estável, mas com potencial de expansão",
		"Em queda ou sem histórico confiável",
	}
)

// Normalize trims the free-text fields of every record and derives the
// canonical status. Records are modified in place and returned for
// chaining.
func Normalize(records []Record) []Record {
	for i := range records {
		r := &records[i]
		r.Client = strings.TrimSpace(r.Client)
		r.Step = strings.TrimSpace(r.Step)
		r.Maturity = strings.TrimSpace(r.Maturity)
		r.Growth = strings.TrimSpace(r.Growth)
		if r.RawStatus != nil {
			trimmed := strings.TrimSpace(*r.RawStatus)
			r.RawStatus = &trimmed
		}
		r.CanonicalStatus = status.NormalizePtr(r.RawStatus)
	}
	return records
}

// Filters selects records by raw answer values. An empty slice means the
// dimension is unfiltered.
type Filters struct {
	Status   []string
	Step     []string
	Maturity []string
	Growth   []string
}

// Filter returns the records matching every non-empty dimension.
func Filter(records []Record, f Filters) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if !matches(rawStatus(r), f.Status) {
			continue
		}
		if !matches(r.Step, f.Step) {
			continue
		}
		if !matches(r.Maturity, f.Maturity) {
			continue
		}
		if !matches(r.Growth, f.Growth) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Count is one bar of a distribution chart.
type Count struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

// CountByStep tallies records over the full step catalog, zero-filled and
// in catalog order so charts always show all five steps.
func CountByStep(records []Record) []Count {
	return countOver(StepOptions, records, func(r Record) string { return r.Step })
}

// CountByStatus tallies records by canonical status over the four
// canonical buckets, zero-filled. Records in the pass-through fallback
// bucket are not counted here.
func CountByStatus(records []Record) []Count {
	return countOver(status.Canonical, records, func(r Record) string { return r.CanonicalStatus })
}

func countOver(catalog []string, records []Record, key func(Record) string) []Count {
	totals := make(map[string]int, len(catalog))
	for _, r := range records {
		totals[key(r)]++
	}
	out := make([]Count, len(catalog))
	for i, label := range catalog {
		out[i] = Count{Label: label, Total: totals[label]}
	}
	return out
}

func matches(value string, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, s := range selection {
		if value == s {
			return true
		}
	}
	return false
}

func rawStatus(r Record) string {
	if r.RawStatus == nil {
		return ""
	}
	return *r.RawStatus
}
