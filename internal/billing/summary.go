package billing

import "sort"

// Summary holds the dashboard KPI block computed over (possibly filtered)
// metric rows.
type Summary struct {
	VariableTotal float64 `json:"valor_variavel"`
	FixedTotal    float64 `json:"valor_fixo"`
	EventCount    int     `json:"qtd_eventos"`
	RowCount      int     `json:"qtd_registros"`
}

// Summarize computes the KPI block. The fixed fee repeats on every row of a
// client, so it is counted once per client, not once per row.
func Summarize(metrics []ClientPeriodMetric) Summary {
	s := Summary{RowCount: len(metrics)}
	seenFixed := make(map[string]bool)
	for _, m := range metrics {
		s.VariableTotal += m.VariableTotal
		s.EventCount += m.EventCount
		if !seenFixed[m.Client] {
			seenFixed[m.Client] = true
			s.FixedTotal += m.FixedFee
		}
	}
	return s
}

// Filter returns the rows matching the selected clients and months. An
// empty selection means "all", mirroring the dashboard filter semantics.
func Filter(metrics []ClientPeriodMetric, clients, months []string) []ClientPeriodMetric {
	clientSet := toSet(clients)
	monthSet := toSet(months)

	out := make([]ClientPeriodMetric, 0, len(metrics))
	for _, m := range metrics {
		if clientSet != nil && !clientSet[m.Client] {
			continue
		}
		if monthSet != nil && !monthSet[m.Month] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Clients returns the distinct client names, sorted.
func Clients(metrics []ClientPeriodMetric) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range metrics {
		if !seen[m.Client] {
			seen[m.Client] = true
			out = append(out, m.Client)
		}
	}
	sort.Strings(out)
	return out
}

// MonthsPresent returns the catalog months that appear in the data, in
// calendar order.
func MonthsPresent(metrics []ClientPeriodMetric) []string {
	present := make(map[string]bool)
	for _, m := range metrics {
		present[m.Month] = true
	}
	var out []string
	for _, name := range Months() {
		if present[name] {
			out = append(out, name)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
