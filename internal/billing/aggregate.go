// Package billing derives the per-client monthly metrics behind the revenue
// dashboard: variable totals, event counts, fixed fees and average ticket,
// grouped by client and month and ordered by the calendar.
package billing

import (
	"sort"

	"github.com/lisboa-tech/olympo-cli/internal/money"
)

// UsageRecord is one billable variable event as fetched from the webhook.
// Amount is the raw locale-ambiguous string; parsing happens here.
type UsageRecord struct {
	Client   string `json:"Cliente"`
	Month    string `json:"Mês"`
	Amount   string `json:"Valor Variável"`
	RecordID string `json:"Registro"`
}

// FixedFeeRecord is a client's monthly fixed fee. One row per client is
// expected; when duplicates arrive only the first is authoritative.
type FixedFeeRecord struct {
	Client string `json:"Cliente"`
	Amount string `json:"Valor Fixo"`
}

// ClientPeriodMetric is one derived row per (client, month) pair that had
// at least one usage record. Never mutated after Aggregate returns it.
type ClientPeriodMetric struct {
	Client        string  `json:"cliente"`
	Month         string  `json:"mes"`
	VariableTotal float64 `json:"valor_variavel"`
	EventCount    int     `json:"qtd_eventos"`
	FixedFee      float64 `json:"valor_fixo"`
	AverageTicket float64 `json:"ticket_medio"`
}

type groupKey struct {
	client string
	month  string
}

// Aggregate folds usage records into per-(client, month) metrics and joins
// each row with the client's fixed fee.
//
// Left-join semantics: a client with variable activity but no fixed-fee
// record gets FixedFee 0 rather than being dropped. Average ticket is 0
// when a group somehow has no events. Output is sorted by calendar month
// (unknown month names last); within a month, rows keep input order.
// Empty usage input yields an empty result.
func Aggregate(usage []UsageRecord, fees []FixedFeeRecord) []ClientPeriodMetric {
	type accumulator struct {
		total float64
		count int
		first int // input position, keeps the within-month sort stable
	}

	groups := make(map[groupKey]*accumulator)
	var order []groupKey
	for i, u := range usage {
		key := groupKey{client: u.Client, month: u.Month}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{first: i}
			groups[key] = acc
			order = append(order, key)
		}
		acc.total += money.ParseAmount(u.Amount)
		acc.count++
	}

	feeByClient := feeLookup(fees)

	metrics := make([]ClientPeriodMetric, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		m := ClientPeriodMetric{
			Client:        key.client,
			Month:         key.month,
			VariableTotal: acc.total,
			EventCount:    acc.count,
			FixedFee:      feeByClient[key.client],
		}
		if acc.count > 0 {
			m.AverageTicket = acc.total / float64(acc.count)
		}
		metrics = append(metrics, m)
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		ri, _ := MonthRank(metrics[i].Month)
		rj, _ := MonthRank(metrics[j].Month)
		return ri < rj
	})

	return metrics
}

// feeLookup builds the client → fixed fee map. First record per client
// wins, by input order, so a duplicated fee row cannot inflate totals.
func feeLookup(fees []FixedFeeRecord) map[string]float64 {
	lookup := make(map[string]float64, len(fees))
	for _, f := range fees {
		if _, seen := lookup[f.Client]; seen {
			continue
		}
		lookup[f.Client] = money.ParseAmount(f.Amount)
	}
	return lookup
}
