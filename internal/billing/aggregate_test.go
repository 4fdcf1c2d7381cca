package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usage(client, month, amount string) UsageRecord {
	return UsageRecord{Client: client, Month: month, Amount: amount}
}

func TestAggregate(t *testing.T) {
	metrics := Aggregate(
		[]UsageRecord{
			usage("A", "Janeiro", "100"),
			usage("A", "Janeiro", "50"),
			usage("B", "Fevereiro", "200"),
		},
		[]FixedFeeRecord{
			{Client: "A", Amount: "30"},
		},
	)

	require.Len(t, metrics, 2)

	// Janeiro before Fevereiro.
	a := metrics[0]
	assert.Equal(t, "A", a.Client)
	assert.Equal(t, "Janeiro", a.Month)
	assert.InDelta(t, 150, a.VariableTotal, 1e-9)
	assert.Equal(t, 2, a.EventCount)
	assert.InDelta(t, 30, a.FixedFee, 1e-9)
	assert.InDelta(t, 75, a.AverageTicket, 1e-9)

	b := metrics[1]
	assert.Equal(t, "B", b.Client)
	assert.Equal(t, "Fevereiro", b.Month)
	assert.InDelta(t, 200, b.VariableTotal, 1e-9)
	assert.Equal(t, 1, b.EventCount)
	assert.Zero(t, b.FixedFee, "client without fee record keeps the row with fee 0")
	assert.InDelta(t, 200, b.AverageTicket, 1e-9)
}

func TestAggregateEmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, nil))
	assert.Empty(t, Aggregate(nil, []FixedFeeRecord{{Client: "A", Amount: "30"}}))
}

func TestAggregateParsesLocaleAmounts(t *testing.T) {
	metrics := Aggregate(
		[]UsageRecord{
			usage("A", "Março", "R$ 1.234,56"),
			usage("A", "Março", "1,000.44"),
		},
		nil,
	)

	require.Len(t, metrics, 1)
	assert.InDelta(t, 2235.0, metrics[0].VariableTotal, 1e-9)
}

func TestAggregateFirstFeeWins(t *testing.T) {
	metrics := Aggregate(
		[]UsageRecord{usage("A", "Janeiro", "10")},
		[]FixedFeeRecord{
			{Client: "A", Amount: "500"},
			{Client: "A", Amount: "999"},
		},
	)

	require.Len(t, metrics, 1)
	assert.InDelta(t, 500, metrics[0].FixedFee, 1e-9)
}

func TestAggregateMonthOrdering(t *testing.T) {
	metrics := Aggregate(
		[]UsageRecord{
			usage("A", "Dezembro", "1"),
			usage("A", "Trimestre 1", "1"), // out of catalog, sorts last
			usage("A", "Janeiro", "1"),
			usage("B", "Janeiro", "1"),
		},
		nil,
	)

	require.Len(t, metrics, 4)
	assert.Equal(t, "Janeiro", metrics[0].Month)
	assert.Equal(t, "Janeiro", metrics[1].Month)
	// Equal months keep input order: A grouped before B.
	assert.Equal(t, "A", metrics[0].Client)
	assert.Equal(t, "B", metrics[1].Client)
	assert.Equal(t, "Dezembro", metrics[2].Month)
	assert.Equal(t, "Trimestre 1", metrics[3].Month)
}

func TestAggregateUnparseableAmountsCountAsZero(t *testing.T) {
	metrics := Aggregate(
		[]UsageRecord{
			usage("A", "Janeiro", "a combinar"),
			usage("A", "Janeiro", "100"),
		},
		nil,
	)

	require.Len(t, metrics, 1)
	assert.InDelta(t, 100, metrics[0].VariableTotal, 1e-9)
	// The bad record still counts as an event and dilutes the ticket.
	assert.Equal(t, 2, metrics[0].EventCount)
	assert.InDelta(t, 50, metrics[0].AverageTicket, 1e-9)
}

func TestMonthRank(t *testing.T) {
	r, ok := MonthRank("Janeiro")
	assert.True(t, ok)
	assert.Equal(t, 0, r)

	r, ok = MonthRank("Dezembro")
	assert.True(t, ok)
	assert.Equal(t, 11, r)

	r, ok = MonthRank("January")
	assert.False(t, ok)
	assert.Equal(t, 12, r)
}
