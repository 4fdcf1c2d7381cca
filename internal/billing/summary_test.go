package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleMetrics() []ClientPeriodMetric {
	return []ClientPeriodMetric{
		{Client: "A", Month: "Janeiro", VariableTotal: 150, EventCount: 2, FixedFee: 30, AverageTicket: 75},
		{Client: "A", Month: "Fevereiro", VariableTotal: 80, EventCount: 1, FixedFee: 30, AverageTicket: 80},
		{Client: "B", Month: "Fevereiro", VariableTotal: 200, EventCount: 1, FixedFee: 0, AverageTicket: 200},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleMetrics())

	assert.InDelta(t, 430, s.VariableTotal, 1e-9)
	// A's fee appears on two rows but counts once.
	assert.InDelta(t, 30, s.FixedTotal, 1e-9)
	assert.Equal(t, 4, s.EventCount)
	assert.Equal(t, 3, s.RowCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.VariableTotal)
	assert.Zero(t, s.FixedTotal)
	assert.Zero(t, s.EventCount)
	assert.Zero(t, s.RowCount)
}

func TestFilter(t *testing.T) {
	metrics := sampleMetrics()

	assert.Len(t, Filter(metrics, nil, nil), 3, "empty selection keeps everything")
	assert.Len(t, Filter(metrics, []string{"A"}, nil), 2)
	assert.Len(t, Filter(metrics, nil, []string{"Fevereiro"}), 2)
	assert.Len(t, Filter(metrics, []string{"B"}, []string{"Fevereiro"}), 1)
	assert.Empty(t, Filter(metrics, []string{"C"}, nil))
}

func TestClients(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Clients(sampleMetrics()))
	assert.Empty(t, Clients(nil))
}

func TestMonthsPresent(t *testing.T) {
	got := MonthsPresent([]ClientPeriodMetric{
		{Month: "Dezembro"},
		{Month: "Janeiro"},
		{Month: "Janeiro"},
		{Month: "Trimestre 1"}, // not in catalog, not listed
	})
	assert.Equal(t, []string{"Janeiro", "Dezembro"}, got)
}
