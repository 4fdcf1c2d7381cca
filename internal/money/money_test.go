package money

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"plain integer", "100", 100},
		{"plain decimal", "1234.56", 1234.56},
		{"brazilian thousands and decimal", "1.234,56", 1234.56},
		{"us thousands and decimal", "1,234.56", 1234.56},
		{"currency prefix with thousands dot", "R$ 2.500", 2500},
		{"bare thousands dot", "2.500", 2500},
		{"dot groups without comma", "1.234.567", 1234567},
		{"zero integer part keeps decimal dot", "0.500", 0.5},
		{"four digit head keeps decimal dot", "1234.567", 1234.567},
		{"currency prefix brazilian decimal", "R$ 1.234,56", 1234.56},
		{"comma decimal only", "99,90", 99.9},
		{"multiple thousands groups", "1.234.567,89", 1234567.89},
		{"us multiple thousands groups", "1,234,567.89", 1234567.89},
		{"negative", "-150,25", -150.25},
		{"negative with symbol", "R$ -300", -300},
		{"letters only", "abc", 0},
		{"stray text around number", "aprox. 1200 reais", 0.12},
		{"two commas no dot", "1,234,56", 123456},
		{"trailing junk after strip", "12..34", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.raw), 1e-9)
		})
	}
}

func TestParseAmountCanonicalRoundTrip(t *testing.T) {
	// Re-parsing a canonically formatted value is the identity.
	for _, v := range []float64{0, 75, 1234.56, -99.9, 2500} {
		s := strconv.FormatFloat(v, 'f', 2, 64)
		assert.InDelta(t, v, ParseAmount(s), 1e-9, "round trip %s", s)
	}
}

func TestParseAmountPtr(t *testing.T) {
	assert.Zero(t, ParseAmountPtr(nil))

	s := "1.234,56"
	assert.InDelta(t, 1234.56, ParseAmountPtr(&s), 1e-9)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 2.500,00", FormatBRL(2500))
}
