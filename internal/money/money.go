// Package money parses and formats the locale-ambiguous monetary strings
// that arrive from the billing webhooks. Upstream mixes Brazilian
// ("1.234,56", "R$ 2.500") and US ("1,234.56") conventions, sometimes with
// stray text, so parsing is heuristic and never fails: anything that cannot
// be read as a number is coerced to zero.
package money

import (
	"strconv"
	"strings"
)

// ParseAmount converts a raw monetary string to a float64.
//
// All characters other than digits, '.', ',' and '-' are stripped first.
// If the string then contains exactly one comma and that comma sits to the
// right of the last dot, the comma is the decimal separator and dots are
// thousands separators (Brazilian format). Otherwise commas are thousands
// separators; a remaining dot is the decimal point unless every dot
// separates a three-digit group ("R$ 2.500", "1.234.567"), in which case
// the dots are Brazilian thousands separators.
//
// Empty, missing or unparseable input yields 0. Negative amounts are
// allowed via a leading '-'.
func ParseAmount(raw string) float64 {
	s := stripNonNumeric(strings.TrimSpace(raw))

	switch {
	case strings.Count(s, ",") == 1 && strings.LastIndex(s, ",") > strings.LastIndex(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", "")
	case dotsAreGrouping(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// dotsAreGrouping reports whether the dots in s are thousands separators:
// a non-zero integer part followed only by three-digit groups. "2.500" and
// "1.234.567" qualify; "1234.56", "0.500" and ".1200" do not.
func dotsAreGrouping(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return false
	}
	head := strings.TrimPrefix(parts[0], "-")
	if head == "" || head == "0" || len(head) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// ParseAmountPtr is ParseAmount for optional fields: a nil pointer is the
// JSON-null / absent case and yields 0.
func ParseAmountPtr(raw *string) float64 {
	if raw == nil {
		return 0
	}
	return ParseAmount(*raw)
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
