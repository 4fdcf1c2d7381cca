// Package status canonicalizes the free-text health-status labels attached
// to opportunity records. Upstream entry is manual, so the same status
// arrives as keyword variants, emoji markers and misspaced labels; a fixed
// ordered rule list maps them onto the four canonical buckets.
package status

import "strings"

// Canonical status values.
const (
	Safe         = "Safe"
	Care         = "Care"
	Danger       = "Danger"
	NoticePeriod = "Aviso Prévio"
)

// Canonical is the fixed display order of the canonical buckets.
var Canonical = []string{Safe, Care, Danger, NoticePeriod}

// rule maps a keyword group to a canonical value. Rules are evaluated in
// order and the first hit wins, so Danger keywords cannot shadow Safe ones
// and vice versa.
type rule struct {
	keywords []string
	value    string
}

var rules = []rule{
	{[]string{"safe", "🟢"}, Safe},
	{[]string{"care", "atenção", "🟡"}, Care},
	{[]string{"danger", "risco", "churn", "🔴"}, Danger},
	{[]string{"aviso", "⚫"}, NoticePeriod},
}

// variants fixes known misspellings before matching, collapsing the marker
// spacing drift seen in historical records.
var variants = map[string]string{
	"⚫Aviso Prévio":   "⚫ Aviso Prévio",
	"⚫  Aviso Prévio": "⚫ Aviso Prévio",
}

// Normalize maps a raw status label to its canonical bucket.
//
// Matching is case-insensitive over trimmed input. A label matching no rule
// is returned verbatim (trimmed): callers must treat that as a catch-all
// bucket, not a fifth confirmed category. IsCanonical distinguishes the two.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if fixed, ok := variants[s]; ok {
		s = fixed
	}

	lower := strings.ToLower(s)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.value
			}
		}
	}
	return s
}

// NormalizePtr handles the absent / non-string upstream case: a nil input
// defaults to NoticePeriod. Historical quirk kept from the source system.
func NormalizePtr(raw *string) string {
	if raw == nil {
		return NoticePeriod
	}
	return Normalize(*raw)
}

// IsCanonical reports whether s is one of the four canonical buckets.
func IsCanonical(s string) bool {
	for _, c := range Canonical {
		if s == c {
			return true
		}
	}
	return false
}
