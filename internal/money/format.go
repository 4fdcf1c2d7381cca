package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way the dashboard shows it: grouped
// digits, two decimal places, "R$" prefix (e.g. "R$ 1.234,56").
func FormatBRL(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}
