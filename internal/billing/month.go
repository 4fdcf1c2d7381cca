package billing

// monthOrder is the canonical calendar order used everywhere a month acts
// as a grouping or sorting key. Month labels come in as free text from the
// webhooks; anything not in this catalog ranks after December so partial
// or dirty data still renders instead of being rejected.
var monthOrder = []string{
	"Janeiro", "Fevereiro", "Março", "Abril",
	"Maio", "Junho", "Julho", "Agosto",
	"Setembro", "Outubro", "Novembro", "Dezembro",
}

var monthRank = func() map[string]int {
	m := make(map[string]int, len(monthOrder))
	for i, name := range monthOrder {
		m[name] = i
	}
	return m
}()

// Months returns the twelve month names in calendar order.
func Months() []string {
	out := make([]string, len(monthOrder))
	copy(out, monthOrder)
	return out
}

// MonthRank returns a month's position in the calendar order (0-based) and
// whether the name is in the catalog. Unknown names rank last.
func MonthRank(name string) (int, bool) {
	r, ok := monthRank[name]
	if !ok {
		return len(monthOrder), false
	}
	return r, true
}
