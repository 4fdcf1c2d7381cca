// Package rubric implements the client-fitness classification: a weighted
// questionnaire scored by option rank, normalized to 0-100 and mapped to a
// three-tier verdict, with absolute override rules that bypass scoring.
package rubric

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Verdict is the classification outcome.
type Verdict string

const (
	Apt    Verdict = "Apto"
	Review Verdict = "Revisar"
	NotApt Verdict = "Não Apto"
)

// Criterion is one questionnaire entry. Options are ordered worst to best;
// an answer's position in the slice is its rank.
type Criterion struct {
	Name    string   `yaml:"name"`
	Options []string `yaml:"options"`
	Weight  int      `yaml:"weight"`
}

// OptionRank returns the rank of an option and whether it belongs to the
// criterion's catalog.
func (c Criterion) OptionRank(option string) (int, bool) {
	for i, opt := range c.Options {
		if opt == option {
			return i, true
		}
	}
	return 0, false
}

// OverrideRule forces a verdict when a specific option is picked for a
// specific criterion, regardless of every other answer. Rules are evaluated
// in declaration order and the first match wins; today no two rules share a
// (criterion, option) pair, but the order is contractual so future
// overlapping rules stay deterministic.
type OverrideRule struct {
	Criterion string  `yaml:"criterion"`
	Option    string  `yaml:"option"`
	Verdict   Verdict `yaml:"verdict"`
}

// Answers maps a criterion name to the selected option.
type Answers map[string]string

// DefaultCatalog is the business rubric in force: ten criteria, weighted.
func DefaultCatalog() []Criterion {
	return []Criterion{
		{
			Name: "Faturamento",
			Options: []string{
				"0 a 69mil", "70mil a 100mil", "101mil a 200mil", "201mil a 400mil",
				"401mil a 1mm", "1mm a 2mm", "2mm a 4mm", "5mm a 16mm",
				"17mm a 40mm", "Acima de 40mm",
			},
			Weight: 2,
		},
		{
			Name:    "Ticket Médio",
			Options: []string{"Até R$2.000", "Entre R$2.000 e R$20.0000", "Acima de R$20.000"},
			Weight:  2,
		},
		{
			Name:    "Step",
			Options: []string{"V0", "V1", "V2", "V3", "V4"},
			Weight:  3,
		},
		{
			Name:    "Empresa Familiar",
			Options: []string{"Sim", "Não"},
			Weight:  2,
		},
		{
			Name:    "Tempo de Mercado",
			Options: []string{"Novo", "1-2 anos", "2-5 anos", "5+ anos"},
			Weight:  1,
		},
		{
			Name: "Ebitda",
			Options: []string{
				"0% a 10%", "11% a 20%", "21% a 30%", "31% a 40%",
				"51% a 60%", "61% a 70%", "81% a 90%", "91% a 100%",
			},
			Weight: 3,
		},
		{
			Name:    "Aderência do Cliente ao Modelo Variável",
			Options: []string{"Baixo", "Médio", "Alto"},
			Weight:  3,
		},
		{
			Name:    "Projeto tem CRM sendo utilizado a mais de 1 ano?",
			Options: []string{"Não", "Sim"},
			Weight:  3,
		},
		{
			Name:    "Projeto tem inteligencia de dados de funil comercial?",
			Options: []string{"Não", "Sim"},
			Weight:  3,
		},
		{
			Name:    "Health Score",
			Options: []string{"Novo Cliente", "Aviso Prévio", "Danger", "Care", "Safe"},
			Weight:  2,
		},
	}
}

// DefaultOverrides are the absolute rules: an early-step or low-margin
// client is rejected or flagged before any points are counted.
func DefaultOverrides() []OverrideRule {
	return []OverrideRule{
		{Criterion: "Step", Option: "V0", Verdict: NotApt},
		{Criterion: "Step", Option: "V1", Verdict: Review},
		{Criterion: "Ebitda", Option: "0% a 10%", Verdict: NotApt},
		{Criterion: "Ebitda", Option: "11% a 20%", Verdict: Review},
	}
}

// ValidateCatalog checks that a catalog and its overrides are internally
// consistent before they are used to classify anything.
func ValidateCatalog(catalog []Criterion, overrides []OverrideRule) error {
	var errs []string

	if len(catalog) == 0 {
		errs = append(errs, "catalog must have at least one criterion")
	}

	byName := make(map[string]Criterion, len(catalog))
	for _, c := range catalog {
		if c.Name == "" {
			errs = append(errs, "criterion with empty name")
			continue
		}
		if _, dup := byName[c.Name]; dup {
			errs = append(errs, fmt.Sprintf("duplicate criterion %q", c.Name))
		}
		byName[c.Name] = c
		if len(c.Options) == 0 {
			errs = append(errs, fmt.Sprintf("criterion %q has no options", c.Name))
		}
		if c.Weight < 1 {
			errs = append(errs, fmt.Sprintf("criterion %q has weight %d, must be >= 1", c.Name, c.Weight))
		}
	}

	for _, r := range overrides {
		c, ok := byName[r.Criterion]
		if !ok {
			errs = append(errs, fmt.Sprintf("override references unknown criterion %q", r.Criterion))
			continue
		}
		if _, ok := c.OptionRank(r.Option); !ok {
			errs = append(errs, fmt.Sprintf("override option %q not in criterion %q", r.Option, r.Criterion))
		}
		switch r.Verdict {
		case Apt, Review, NotApt:
		default:
			errs = append(errs, fmt.Sprintf("override for %q has unknown verdict %q", r.Criterion, r.Verdict))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("rubric: invalid catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}
