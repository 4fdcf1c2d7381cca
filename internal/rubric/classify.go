package rubric

import "fmt"

// Result is the outcome of one classification. When OverrideApplied is
// true the point fields are not meaningful and must not be read.
type Result struct {
	RawPoints       int     `json:"pontos"`
	MaxPoints       int     `json:"pontos_maximos"`
	Score           float64 `json:"pontuacao"`
	Verdict         Verdict `json:"resultado"`
	OverrideApplied bool    `json:"regra_forcada"`
}

// InvalidAnswerError reports a missing answer or an option outside the
// criterion's catalog. It is fatal to the classification attempt.
type InvalidAnswerError struct {
	Criterion string
	Option    string // empty when the answer is missing entirely
}

func (e *InvalidAnswerError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("rubric: no answer for criterion %q", e.Criterion)
	}
	return fmt.Sprintf("rubric: answer %q is not an option of criterion %q", e.Option, e.Criterion)
}

// Verdict bands, inclusive on the lower bound.
const (
	aptThreshold    = 70.0
	reviewThreshold = 40.0
)

// Classify scores a full set of answers against the catalog.
//
// Every criterion must be answered with one of its own options; otherwise
// an *InvalidAnswerError is returned and no Result is produced. Override
// rules are checked first, in declaration order, and short-circuit scoring.
// Otherwise each answer contributes rank*weight points, the total is
// normalized against the catalog maximum and mapped to a verdict.
//
// Classify is pure: it holds no state between calls and is safe for
// concurrent use.
func Classify(answers Answers, catalog []Criterion, overrides []OverrideRule) (*Result, error) {
	byName := make(map[string]Criterion, len(catalog))
	for _, c := range catalog {
		byName[c.Name] = c
	}

	// Validation first, so an override never masks a malformed submission.
	for _, c := range catalog {
		answer, ok := answers[c.Name]
		if !ok || answer == "" {
			return nil, &InvalidAnswerError{Criterion: c.Name}
		}
		if _, ok := c.OptionRank(answer); !ok {
			return nil, &InvalidAnswerError{Criterion: c.Name, Option: answer}
		}
	}

	for _, rule := range overrides {
		if answers[rule.Criterion] == rule.Option {
			return &Result{Verdict: rule.Verdict, OverrideApplied: true}, nil
		}
	}

	var points, maxPoints int
	for _, c := range catalog {
		rank, _ := c.OptionRank(answers[c.Name])
		points += rank * c.Weight
		maxPoints += (len(c.Options) - 1) * c.Weight
	}

	var score float64
	if maxPoints > 0 {
		score = float64(points) / float64(maxPoints) * 100
	}

	return &Result{
		RawPoints: points,
		MaxPoints: maxPoints,
		Score:     score,
		Verdict:   verdictFor(score),
	}, nil
}

func verdictFor(score float64) Verdict {
	switch {
	case score >= aptThreshold:
		return Apt
	case score >= reviewThreshold:
		return Review
	default:
		return NotApt
	}
}
