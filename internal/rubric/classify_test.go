package rubric

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answersAt picks the same option position for every criterion, clamped to
// the criterion's last option.
func answersAt(catalog []Criterion, idx int) Answers {
	a := make(Answers, len(catalog))
	for _, c := range catalog {
		i := idx
		if i >= len(c.Options) {
			i = len(c.Options) - 1
		}
		a[c.Name] = c.Options[i]
	}
	return a
}

func TestClassifyAllLowestScoresZero(t *testing.T) {
	catalog := DefaultCatalog()
	// No overrides so the floor is reachable.
	res, err := Classify(answersAt(catalog, 0), catalog, nil)
	require.NoError(t, err)

	assert.False(t, res.OverrideApplied)
	assert.Zero(t, res.RawPoints)
	assert.InDelta(t, 0, res.Score, 1e-9)
	assert.Equal(t, NotApt, res.Verdict)
}

func TestClassifyAllHighestScoresHundred(t *testing.T) {
	catalog := DefaultCatalog()
	res, err := Classify(answersAt(catalog, len(catalog[0].Options)), catalog, DefaultOverrides())
	require.NoError(t, err)

	assert.False(t, res.OverrideApplied)
	assert.Equal(t, res.MaxPoints, res.RawPoints)
	assert.InDelta(t, 100, res.Score, 1e-9)
	assert.Equal(t, Apt, res.Verdict)
}

func TestClassifyStepV0OverridesEverything(t *testing.T) {
	catalog := DefaultCatalog()
	answers := answersAt(catalog, len(catalog[0].Options)) // best possible answers
	answers["Step"] = "V0"

	res, err := Classify(answers, catalog, DefaultOverrides())
	require.NoError(t, err)

	assert.True(t, res.OverrideApplied)
	assert.Equal(t, NotApt, res.Verdict)
}

func TestClassifyOverrideVariants(t *testing.T) {
	tests := []struct {
		criterion string
		option    string
		want      Verdict
	}{
		{"Step", "V1", Review},
		{"Ebitda", "0% a 10%", NotApt},
		{"Ebitda", "11% a 20%", Review},
	}

	catalog := DefaultCatalog()
	for _, tt := range tests {
		t.Run(tt.criterion+"/"+tt.option, func(t *testing.T) {
			answers := answersAt(catalog, len(catalog[0].Options))
			answers[tt.criterion] = tt.option

			res, err := Classify(answers, catalog, DefaultOverrides())
			require.NoError(t, err)
			assert.True(t, res.OverrideApplied)
			assert.Equal(t, tt.want, res.Verdict)
		})
	}
}

func TestClassifyOverlappingOverridesFirstMatchWins(t *testing.T) {
	catalog := []Criterion{
		{Name: "Step", Options: []string{"V0", "V1"}, Weight: 1},
	}
	overrides := []OverrideRule{
		{Criterion: "Step", Option: "V0", Verdict: Review},
		{Criterion: "Step", Option: "V0", Verdict: NotApt},
	}

	res, err := Classify(Answers{"Step": "V0"}, catalog, overrides)
	require.NoError(t, err)
	assert.True(t, res.OverrideApplied)
	assert.Equal(t, Review, res.Verdict, "declaration order decides overlapping rules")
}

func TestClassifyInvalidAnswers(t *testing.T) {
	catalog := DefaultCatalog()

	t.Run("missing criterion", func(t *testing.T) {
		answers := answersAt(catalog, 1)
		delete(answers, "Health Score")

		res, err := Classify(answers, catalog, DefaultOverrides())
		assert.Nil(t, res)

		var invalid *InvalidAnswerError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Health Score", invalid.Criterion)
		assert.Empty(t, invalid.Option)
	})

	t.Run("unknown option", func(t *testing.T) {
		answers := answersAt(catalog, 1)
		answers["Step"] = "V9"

		res, err := Classify(answers, catalog, DefaultOverrides())
		assert.Nil(t, res)

		var invalid *InvalidAnswerError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Step", invalid.Criterion)
		assert.Equal(t, "V9", invalid.Option)
	})

	t.Run("validation precedes overrides", func(t *testing.T) {
		// A submission that would hit the V0 override still fails when
		// another answer is malformed.
		answers := answersAt(catalog, 1)
		answers["Step"] = "V0"
		answers["Ticket Médio"] = "muito alto"

		_, err := Classify(answers, catalog, DefaultOverrides())
		var invalid *InvalidAnswerError
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestClassifyVerdictBoundaries(t *testing.T) {
	// Single criterion with weight 1 and 101 options makes rank == score.
	options := make([]string, 101)
	for i := range options {
		options[i] = "N" + strconv.Itoa(i)
	}
	catalog := []Criterion{{Name: "Escala", Options: options, Weight: 1}}

	tests := []struct {
		rank int
		want Verdict
	}{
		{100, Apt},
		{70, Apt},    // inclusive lower bound
		{69, Review}, // just under
		{40, Review}, // inclusive lower bound
		{39, NotApt}, // just under
		{0, NotApt},
	}
	for _, tt := range tests {
		res, err := Classify(Answers{"Escala": options[tt.rank]}, catalog, nil)
		require.NoError(t, err)
		assert.InDelta(t, float64(tt.rank), res.Score, 1e-9)
		assert.Equal(t, tt.want, res.Verdict, "rank %d", tt.rank)
	}
}

func TestVerdictForFractionalBoundaries(t *testing.T) {
	assert.Equal(t, Apt, verdictFor(70.0))
	assert.Equal(t, Review, verdictFor(69.99))
	assert.Equal(t, Review, verdictFor(40.0))
	assert.Equal(t, NotApt, verdictFor(39.99))
}

func TestClassifySingleOptionCriterionContributesNothing(t *testing.T) {
	catalog := []Criterion{
		{Name: "Fixo", Options: []string{"Único"}, Weight: 5},
		{Name: "Nota", Options: []string{"Baixa", "Alta"}, Weight: 1},
	}

	res, err := Classify(Answers{"Fixo": "Único", "Nota": "Alta"}, catalog, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.RawPoints)
	assert.Equal(t, 1, res.MaxPoints)
	assert.InDelta(t, 100, res.Score, 1e-9)
}
