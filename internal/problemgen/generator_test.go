package problemgen

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"playful_math_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rounds = 500

func newTestGenerator() *Generator {
	return NewWithRand(rand.New(rand.NewPCG(42, 7)))
}

// operands pulls the two numbers out of "What is A op B?".
func operands(t *testing.T, question string) (string, string) {
	t.Helper()
	fields := strings.Fields(strings.TrimSuffix(question, "?"))
	require.Len(t, fields, 5, "unexpected question shape %q", question)
	return fields[2], fields[4]
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func TestGenerate_RejectsUnsupportedInput(t *testing.T) {
	g := newTestGenerator()

	_, err := g.Generate(6, model.ProblemAddition, 1)
	require.ErrorIs(t, err, ErrUnsupportedGrade)

	_, err = g.Generate(2, model.ProblemAddition, 1)
	require.ErrorIs(t, err, ErrUnsupportedGrade)

	_, err = g.Generate(4, model.ProblemType("geometry"), 1)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSubtraction_NeverNegative(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		problems, err := g.Generate(grade, model.ProblemSubtraction, rounds)
		require.NoError(t, err)
		for _, p := range problems {
			a, b := operands(t, p.Question)
			minuend, subtrahend := atoi(t, a), atoi(t, b)
			answer := atoi(t, p.Answer)
			assert.GreaterOrEqual(t, answer, 0)
			assert.Equal(t, minuend-subtrahend, answer, p.Question)
			assert.LessOrEqual(t, minuend, MaxOperand(grade))
		}
	}
}

func TestAddition_WithinCeiling(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		problems, err := g.Generate(grade, model.ProblemAddition, rounds)
		require.NoError(t, err)
		for _, p := range problems {
			a, b := operands(t, p.Question)
			x, y := atoi(t, a), atoi(t, b)
			assert.LessOrEqual(t, x, MaxOperand(grade))
			assert.LessOrEqual(t, y, MaxOperand(grade))
			assert.Equal(t, strconv.Itoa(x+y), p.Answer)
		}
	}
}

func TestDivision_AlwaysExact(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		problems, err := g.Generate(grade, model.ProblemDivision, rounds)
		require.NoError(t, err)
		for _, p := range problems {
			a, b := operands(t, p.Question)
			dividend, divisor := atoi(t, a), atoi(t, b)
			require.NotZero(t, divisor)
			assert.Zero(t, dividend%divisor, p.Question)
			assert.Equal(t, strconv.Itoa(dividend/divisor), p.Answer)
		}
	}
}

func TestMultiplication_Product(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		problems, err := g.Generate(grade, model.ProblemMultiplication, rounds)
		require.NoError(t, err)
		for _, p := range problems {
			a, b := operands(t, p.Question)
			assert.Equal(t, strconv.Itoa(atoi(t, a)*atoi(t, b)), p.Answer)
		}
	}
}

func TestFractions_GradeThreeSameDenominator(t *testing.T) {
	g := newTestGenerator()
	problems, err := g.Generate(3, model.ProblemFractions, rounds)
	require.NoError(t, err)

	for _, p := range problems {
		a, b := operands(t, p.Question)
		an, ad, ok := strings.Cut(a, "/")
		require.True(t, ok)
		bn, bd, ok := strings.Cut(b, "/")
		require.True(t, ok)
		require.Equal(t, ad, bd, "denominators differ in %q", p.Question)

		num, den, ok := strings.Cut(p.Answer, "/")
		require.True(t, ok, "answer %q is not a fraction", p.Answer)
		assert.Equal(t, atoi(t, an)+atoi(t, bn), atoi(t, num))
		assert.Equal(t, ad, den)
		assert.Less(t, atoi(t, num), atoi(t, den))
	}
}

func TestFractions_GradeFiveReduced(t *testing.T) {
	g := newTestGenerator()
	problems, err := g.Generate(5, model.ProblemFractions, rounds)
	require.NoError(t, err)

	for _, p := range problems {
		num, den, ok := strings.Cut(p.Answer, "/")
		require.True(t, ok)
		assert.Equal(t, 1, gcd(atoi(t, num), atoi(t, den)), p.Answer)
	}
}

func TestGenerateBank_Metadata(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		bank, err := g.GenerateBank(grade, 20)
		require.NoError(t, err)
		require.Len(t, bank, 20*len(model.ProblemTypes))

		for _, p := range bank {
			assert.Equal(t, grade, p.Grade)
			assert.Equal(t, model.SourceBank, p.Source)
			assert.GreaterOrEqual(t, p.Difficulty, 1)
			assert.LessOrEqual(t, p.Difficulty, 5)
			assert.NotEmpty(t, p.Answer)
			assert.NotEmpty(t, p.Explanation)
			assert.NotEmpty(t, p.SkillLevel)
			assert.True(t, CheckAnswer(p.Answer, &p), "own answer rejected for %q", p.Question)
		}
	}
}

func TestMultipleChoice_Options(t *testing.T) {
	g := newTestGenerator()
	problems, err := g.Generate(4, model.ProblemMultipleChoice, rounds)
	require.NoError(t, err)

	for _, p := range problems {
		require.Len(t, p.Options, 4)
		assert.Contains(t, []string(p.Options), p.Answer)

		seen := map[string]bool{}
		for _, opt := range p.Options {
			assert.False(t, seen[opt], "duplicate option %q", opt)
			seen[opt] = true
			assert.GreaterOrEqual(t, atoi(t, opt), 0)
		}
	}
}

func TestTrueFalse_AnswerMatchesStatement(t *testing.T) {
	g := newTestGenerator()
	problems, err := g.Generate(3, model.ProblemTrueFalse, rounds)
	require.NoError(t, err)

	for _, p := range problems {
		assert.Equal(t, []string{"True", "False"}, []string(p.Options))
		fields := strings.Fields(strings.TrimPrefix(p.Question, "True or false: "))
		require.Len(t, fields, 5)
		a, b, shown := atoi(t, fields[0]), atoi(t, fields[2]), atoi(t, fields[4])
		actual := a + b
		if fields[1] == "×" {
			actual = a * b
		}
		want := "False"
		if actual == shown {
			want = "True"
		}
		assert.Equal(t, want, p.Answer, p.Question)
	}
}

func TestWordProblem_GradeScenarios(t *testing.T) {
	g := newTestGenerator()
	for _, grade := range model.Grades {
		for i := 0; i < 200; i++ {
			p, sc, err := g.WordProblem(grade)
			require.NoError(t, err)
			assert.NotEmpty(t, sc.Title)
			assert.GreaterOrEqual(t, grade, sc.MinGrade)
			if grade == 3 {
				assert.NotEqual(t, KindDecimal, sc.Kind)
			}
			_, ok := parseNumber(p.Answer)
			assert.True(t, ok, "answer %q is not numeric", p.Answer)
			assert.NotContains(t, p.Question, "{")
		}
	}

	_, _, err := g.WordProblem(7)
	require.ErrorIs(t, err, ErrUnsupportedGrade)
}

func TestExplanationTracksBorrowing(t *testing.T) {
	steps, borrows := subtractionSteps(503, 278)
	assert.Equal(t, 2, borrows)
	require.Len(t, steps, 3)
	assert.Contains(t, steps[0], "borrow 1 from the tens")

	steps, carries := additionSteps(58, 67)
	assert.Equal(t, 2, carries)
	assert.Contains(t, steps[0], "carry 1 to the tens")
}

func TestDifficultyFor(t *testing.T) {
	assert.Equal(t, 1, difficultyFor(2, 3))
	assert.Equal(t, 1, difficultyFor(12, 3))
	assert.Equal(t, 2, difficultyFor(12, 34))
	assert.Equal(t, 5, difficultyFor(99999, 99999))
}

func TestCheckAnswer(t *testing.T) {
	numeric := &model.Problem{Answer: "1200"}
	fraction := &model.Problem{Answer: "3/4"}
	money := &model.Problem{Answer: "4.50"}
	improper := &model.Problem{Answer: "7/2"}
	choice := &model.Problem{Answer: "42", Options: []string{"40", "42", "44", "47"}}
	truth := &model.Problem{Answer: "True", Options: []string{"True", "False"}}

	tests := []struct {
		name    string
		input   string
		problem *model.Problem
		want    bool
	}{
		{"exact integer", "1200", numeric, true},
		{"padded integer", " 1200 ", numeric, true},
		{"thousands separator", "1,200", numeric, true},
		{"leading zeros", "01200", numeric, true},
		{"wrong integer", "1201", numeric, false},
		{"empty", "", numeric, false},
		{"equivalent fraction", "6/8", fraction, true},
		{"decimal for fraction", "0.75", fraction, true},
		{"wrong fraction", "2/4", fraction, false},
		{"zero denominator", "3/0", fraction, false},
		{"trailing zero", "4.5", money, true},
		{"dollar sign", "$4.50", money, true},
		{"mixed number", "3 1/2", improper, true},
		{"choice by text", "42", choice, true},
		{"choice by index", "2", choice, true},
		{"wrong choice index", "1", choice, false},
		{"true false case", "true", truth, true},
		{"true false wrong", "False", truth, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(tt.input, tt.problem))
		})
	}
}
