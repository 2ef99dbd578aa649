package problemgen

import (
	"fmt"
	"strconv"

	"playful_math_backend/internal/model"
)

const choiceCount = 4

func (g *Generator) multipleChoice(grade int) model.Problem {
	ceiling := MaxOperand(grade)
	a := g.between(10, ceiling/2)
	b := g.between(10, ceiling/2)
	sum := a + b

	// 干扰项：与正确答案相差 1..20，互不相同且非负
	seen := map[int]bool{sum: true}
	options := []string{strconv.Itoa(sum)}
	for len(options) < choiceCount {
		offset := g.between(1, 20)
		if g.coin() {
			offset = -offset
		}
		candidate := sum + offset
		if candidate < 0 || seen[candidate] {
			continue
		}
		seen[candidate] = true
		options = append(options, strconv.Itoa(candidate))
	}
	g.shuffle(options)

	return model.Problem{
		Question:       fmt.Sprintf("Which number equals %d + %d?", a, b),
		Answer:         strconv.Itoa(sum),
		Explanation:    fmt.Sprintf("Add the numbers: %d + %d = %d. The other choices are close but not equal to the sum.", a, b, sum),
		Hint:           "Estimate first by rounding, then check the ones digit of each choice.",
		Options:        options,
		Difficulty:     difficultyFor(a, b),
		SkillLevel:     skillLevelFor(grade, max(a, b)),
		CommonMistakes: []string{"Picking a choice that only matches the estimate", "Forgetting a carry"},
		RequiredSteps:  1,
	}
}

func (g *Generator) trueFalse(grade int) model.Problem {
	var a, b, result int
	var op string
	if g.coin() {
		a = g.between(2, 12)
		b = g.between(2, 12)
		result = a * b
		op = "×"
	} else {
		ceiling := MaxOperand(grade)
		a = g.between(10, ceiling/2)
		b = g.between(10, ceiling/2)
		result = a + b
		op = "+"
	}

	shown := result
	truthful := g.coin()
	if !truthful {
		delta := g.between(1, 10)
		if g.coin() && result-delta >= 0 {
			delta = -delta
		}
		shown = result + delta
	}

	answer := "True"
	explanation := fmt.Sprintf("%d %s %d = %d, so the statement is true.", a, op, b, result)
	if !truthful {
		answer = "False"
		explanation = fmt.Sprintf("%d %s %d = %d, not %d, so the statement is false.", a, op, b, result, shown)
	}

	return model.Problem{
		Question:       fmt.Sprintf("True or false: %d %s %d = %d", a, op, b, shown),
		Answer:         answer,
		Explanation:    explanation,
		Hint:           "Work out the left side yourself, then compare.",
		Options:        []string{"True", "False"},
		Difficulty:     difficultyFor(a, b),
		SkillLevel:     skillLevelFor(grade, max(a, b)),
		CommonMistakes: []string{"Trusting a result that only looks close"},
		RequiredSteps:  2,
	}
}
