package problemgen

import (
	"fmt"
	"strings"

	"playful_math_backend/internal/model"
)

func (g *Generator) fraction(grade int) model.Problem {
	switch grade {
	case 3:
		return g.sameDenominatorFraction()
	case 4:
		return g.mixedNumberFraction()
	default:
		return g.unlikeDenominatorFraction()
	}
}

// sameDenominatorFraction 同分母相加，和保持为真分数且不约分
func (g *Generator) sameDenominatorFraction() model.Problem {
	d := g.between(3, 12)
	a := g.between(1, d-2)
	b := g.between(1, d-1-a)
	sum := a + b

	return model.Problem{
		Question: fmt.Sprintf("What is %d/%d + %d/%d?", a, d, b, d),
		Answer:   fmt.Sprintf("%d/%d", sum, d),
		Explanation: fmt.Sprintf(
			"The denominators are the same (%d), so add the numerators and keep the denominator: %d + %d = %d. So, %d/%d + %d/%d = %d/%d.",
			d, a, b, sum, a, d, b, d, sum, d),
		Hint:           "When the bottom numbers match, only add the top numbers.",
		Difficulty:     1,
		SkillLevel:     model.SkillBeginner,
		CommonMistakes: []string{"Adding the denominators together", "Changing the denominator"},
		RequiredSteps:  1,
	}
}

func (g *Generator) mixedNumberFraction() model.Problem {
	d := g.between(2, 12)
	n := g.between(1, d-1)
	w := g.between(1, 9)
	improper := w*d + n

	return model.Problem{
		Question: fmt.Sprintf("Write %d %d/%d as an improper fraction.", w, n, d),
		Answer:   fmt.Sprintf("%d/%d", improper, d),
		Explanation: fmt.Sprintf(
			"Multiply the whole number by the denominator: %d × %d = %d.\nAdd the numerator: %d + %d = %d.\nKeep the denominator: %d/%d.",
			w, d, w*d, w*d, n, improper, improper, d),
		Hint:           "Whole number times denominator, plus numerator, over the same denominator.",
		Difficulty:     2,
		SkillLevel:     model.SkillIntermediate,
		CommonMistakes: []string{"Adding the whole number to the numerator without multiplying", "Multiplying the denominator too"},
		RequiredSteps:  3,
	}
}

func (g *Generator) unlikeDenominatorFraction() model.Problem {
	a := g.between(2, 12)
	b := g.between(2, 12)
	for b == a {
		b = g.between(2, 12)
	}
	x := g.between(1, a-1)
	y := g.between(1, b-1)

	divisor, trace := gcdTrace(a, b)
	lcd := a * b / divisor
	num := x*(lcd/a) + y*(lcd/b)
	reduced := gcd(num, lcd)
	answer := fmt.Sprintf("%d/%d", num/reduced, lcd/reduced)

	lines := []string{
		fmt.Sprintf("Find the greatest common divisor of %d and %d:", a, b),
	}
	lines = append(lines, trace...)
	lines = append(lines,
		fmt.Sprintf("Least common denominator = %d × %d ÷ %d = %d.", a, b, divisor, lcd),
		fmt.Sprintf("Rewrite: %d/%d = %d/%d and %d/%d = %d/%d.", x, a, x*(lcd/a), lcd, y, b, y*(lcd/b), lcd),
		fmt.Sprintf("Add the numerators: %d + %d = %d, giving %d/%d.", x*(lcd/a), y*(lcd/b), num, num, lcd),
	)
	if reduced > 1 {
		lines = append(lines, fmt.Sprintf("Simplify by dividing by %d: %s.", reduced, answer))
	}

	return model.Problem{
		Question:       fmt.Sprintf("What is %d/%d + %d/%d? Give your answer in simplest form.", x, a, y, b),
		Answer:         answer,
		Explanation:    strings.Join(lines, "\n"),
		Hint:           "Find a common denominator before adding the numerators.",
		Difficulty:     3,
		SkillLevel:     model.SkillAdvanced,
		CommonMistakes: []string{"Adding numerators and denominators straight across", "Forgetting to simplify the result"},
		RequiredSteps:  len(lines),
	}
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// gcdTrace 辗转相除求最大公约数，并记录每一步
func gcdTrace(a, b int) (int, []string) {
	if a < b {
		a, b = b, a
	}
	var steps []string
	for b != 0 {
		steps = append(steps, fmt.Sprintf("%d = %d × %d + %d", a, b, a/b, a%b))
		a, b = b, a%b
	}
	steps = append(steps, fmt.Sprintf("The greatest common divisor is %d.", a))
	return a, steps
}
