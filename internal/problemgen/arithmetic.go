package problemgen

import (
	"fmt"
	"strconv"
	"strings"

	"playful_math_backend/internal/model"
)

var placeNames = []string{"ones", "tens", "hundreds", "thousands", "ten-thousands", "hundred-thousands", "millions"}

func placeName(i int) string {
	if i < len(placeNames) {
		return placeNames[i]
	}
	return fmt.Sprintf("10^%d place", i)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func digitAt(n, place int) int {
	for i := 0; i < place; i++ {
		n /= 10
	}
	return n % 10
}

func (g *Generator) addition(grade int) model.Problem {
	ceiling := MaxOperand(grade)
	a := g.between(10, ceiling)
	b := g.between(10, ceiling)
	sum := a + b

	steps, carries := additionSteps(a, b)
	explanation := "Line up the numbers by place value and add from right to left.\n" +
		strings.Join(steps, "\n") +
		fmt.Sprintf("\nSo, %d + %d = %d.", a, b, sum)

	mistakes := []string{"Adding digits from different place values"}
	if carries > 0 {
		mistakes = append(mistakes, "Forgetting to add the carried digit to the next column")
	}

	return model.Problem{
		Question:       fmt.Sprintf("What is %d + %d?", a, b),
		Answer:         strconv.Itoa(sum),
		Explanation:    explanation,
		Hint:           "Start with the ones column. If a column adds up to 10 or more, carry to the next column.",
		Difficulty:     difficultyFor(a, b),
		SkillLevel:     skillLevelFor(grade, max(a, b)),
		CommonMistakes: mistakes,
		RequiredSteps:  len(steps),
	}
}

// additionSteps 按位列竖式加法，写明每一位的进位
func additionSteps(a, b int) ([]string, int) {
	columns := max(digitCount(a), digitCount(b))
	var steps []string
	carry, carries := 0, 0
	for i := 0; i < columns; i++ {
		da, db := digitAt(a, i), digitAt(b, i)
		total := da + db + carry
		var line string
		if carry > 0 {
			line = fmt.Sprintf("%s: %d + %d + %d (carried) = %d.", capitalize(placeName(i)), da, db, carry, total)
		} else {
			line = fmt.Sprintf("%s: %d + %d = %d.", capitalize(placeName(i)), da, db, total)
		}
		if total >= 10 {
			carry = total / 10
			carries++
			if i == columns-1 {
				line += fmt.Sprintf(" Write %d.", total)
			} else {
				line += fmt.Sprintf(" Write %d, carry %d to the %s.", total%10, carry, placeName(i+1))
			}
		} else {
			carry = 0
			line += fmt.Sprintf(" Write %d.", total)
		}
		steps = append(steps, line)
	}
	return steps, carries
}

func (g *Generator) subtraction(grade int) model.Problem {
	ceiling := MaxOperand(grade)
	// 先取结果和减数，再推出被减数，保证答案非负
	result := g.between(0, ceiling-1)
	subtrahend := g.between(1, ceiling-result)
	minuend := result + subtrahend

	steps, borrows := subtractionSteps(minuend, subtrahend)
	explanation := "Line up the numbers by place value and subtract from right to left.\n" +
		strings.Join(steps, "\n") +
		fmt.Sprintf("\nSo, %d - %d = %d. Check: %d + %d = %d.", minuend, subtrahend, result, result, subtrahend, minuend)

	mistakes := []string{"Subtracting the smaller digit from the larger one regardless of position"}
	if borrows > 0 {
		mistakes = append(mistakes, "Forgetting that a column lent 1 to its neighbor")
	}

	return model.Problem{
		Question:       fmt.Sprintf("What is %d - %d?", minuend, subtrahend),
		Answer:         strconv.Itoa(result),
		Explanation:    explanation,
		Hint:           "If the top digit is smaller than the bottom digit, borrow 1 from the next column.",
		Difficulty:     difficultyFor(minuend, subtrahend),
		SkillLevel:     skillLevelFor(grade, minuend),
		CommonMistakes: mistakes,
		RequiredSteps:  len(steps),
	}
}

// subtractionSteps 按位列竖式减法，写明每一位的借位；要求 minuend >= subtrahend
func subtractionSteps(minuend, subtrahend int) ([]string, int) {
	columns := digitCount(minuend)
	var steps []string
	borrow, borrows := 0, 0
	for i := 0; i < columns; i++ {
		digit := digitAt(minuend, i)
		top := digit - borrow
		bottom := digitAt(subtrahend, i)
		name := capitalize(placeName(i))
		label := strconv.Itoa(digit)
		if borrow > 0 {
			label = fmt.Sprintf("%d - 1 (lent) = %d", digit, top)
		}
		if top < bottom {
			borrows++
			steps = append(steps, fmt.Sprintf("%s: %s is less than %d, so borrow 1 from the %s: %d - %d = %d.",
				name, label, bottom, placeName(i+1), top+10, bottom, top+10-bottom))
			borrow = 1
		} else {
			steps = append(steps, fmt.Sprintf("%s: %s, then %d - %d = %d.", name, label, top, bottom, top-bottom))
			borrow = 0
		}
	}
	return steps, borrows
}

func (g *Generator) multiplication(grade int) model.Problem {
	var a, b int
	switch grade {
	case 3:
		a, b = g.between(2, 10), g.between(2, 10)
	case 4:
		a, b = g.between(10, 99), g.between(2, 9)
	default:
		a, b = g.between(10, 999), g.between(10, 99)
	}
	product := a * b

	var explanation string
	steps := 1
	switch {
	case b >= 10:
		// 按位拆分乘数：a × (30 + 4) = a × 30 + a × 4
		parts := placeParts(b)
		lines := make([]string, 0, len(parts)+2)
		lines = append(lines, fmt.Sprintf("Break %d into %s.", b, joinInts(parts, " + ")))
		partials := make([]int, 0, len(parts))
		for _, part := range parts {
			partials = append(partials, a*part)
			lines = append(lines, fmt.Sprintf("%d × %d = %d", a, part, a*part))
		}
		lines = append(lines, fmt.Sprintf("Add the partial products: %s = %d.", joinInts(partials, " + "), product))
		explanation = strings.Join(lines, "\n")
		steps = len(parts) + 1
	case a >= 10:
		parts := placeParts(a)
		lines := make([]string, 0, len(parts)+2)
		lines = append(lines, fmt.Sprintf("Break %d into %s.", a, joinInts(parts, " + ")))
		partials := make([]int, 0, len(parts))
		for _, part := range parts {
			partials = append(partials, part*b)
			lines = append(lines, fmt.Sprintf("%d × %d = %d", part, b, part*b))
		}
		lines = append(lines, fmt.Sprintf("Add the partial products: %s = %d.", joinInts(partials, " + "), product))
		explanation = strings.Join(lines, "\n")
		steps = len(parts) + 1
	default:
		explanation = fmt.Sprintf("%d × %d means %d groups of %d. Skip count by %d, %d times: %s. So, %d × %d = %d.",
			a, b, b, a, a, b, skipCount(a, b), a, b, product)
	}

	return model.Problem{
		Question:       fmt.Sprintf("What is %d × %d?", a, b),
		Answer:         strconv.Itoa(product),
		Explanation:    explanation,
		Hint:           "Break the bigger number into tens and ones, multiply each part, then add.",
		Difficulty:     difficultyFor(a, b),
		SkillLevel:     skillLevelFor(grade, max(a, b)*10),
		CommonMistakes: []string{"Forgetting the zero when multiplying by tens", "Adding instead of multiplying"},
		RequiredSteps:  steps,
	}
}

func (g *Generator) division(grade int) model.Problem {
	var divisor, quotient int
	switch grade {
	case 3:
		divisor, quotient = g.between(2, 10), g.between(1, 10)
	case 4:
		divisor, quotient = g.between(2, 9), g.between(10, 99)
	default:
		divisor, quotient = g.between(10, 99), g.between(10, 999)
	}
	// 被除数由乘法构造，保证整除
	dividend := divisor * quotient

	explanation := fmt.Sprintf(
		"Division is the inverse of multiplication. Ask: what number times %d equals %d?\n"+
			"Since %d × %d = %d, we know %d ÷ %d = %d.",
		divisor, dividend, divisor, quotient, dividend, dividend, divisor, quotient)

	return model.Problem{
		Question:       fmt.Sprintf("What is %d ÷ %d?", dividend, divisor),
		Answer:         strconv.Itoa(quotient),
		Explanation:    explanation,
		Hint:           fmt.Sprintf("Think about the %d times table.", divisor),
		Difficulty:     difficultyFor(dividend, divisor),
		SkillLevel:     skillLevelFor(grade, dividend),
		CommonMistakes: []string{"Swapping the dividend and the divisor", "Stopping before the last digit of the quotient"},
		RequiredSteps:  2,
	}
}

// placeParts 把 n 拆成非零的数位值：347 -> [300 40 7]
func placeParts(n int) []int {
	var parts []int
	for place := 1; n > 0; place *= 10 {
		if d := n % 10; d != 0 {
			parts = append([]int{d * place}, parts...)
		}
		n /= 10
	}
	return parts
}

func joinInts(values []int, sep string) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, sep)
}

func skipCount(step, times int) string {
	counts := make([]int, times)
	for i := range counts {
		counts[i] = step * (i + 1)
	}
	return joinInts(counts, ", ")
}
