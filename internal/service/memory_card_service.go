package service

import (
	"strings"

	"playful_math_backend/internal/model"
)

// MemoryCardService 提供静态的概念卡片，不落库
type MemoryCardService struct {
	cards      []model.MemoryCard
	categories []string
}

func NewMemoryCardService() *MemoryCardService {
	s := &MemoryCardService{cards: memoryCards}
	seen := map[string]bool{}
	for _, card := range memoryCards {
		if !seen[card.Category] {
			seen[card.Category] = true
			s.categories = append(s.categories, card.Category)
		}
	}
	return s
}

func (s *MemoryCardService) Categories() []string {
	return s.categories
}

// List 按分类过滤，分类为空时返回全部；分类名不区分大小写
func (s *MemoryCardService) List(category string) []model.MemoryCard {
	if category == "" {
		return s.cards
	}
	cards := make([]model.MemoryCard, 0)
	for _, card := range s.cards {
		if strings.EqualFold(card.Category, category) {
			cards = append(cards, card)
		}
	}
	return cards
}

func card(category, frontTitle, front, backTitle, back string) model.MemoryCard {
	return model.MemoryCard{
		Category: category,
		Front:    model.CardFace{Title: frontTitle, Content: front},
		Back:     model.CardFace{Title: backTitle, Content: back},
	}
}

var memoryCards = []model.MemoryCard{
	card("Addition",
		"Carrying in Addition", "When do you need to carry a number in addition?",
		"The Rule", "When the digits in one place value add up to 10 or more, carry the tens digit to the next place value."),
	card("Addition",
		"Place Values", "Why is place value important in addition?",
		"Understanding Place Values", "Place values help us line up numbers correctly. Always add ones with ones, tens with tens, and so on."),
	card("Addition",
		"Mental Math Tips", "What's an easy way to add numbers mentally?",
		"Strategy", "Break numbers into friendly numbers. 28 + 47 can be solved as 30 + 47 = 77, then subtract 2 to get 75."),
	card("Multiplication",
		"Basic Multiplication", "What is multiplication really doing?",
		"The Concept", "Multiplication is repeated addition. 5 × 3 means adding 5 three times: 5 + 5 + 5 = 15."),
	card("Multiplication",
		"Multiplying by 10", "What's the quick way to multiply by 10?",
		"The Rule", "Add a zero to the end of the number. Each place value is 10 times the one to its right."),
	card("Multiplication",
		"Times Tables Tricks", "How can you multiply by 9 easily?",
		"The Pattern", "For 9 × N the first digit is N - 1 and the two digits add up to 9. Example: 9 × 7 = 63 (6 is 7 - 1, and 6 + 3 = 9)."),
	card("Division",
		"Division Concept", "What does division really mean?",
		"Understanding Division", "Division is sharing equally or making equal groups. 12 ÷ 3 means splitting 12 into 3 equal groups."),
	card("Division",
		"Division Rules", "When is a number divisible by 3?",
		"Divisibility Rule", "If the sum of the digits is divisible by 3, the whole number is too. Example: 126 (1 + 2 + 6 = 9)."),
	card("Fractions",
		"What is a Fraction?", "What do the top and bottom numbers mean?",
		"Parts of a Whole", "The denominator (bottom) shows how many equal parts make a whole. The numerator (top) shows how many of those parts we have."),
	card("Fractions",
		"Equivalent Fractions", "What makes fractions equivalent?",
		"Same Value, Different Forms", "Multiply or divide the top and bottom by the same number. 1/2 = 2/4 = 3/6."),
	card("Geometry",
		"Types of Angles", "What are the different types of angles?",
		"Angle Classifications", "Acute: less than 90°\nRight: exactly 90°\nObtuse: more than 90° but less than 180°\nStraight: exactly 180°"),
	card("Geometry",
		"Area vs Perimeter", "What's the difference between area and perimeter?",
		"Understanding Space", "Perimeter is the distance around a shape.\nArea is the space inside the shape."),
	card("Word Problems",
		"Problem Solving Steps", "What steps should you follow to solve word problems?",
		"The Strategy", "1. Read carefully\n2. Find the important information\n3. Choose the operation\n4. Solve\n5. Check that the answer makes sense"),
	card("Word Problems",
		"Key Words", "What words help you identify the operation needed?",
		"Operation Clues", "Addition: sum, total, in all\nSubtraction: difference, less, remain\nMultiplication: times, product\nDivision: share, each, per"),
	card("Algebra",
		"Variables", "What is a variable in algebra?",
		"Understanding Variables", "A variable is a letter or symbol that stands for an unknown number. In x + 5 = 12, x is the variable."),
	card("Algebra",
		"Solving Equations", "What's the basic rule for solving equations?",
		"Balance Method", "Whatever you do to one side of the equation, do to the other side to keep it balanced."),
	card("Algebra",
		"Like Terms", "What are like terms and how do you combine them?",
		"Combining Like Terms", "Like terms have the same variable. 3x and 5x are like terms: 3x + 5x = 8x."),
}
