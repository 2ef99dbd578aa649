package problemgen

import (
	"fmt"
	"strconv"

	"playful_math_backend/internal/model"
)

type ScenarioKind string

const (
	KindMultiplication ScenarioKind = "multiplication"
	KindDivision       ScenarioKind = "division"
	KindSubtraction    ScenarioKind = "subtraction"
	KindDecimal        ScenarioKind = "decimal"
	KindMultiStep      ScenarioKind = "multi_step"
)

// Scenario 一个应用题情景模板，数值按年级范围抽取后按位置传给 render
type Scenario struct {
	Kind     ScenarioKind
	Title    string
	Context  string
	Category string
	MinGrade int

	spans  map[int][]span
	render func(v []int) story
}

type span struct{ lo, hi int }

type story struct {
	setup       string
	question    string
	answer      string
	explanation string
	hint        string
	mistakes    []string
	steps       int
}

func (s Scenario) supports(grade int) bool {
	_, ok := s.spans[grade]
	return ok && grade >= s.MinGrade
}

func (g *Generator) wordProblem(grade int) (model.Problem, Scenario) {
	var candidates []Scenario
	for _, sc := range scenarios {
		if sc.supports(grade) {
			candidates = append(candidates, sc)
		}
	}
	sc := candidates[g.rnd.IntN(len(candidates))]

	spans := sc.spans[grade]
	values := make([]int, len(spans))
	for i, sp := range spans {
		values[i] = g.between(sp.lo, sp.hi)
	}
	st := sc.render(values)

	largest := 0
	for _, v := range values {
		largest = max(largest, v)
	}

	difficulty := difficultyFor(values...)
	if sc.Kind == KindMultiStep {
		difficulty = min(difficulty+1, 5)
	}

	return model.Problem{
		Question:       st.setup + " " + st.question,
		Answer:         st.answer,
		Explanation:    st.explanation,
		Hint:           st.hint,
		Difficulty:     difficulty,
		SkillLevel:     skillLevelFor(grade, largest),
		CommonMistakes: st.mistakes,
		RequiredSteps:  st.steps,
	}, sc
}

// dollars 把以分为单位的金额格式化为 "12.05"
func dollars(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

var scenarios = []Scenario{
	{
		Kind:     KindMultiplication,
		Title:    "Bakery Boxes",
		Context:  "Bakers use multiplication to know how many treats to bake for a big order.",
		Category: "Multiplication",
		spans: map[int][]span{
			3: {{2, 10}, {2, 10}},
			4: {{10, 40}, {3, 9}},
			5: {{12, 99}, {12, 48}},
		},
		render: func(v []int) story {
			boxes, each := v[0], v[1]
			total := boxes * each
			return story{
				setup:       fmt.Sprintf("A bakery packs %d cookies in each box. A school orders %d boxes for a party.", each, boxes),
				question:    "How many cookies does the bakery need to bake?",
				answer:      strconv.Itoa(total),
				explanation: fmt.Sprintf("There are %d equal groups of %d cookies. Multiply: %d × %d = %d cookies.", boxes, each, boxes, each, total),
				hint:        "Equal groups of the same size means multiplication.",
				mistakes:    []string{"Adding the number of boxes and cookies instead of multiplying"},
				steps:       1,
			}
		},
	},
	{
		Kind:     KindMultiplication,
		Title:    "Garden Rows",
		Context:  "Gardeners plan rows of plants to figure out how many seeds to buy.",
		Category: "Multiplication",
		spans: map[int][]span{
			3: {{2, 9}, {2, 9}},
			4: {{11, 30}, {4, 9}},
			5: {{15, 60}, {11, 35}},
		},
		render: func(v []int) story {
			rows, plants := v[0], v[1]
			total := rows * plants
			return story{
				setup:       fmt.Sprintf("Maya plants a garden with %d rows. Each row has %d tomato plants.", rows, plants),
				question:    "How many tomato plants are in the garden?",
				answer:      strconv.Itoa(total),
				explanation: fmt.Sprintf("The garden is an array with %d rows of %d plants. %d × %d = %d plants.", rows, plants, rows, plants, total),
				hint:        "Think of the garden as a rectangle of rows and columns.",
				mistakes:    []string{"Counting only one row", "Adding rows and plants"},
				steps:       1,
			}
		},
	},
	{
		Kind:     KindDivision,
		Title:    "Team Split",
		Context:  "Coaches divide players into equal teams so every game is fair.",
		Category: "Division",
		spans: map[int][]span{
			3: {{2, 6}, {2, 10}},
			4: {{3, 9}, {10, 30}},
			5: {{12, 25}, {12, 40}},
		},
		render: func(v []int) story {
			teams, each := v[0], v[1]
			total := teams * each
			return story{
				setup:       fmt.Sprintf("There are %d students at field day. The coach splits them into %d equal teams.", total, teams),
				question:    "How many students are on each team?",
				answer:      strconv.Itoa(each),
				explanation: fmt.Sprintf("Sharing equally means division. %d ÷ %d = %d, because %d × %d = %d.", total, teams, each, teams, each, total),
				hint:        "Ask yourself: what number times the number of teams gives the total?",
				mistakes:    []string{"Multiplying instead of dividing", "Dividing the teams by the students"},
				steps:       1,
			}
		},
	},
	{
		Kind:     KindDivision,
		Title:    "Sticker Sharing",
		Context:  "Sharing things fairly with friends is everyday division.",
		Category: "Division",
		spans: map[int][]span{
			3: {{2, 5}, {3, 10}},
			4: {{4, 8}, {12, 25}},
			5: {{11, 20}, {15, 50}},
		},
		render: func(v []int) story {
			friends, each := v[0], v[1]
			total := friends * each
			return story{
				setup:       fmt.Sprintf("Leo has %d stickers. He shares them equally with %d friends and keeps none for himself.", total, friends),
				question:    "How many stickers does each friend get?",
				answer:      strconv.Itoa(each),
				explanation: fmt.Sprintf("%d stickers shared among %d friends: %d ÷ %d = %d stickers each.", total, friends, total, friends, each),
				hint:        "Split the total into equal groups, one for each friend.",
				mistakes:    []string{"Counting Leo as one of the groups"},
				steps:       1,
			}
		},
	},
	{
		Kind:     KindSubtraction,
		Title:    "Library Books",
		Context:  "Librarians subtract to keep track of how many books are still on the shelves.",
		Category: "Subtraction",
		spans: map[int][]span{
			3: {{10, 500}, {10, 400}},
			4: {{100, 5000}, {100, 4000}},
			5: {{1000, 50000}, {1000, 40000}},
		},
		render: func(v []int) story {
			left, borrowed := v[0], v[1]
			total := left + borrowed
			return story{
				setup:       fmt.Sprintf("The school library has %d books. This month students borrow %d of them.", total, borrowed),
				question:    "How many books are still on the shelves?",
				answer:      strconv.Itoa(left),
				explanation: fmt.Sprintf("Take away the borrowed books: %d - %d = %d books.", total, borrowed, left),
				hint:        "Books that leave the shelf are taken away.",
				mistakes:    []string{"Adding the borrowed books instead of subtracting", "Forgetting to borrow across a zero"},
				steps:       1,
			}
		},
	},
	{
		Kind:     KindDecimal,
		Title:    "School Store",
		Context:  "Adding prices with dollars and cents helps you know how much money to bring.",
		Category: "Money",
		MinGrade: 4,
		spans: map[int][]span{
			4: {{105, 899}, {105, 899}},
			5: {{1005, 4999}, {1005, 4999}},
		},
		render: func(v []int) story {
			notebook, pens := v[0], v[1]
			total := notebook + pens
			return story{
				setup:       fmt.Sprintf("At the school store a notebook costs $%s and a pack of pens costs $%s.", dollars(notebook), dollars(pens)),
				question:    "How much do they cost together, in dollars?",
				answer:      dollars(total),
				explanation: fmt.Sprintf("Line up the decimal points and add: $%s + $%s = $%s.", dollars(notebook), dollars(pens), dollars(total)),
				hint:        "Line up the decimal points before adding.",
				mistakes:    []string{"Not lining up the decimal points", "Forgetting to carry from the cents into the dollars"},
				steps:       2,
			}
		},
	},
	{
		Kind:     KindDecimal,
		Title:    "Lemonade Stand",
		Context:  "Small businesses multiply price by quantity to count their earnings.",
		Category: "Money",
		MinGrade: 4,
		spans: map[int][]span{
			4: {{2, 9}, {25, 95}},
			5: {{12, 40}, {75, 250}},
		},
		render: func(v []int) story {
			cups, price := v[0], v[1]
			total := cups * price
			return story{
				setup:       fmt.Sprintf("Ava sells lemonade for $%s a cup. She sells %d cups on Saturday.", dollars(price), cups),
				question:    "How much money does she make, in dollars?",
				answer:      dollars(total),
				explanation: fmt.Sprintf("Multiply the price by the number of cups. Work in cents: %d × %d = %d cents, which is $%s.", price, cups, total, dollars(total)),
				hint:        "Change dollars to cents, multiply, then change back.",
				mistakes:    []string{"Placing the decimal point in the wrong spot"},
				steps:       2,
			}
		},
	},
	{
		Kind:     KindMultiStep,
		Title:    "Field Trip",
		Context:  "Trip planners combine several steps to count seats, tickets and lunches.",
		Category: "Multi-Step",
		spans: map[int][]span{
			3: {{2, 5}, {5, 10}, {1, 4}},
			4: {{3, 8}, {20, 45}, {1, 19}},
			5: {{6, 15}, {30, 60}, {10, 29}},
		},
		render: func(v []int) story {
			buses, seats, empty := v[0], v[1], v[2]
			capacity := buses * seats
			riders := capacity - empty
			return story{
				setup:    fmt.Sprintf("%d buses take students on a field trip. Each bus has %d seats, and %d seats are empty in total.", buses, seats, empty),
				question: "How many students ride the buses?",
				answer:   strconv.Itoa(riders),
				explanation: fmt.Sprintf("Step 1: find all the seats. %d × %d = %d seats.\nStep 2: take away the empty seats. %d - %d = %d students.",
					buses, seats, capacity, capacity, empty, riders),
				hint:     "First find the total number of seats, then remove the empty ones.",
				mistakes: []string{"Stopping after the first step", "Subtracting the empty seats from one bus only"},
				steps:    2,
			}
		},
	},
	{
		Kind:     KindMultiStep,
		Title:    "Pizza Party",
		Context:  "Party hosts plan food by multiplying servings and sharing what is left.",
		Category: "Multi-Step",
		spans: map[int][]span{
			3: {{2, 5}, {4, 8}, {2, 4}},
			4: {{4, 12}, {6, 10}, {3, 9}},
			5: {{12, 30}, {8, 12}, {11, 25}},
		},
		render: func(v []int) story {
			pizzas, slices, guests := v[0], v[1], v[2]
			total := pizzas * slices
			each := total / guests
			leftover := total % guests
			return story{
				setup:    fmt.Sprintf("A class orders %d pizzas cut into %d slices each. The %d students share the slices equally.", pizzas, slices, guests),
				question: "How many whole slices does each student get?",
				answer:   strconv.Itoa(each),
				explanation: fmt.Sprintf("Step 1: count the slices. %d × %d = %d slices.\nStep 2: share them. %d ÷ %d = %d with %d left over, so each student gets %d slices.",
					pizzas, slices, total, total, guests, each, leftover, each),
				hint:     "Find the total number of slices before sharing.",
				mistakes: []string{"Dividing the number of pizzas instead of slices", "Including the leftover slices in each share"},
				steps:    2,
			}
		},
	},
}
