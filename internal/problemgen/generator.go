// Package problemgen 为三到五年级随机生成数学题。
//
// 每道题带有规范化的字符串答案、解题步骤、提示、难度和技能标签。
// 生成过程不会失败：减法先取结果再推出被减数，除法由乘法构造被除数，
// 只有年级或题型不受支持时才返回错误。
package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"playful_math_backend/internal/model"
)

var (
	ErrUnsupportedGrade = errors.New("grade must be between 3 and 5")
	ErrUnsupportedType  = errors.New("unsupported problem type")
)

// Generator 可以并发使用
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New 用当前时间做种子，每次启动生成的题库都不同
func New() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewWithRand(rand.New(rand.NewPCG(seed, rand.Uint64())))
}

// NewWithRand 注入随机源，测试中用来得到可复现的序列
func NewWithRand(r *rand.Rand) *Generator {
	return &Generator{rnd: r}
}

// Generate 为指定年级生成 count 道同一题型的题目
func (g *Generator) Generate(grade int, category model.ProblemType, count int) ([]model.Problem, error) {
	if !model.IsValidGrade(grade) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedGrade, grade)
	}
	build, ok := builders[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, category)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	problems := make([]model.Problem, 0, count)
	for i := 0; i < count; i++ {
		p := build(g, grade)
		p.Grade = grade
		p.Type = category
		p.Source = model.SourceBank
		if p.Difficulty < 1 {
			p.Difficulty = 1
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// GenerateBank 为一个年级的每种题型各生成 perCategory 道题
func (g *Generator) GenerateBank(grade, perCategory int) ([]model.Problem, error) {
	var bank []model.Problem
	for _, category := range model.ProblemTypes {
		problems, err := g.Generate(grade, category, perCategory)
		if err != nil {
			return nil, err
		}
		bank = append(bank, problems...)
	}
	return bank, nil
}

// WordProblem 生成一道应用题，同时返回所用的情景
func (g *Generator) WordProblem(grade int) (model.Problem, Scenario, error) {
	if !model.IsValidGrade(grade) {
		return model.Problem{}, Scenario{}, fmt.Errorf("%w: %d", ErrUnsupportedGrade, grade)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p, sc := g.wordProblem(grade)
	p.Grade = grade
	p.Type = model.ProblemWordProblems
	return p, sc, nil
}

type builder func(g *Generator, grade int) model.Problem

var builders = map[model.ProblemType]builder{
	model.ProblemAddition:       (*Generator).addition,
	model.ProblemSubtraction:    (*Generator).subtraction,
	model.ProblemMultiplication: (*Generator).multiplication,
	model.ProblemDivision:       (*Generator).division,
	model.ProblemFractions:      (*Generator).fraction,
	model.ProblemWordProblems: func(g *Generator, grade int) model.Problem {
		p, _ := g.wordProblem(grade)
		return p
	},
	model.ProblemMultipleChoice: (*Generator).multipleChoice,
	model.ProblemTrueFalse:      (*Generator).trueFalse,
}

// between 在 [lo, hi] 内均匀取整数
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) coin() bool {
	return g.rnd.IntN(2) == 0
}

func (g *Generator) shuffle(values []string) {
	g.rnd.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// MaxOperand 加减法操作数的上限
func MaxOperand(grade int) int {
	switch grade {
	case 3:
		return 999
	case 4:
		return 9999
	default:
		return 99999
	}
}

func digitCount(n int) int {
	if n < 0 {
		n = -n
	}
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// difficultyFor 按操作数的总位数给出 1-5 的难度
func difficultyFor(operands ...int) int {
	total := 0
	for _, op := range operands {
		total += digitCount(op)
	}
	d := 1 + (total-2)/2
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	return d
}

// skillLevelFor 按最大操作数相对年级上限的大小标注技能等级
func skillLevelFor(grade, largest int) model.SkillLevel {
	gradeDigits := digitCount(MaxOperand(grade))
	digits := digitCount(largest)
	switch {
	case digits < gradeDigits-1:
		return model.SkillBeginner
	case digits == gradeDigits-1:
		return model.SkillIntermediate
	default:
		return model.SkillAdvanced
	}
}
