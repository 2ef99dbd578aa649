package problemgen

import (
	"math/big"
	"strconv"
	"strings"

	"playful_math_backend/internal/model"
)

// CheckAnswer 比较学生输入和标准答案。
//
// 归一化规则：
//   - 去掉首尾空白，文本比较不区分大小写
//   - 选择题既接受选项文本，也接受从 1 开始的选项序号
//   - 数字按值比较："2/4" 等于 "1/2"，"3.50" 等于 "3.5"，
//     "007" 等于 "7"，"1,200" 等于 "1200"，"$4.25" 等于 "4.25"
//   - 支持带分数："1 1/2" 等于 "3/2"
func CheckAnswer(given string, problem *model.Problem) bool {
	given = strings.TrimSpace(given)
	if given == "" || problem == nil {
		return false
	}
	answer := strings.TrimSpace(problem.Answer)

	if len(problem.Options) > 0 {
		return checkChoice(given, answer, problem.Options)
	}

	if g, ok := parseNumber(given); ok {
		if a, ok := parseNumber(answer); ok {
			return g.Cmp(a) == 0
		}
	}
	return strings.EqualFold(given, answer)
}

func checkChoice(given, answer string, options []string) bool {
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), given) {
			return strings.EqualFold(strings.TrimSpace(opt), answer)
		}
	}
	if idx, err := strconv.Atoi(given); err == nil && idx >= 1 && idx <= len(options) {
		return strings.EqualFold(strings.TrimSpace(options[idx-1]), answer)
	}
	if g, ok := parseNumber(given); ok {
		if a, ok := parseNumber(answer); ok {
			return g.Cmp(a) == 0
		}
	}
	return false
}

// parseNumber 把整数、小数、分数和带分数解析为精确的有理数
func parseNumber(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil, false
	}

	// 带分数 "1 1/2"
	if whole, frac, found := strings.Cut(s, " "); found && strings.Contains(frac, "/") {
		w, ok := parseSimple(whole)
		if !ok || !w.IsInt() {
			return nil, false
		}
		f, ok := parseSimple(strings.TrimSpace(frac))
		if !ok || f.Sign() < 0 {
			return nil, false
		}
		if w.Sign() < 0 {
			return new(big.Rat).Sub(w, f), true
		}
		return new(big.Rat).Add(w, f), true
	}
	return parseSimple(s)
}

func parseSimple(s string) (*big.Rat, bool) {
	if strings.ContainsAny(s, "eE") {
		return nil, false
	}
	if num, den, found := strings.Cut(s, "/"); found {
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return nil, false
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil || d == 0 {
			return nil, false
		}
		return big.NewRat(n, d), true
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}
