package model

import (
	"gorm.io/datatypes"
)

type ProblemType string

const (
	ProblemAddition       ProblemType = "addition"
	ProblemSubtraction    ProblemType = "subtraction"
	ProblemMultiplication ProblemType = "multiplication"
	ProblemDivision       ProblemType = "division"
	ProblemFractions      ProblemType = "fractions"
	ProblemWordProblems   ProblemType = "word_problems"
	ProblemMultipleChoice ProblemType = "multiple_choice"
	ProblemTrueFalse      ProblemType = "true_false"
)

// ProblemTypes 题库生成时遍历的全部题型
var ProblemTypes = []ProblemType{
	ProblemAddition,
	ProblemSubtraction,
	ProblemMultiplication,
	ProblemDivision,
	ProblemFractions,
	ProblemWordProblems,
	ProblemMultipleChoice,
	ProblemTrueFalse,
}

func IsValidProblemType(t string) bool {
	for _, pt := range ProblemTypes {
		if string(pt) == t {
			return true
		}
	}
	return false
}

// 题目来源：练习题库会被整体重建，每日谜题引用的题目不参与重建
const (
	SourceBank        = "bank"
	SourceDailyPuzzle = "daily_puzzle"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// swagger:model Problem
type Problem struct {
	BaseModel
	Grade          int                         `gorm:"index;not null" json:"grade"`
	Type           ProblemType                 `gorm:"size:32;index;not null" json:"type"`
	Question       string                      `gorm:"type:text;not null" json:"question"`
	Answer         string                      `gorm:"size:64;not null" json:"answer"`
	Explanation    string                      `gorm:"type:text;not null" json:"explanation"`
	Hint           string                      `gorm:"type:text" json:"hint,omitempty"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	Difficulty     int                         `gorm:"not null;default:1" json:"difficulty"`
	SkillLevel     SkillLevel                  `gorm:"size:20" json:"skillLevel,omitempty"`
	CommonMistakes datatypes.JSONSlice[string] `json:"commonMistakes,omitempty"`
	RequiredSteps  int                         `gorm:"default:1" json:"requiredSteps"`
	Source         string                      `gorm:"size:20;index;default:'bank'" json:"-"`
}

func (Problem) TableName() string {
	return "problems"
}
