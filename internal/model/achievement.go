package model

import (
	"time"
)

type AchievementType string

const (
	AchievementFirstProblem    AchievementType = "first_problem"
	AchievementProblemSolver   AchievementType = "problem_solver"
	AchievementMathExplorer    AchievementType = "math_explorer"
	AchievementMathChampion    AchievementType = "math_champion"
	AchievementDailyChallenger AchievementType = "daily_challenger"
	AchievementPuzzleMaster    AchievementType = "puzzle_master"
)

// swagger:model Achievement
type Achievement struct {
	BaseModel
	UserID      uint            `gorm:"uniqueIndex:idx_achievement_user_type;not null" json:"userId"`
	Type        AchievementType `gorm:"size:50;uniqueIndex:idx_achievement_user_type;not null" json:"type"`
	Title       string          `gorm:"size:100;not null" json:"title"`
	Description string          `gorm:"size:255" json:"description"`
	Icon        string          `gorm:"size:255" json:"icon"`
	Category    string          `gorm:"size:50" json:"category"`
	Progress    int             `gorm:"default:0" json:"progress"`
	Target      int             `gorm:"default:1" json:"target"`
	EarnedAt    time.Time       `gorm:"not null" json:"earnedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
