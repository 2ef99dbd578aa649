package model

import (
	"time"
)

// Progress 用户在某道题上的作答记录，每个 (user, problem) 一行
type Progress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_progress_user_problem;not null" json:"userId"`
	ProblemID   uint       `gorm:"uniqueIndex:idx_progress_user_problem;not null" json:"problemId"`
	Completed   bool       `gorm:"default:false;not null" json:"completed"`
	Attempts    int        `gorm:"default:0;not null" json:"attempts"`
	LastAttempt *time.Time `json:"lastAttempt"`
}

func (Progress) TableName() string {
	return "progress"
}

// ProgressSummary 进度汇总
type ProgressSummary struct {
	TotalProblems       int64            `json:"totalProblems"`
	CompletedProblems   int64            `json:"completedProblems"`
	TotalAttempts       int64            `json:"totalAttempts"`
	SolvedDailyPuzzles  int64            `json:"solvedDailyPuzzles"`
	CompletedByCategory map[string]int64 `json:"completedByCategory"`
}
