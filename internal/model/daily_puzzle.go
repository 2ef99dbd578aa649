package model

import (
	"time"
)

// swagger:model DailyPuzzle
type DailyPuzzle struct {
	BaseModel
	// Date 为当天零点（UTC），每天最多一条
	Date             time.Time `gorm:"uniqueIndex;not null" json:"date"`
	ProblemID        uint      `gorm:"not null" json:"problemId"`
	Problem          Problem   `gorm:"foreignKey:ProblemID" json:"problem"`
	Title            string    `gorm:"size:150;not null" json:"title"`
	Scenario         string    `gorm:"type:text" json:"scenario"`
	RealWorldContext string    `gorm:"type:text" json:"realWorldContext"`
	Category         string    `gorm:"size:50" json:"category"`
	Points           int       `gorm:"not null;default:10" json:"points"`
}

func (DailyPuzzle) TableName() string {
	return "daily_puzzles"
}

type DailyPuzzleAttempt struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_puzzle_attempt_user_puzzle;not null" json:"userId"`
	PuzzleID    uint       `gorm:"uniqueIndex:idx_puzzle_attempt_user_puzzle;not null" json:"puzzleId"`
	Attempts    int        `gorm:"default:0;not null" json:"attempts"`
	Solved      bool       `gorm:"default:false;not null" json:"solved"`
	AttemptDate time.Time  `gorm:"not null" json:"attemptDate"`
	SolvedAt    *time.Time `json:"solvedAt,omitempty"`
}

func (DailyPuzzleAttempt) TableName() string {
	return "daily_puzzle_attempts"
}
