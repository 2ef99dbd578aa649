package service

import (
	"time"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/repository"
)

// 服务只依赖下面这些存储端口；生产环境和测试都注入 repository 包里的 GORM 实现

type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	UsernameExists(username string) (bool, error)
	UpdateProfile(userID uint, name string, grade int, questions []model.SecurityQuestion) error
	UpdatePassword(userID uint, hash, salt string) error
	UpdateRole(userID uint, role model.UserRole) error
	AddScore(userID uint, points int) (*model.User, error)
	List(page, limit int) ([]model.User, int64, error)
	Delete(userID uint) error
}

type SecurityQuestionStore interface {
	FindByUserID(userID uint) ([]model.SecurityQuestion, error)
	CountByUserID(userID uint) (int64, error)
}

type ProblemStore interface {
	FindByGrade(grade int, problemType string) ([]model.Problem, error)
	FindBankProblem(id uint) (*model.Problem, error)
	ListBank() ([]model.Problem, error)
	CountBank() (int64, error)
	ReplaceBank(problems []model.Problem) error
}

type ProgressStore interface {
	FindByUserID(userID uint) ([]model.Progress, error)
	RecordAttempt(userID, problemID uint, correct bool, points int) (*repository.AttemptResult, error)
	CountCompleted(userID uint) (int64, error)
	Summary(userID uint) (*model.ProgressSummary, error)
}

type AchievementStore interface {
	FindByUserID(userID uint) ([]model.Achievement, error)
	Create(achievement *model.Achievement) error
	UpdateProgress(id uint, progress int) (*model.Achievement, error)
}

type DailyPuzzleStore interface {
	FindByDate(date time.Time) (*model.DailyPuzzle, error)
	CreateWithProblem(puzzle *model.DailyPuzzle, problem *model.Problem) (*model.DailyPuzzle, error)
	FindAttempt(userID, puzzleID uint) (*model.DailyPuzzleAttempt, error)
	RecordAttempt(userID, puzzleID uint, correct bool, points int) (*repository.PuzzleAttemptResult, error)
	CountSolved(userID uint) (int64, error)
}

var (
	_ UserStore             = (*repository.UserRepository)(nil)
	_ SecurityQuestionStore = (*repository.SecurityQuestionRepository)(nil)
	_ ProblemStore          = (*repository.ProblemRepository)(nil)
	_ ProgressStore         = (*repository.ProgressRepository)(nil)
	_ AchievementStore      = (*repository.AchievementRepository)(nil)
	_ DailyPuzzleStore      = (*repository.DailyPuzzleRepository)(nil)
)
