package repository

import (
	"time"

	"playful_math_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyPuzzleRepository struct {
	DB *gorm.DB
}

func NewDailyPuzzleRepository(db *gorm.DB) *DailyPuzzleRepository {
	return &DailyPuzzleRepository{DB: db}
}

// PuzzleAttemptResult 谜题作答写入后的结果
type PuzzleAttemptResult struct {
	Attempt    model.DailyPuzzleAttempt
	FirstSolve bool
	User       *model.User
}

func (r *DailyPuzzleRepository) FindByDate(date time.Time) (*model.DailyPuzzle, error) {
	var puzzle model.DailyPuzzle
	err := r.DB.Preload("Problem").Where("date = ?", date).First(&puzzle).Error
	return &puzzle, err
}

// CreateWithProblem 写入谜题题目和谜题；同一天已存在时返回已有记录
func (r *DailyPuzzleRepository) CreateWithProblem(puzzle *model.DailyPuzzle, problem *model.Problem) (*model.DailyPuzzle, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		problem.Source = model.SourceDailyPuzzle
		if err := tx.Create(problem).Error; err != nil {
			return err
		}
		puzzle.ProblemID = problem.ID
		return tx.Omit(clause.Associations).Create(puzzle).Error
	})
	if IsDuplicate(err) {
		return r.FindByDate(puzzle.Date)
	}
	if err != nil {
		return nil, err
	}
	puzzle.Problem = *problem
	return puzzle, nil
}

func (r *DailyPuzzleRepository) FindAttempt(userID, puzzleID uint) (*model.DailyPuzzleAttempt, error) {
	var attempt model.DailyPuzzleAttempt
	err := r.DB.Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).First(&attempt).Error
	return &attempt, err
}

// RecordAttempt 记一次作答；当天首次答对时在同一事务内标记已解并发放奖励
func (r *DailyPuzzleRepository) RecordAttempt(userID, puzzleID uint, correct bool, points int) (*PuzzleAttemptResult, error) {
	result := &PuzzleAttemptResult{}
	now := time.Now()

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		row := model.DailyPuzzleAttempt{UserID: userID, PuzzleID: puzzleID, AttemptDate: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.DailyPuzzleAttempt{}).
			Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
			Updates(map[string]interface{}{
				"attempts":     gorm.Expr("attempts + 1"),
				"attempt_date": now,
			}).Error; err != nil {
			return err
		}

		if correct {
			res := tx.Model(&model.DailyPuzzleAttempt{}).
				Where("user_id = ? AND puzzle_id = ? AND solved = ?", userID, puzzleID, false).
				Updates(map[string]interface{}{"solved": true, "solved_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				result.FirstSolve = true
				user, err := addScore(tx, userID, points)
				if err != nil {
					return err
				}
				result.User = user
			}
		}

		return tx.Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).First(&result.Attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DailyPuzzleRepository) CountSolved(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DailyPuzzleAttempt{}).
		Where("user_id = ? AND solved = ?", userID, true).
		Count(&count).Error
	return count, err
}
