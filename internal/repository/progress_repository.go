package repository

import (
	"time"

	"playful_math_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// AttemptResult 一次作答写入后的结果
type AttemptResult struct {
	Progress        model.Progress
	FirstCompletion bool
	User            *model.User
}

func (r *ProgressRepository) FindByUserID(userID uint) ([]model.Progress, error) {
	var progress []model.Progress
	err := r.DB.Where("user_id = ?", userID).Order("updated_at DESC").Find(&progress).Error
	return progress, err
}

// RecordAttempt 写入或更新 (user, problem) 记录；完成状态一旦置位不再回退，
// 只有首次变为完成时才加分
func (r *ProgressRepository) RecordAttempt(userID, problemID uint, correct bool, points int) (*AttemptResult, error) {
	result := &AttemptResult{}
	now := time.Now()

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		row := model.Progress{UserID: userID, ProblemID: problemID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Progress{}).
			Where("user_id = ? AND problem_id = ?", userID, problemID).
			Updates(map[string]interface{}{
				"attempts":     gorm.Expr("attempts + 1"),
				"last_attempt": now,
			}).Error; err != nil {
			return err
		}

		if correct {
			// 条件更新保证首次完成只计一次
			res := tx.Model(&model.Progress{}).
				Where("user_id = ? AND problem_id = ? AND completed = ?", userID, problemID, false).
				Update("completed", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				result.FirstCompletion = true
				user, err := addScore(tx, userID, points)
				if err != nil {
					return err
				}
				result.User = user
			}
		}

		return tx.Where("user_id = ? AND problem_id = ?", userID, problemID).First(&result.Progress).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ProgressRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) Summary(userID uint) (*model.ProgressSummary, error) {
	summary := &model.ProgressSummary{CompletedByCategory: map[string]int64{}}

	var totals struct {
		Total     int64
		Completed int64
		Attempts  int64
	}
	err := r.DB.Model(&model.Progress{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed, "+
			"COALESCE(SUM(attempts), 0) AS attempts").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	summary.TotalProblems = totals.Total
	summary.CompletedProblems = totals.Completed
	summary.TotalAttempts = totals.Attempts

	var rows []struct {
		Type  string
		Count int64
	}
	err = r.DB.Model(&model.Progress{}).
		Select("problems.type AS type, COUNT(*) AS count").
		Joins("JOIN problems ON problems.id = progress.problem_id").
		Where("progress.user_id = ? AND progress.completed = ?", userID, true).
		Group("problems.type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		summary.CompletedByCategory[row.Type] = row.Count
	}
	return summary, nil
}
