package repository

import (
	"playful_math_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

// FindByGrade 只返回练习题库中的题目，problemType 为空时不过滤题型
func (r *ProblemRepository) FindByGrade(grade int, problemType string) ([]model.Problem, error) {
	var problems []model.Problem
	query := r.DB.Where("grade = ? AND source = ?", grade, model.SourceBank)
	if problemType != "" {
		query = query.Where("type = ?", problemType)
	}
	err := query.Order("id ASC").Find(&problems).Error
	return problems, err
}

// FindBankProblem 按 ID 查找练习题库中的题目；每日谜题的题目不对外暴露，按不存在处理
func (r *ProblemRepository) FindBankProblem(id uint) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("source = ?", model.SourceBank).First(&problem, id).Error
	return &problem, err
}

func (r *ProblemRepository) ListBank() ([]model.Problem, error) {
	var problems []model.Problem
	err := r.DB.Where("source = ?", model.SourceBank).Order("id ASC").Find(&problems).Error
	return problems, err
}

func (r *ProblemRepository) CountBank() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Problem{}).Where("source = ?", model.SourceBank).Count(&count).Error
	return count, err
}

// ReplaceBank 删除旧题库并写入新题库，每日谜题引用的题目保留
func (r *ProblemRepository) ReplaceBank(problems []model.Problem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", model.SourceBank).Delete(&model.Problem{}).Error; err != nil {
			return err
		}
		if len(problems) == 0 {
			return nil
		}
		return tx.CreateInBatches(&problems, 100).Error
	})
}
