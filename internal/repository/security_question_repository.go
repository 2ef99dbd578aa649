package repository

import (
	"playful_math_backend/internal/model"

	"gorm.io/gorm"
)

type SecurityQuestionRepository struct {
	DB *gorm.DB
}

func NewSecurityQuestionRepository(db *gorm.DB) *SecurityQuestionRepository {
	return &SecurityQuestionRepository{DB: db}
}

func (r *SecurityQuestionRepository) FindByUserID(userID uint) ([]model.SecurityQuestion, error) {
	var questions []model.SecurityQuestion
	err := r.DB.Where("user_id = ?", userID).Order("position ASC").Find(&questions).Error
	return questions, err
}

func (r *SecurityQuestionRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SecurityQuestion{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// replaceQuestions 在调用方事务内整组替换某用户的密保问题
func replaceQuestions(tx *gorm.DB, userID uint, questions []model.SecurityQuestion) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.SecurityQuestion{}).Error; err != nil {
		return err
	}
	for i := range questions {
		questions[i].ID = 0
		questions[i].UserID = userID
	}
	if len(questions) == 0 {
		return nil
	}
	return tx.Create(&questions).Error
}
