package repository

import (
	"errors"

	"playful_math_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 同时写入用户和其密保问题（若有）
func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateProfile 更新姓名和年级；questions 非 nil 时在同一事务内替换密保问题
func (r *UserRepository) UpdateProfile(userID uint, name string, grade int, questions []model.SecurityQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{"name": name, "grade": grade}).
			Error; err != nil {
			return err
		}
		if questions == nil {
			return nil
		}
		return replaceQuestions(tx, userID, questions)
	})
}

func (r *UserRepository) UpdatePassword(userID uint, hash, salt string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"password_hash": hash, "password_salt": salt}).
		Error
}

func (r *UserRepository) UpdateRole(userID uint, role model.UserRole) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

// AddScore 增加积分并重新计算等级
func (r *UserRepository) AddScore(userID uint, points int) (*model.User, error) {
	var user *model.User
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = addScore(tx, userID, points)
		return err
	})
	return user, err
}

func (r *UserRepository) List(page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// Delete 硬删除用户及其全部学习记录
func (r *UserRepository) Delete(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.Progress{},
			&model.Achievement{},
			&model.DailyPuzzleAttempt{},
			&model.SecurityQuestion{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.User{}, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// addScore 在调用方事务内累加积分，等级由积分推导
func addScore(tx *gorm.DB, userID uint, points int) (*model.User, error) {
	res := tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("score", gorm.Expr("score + ?", points))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var user model.User
	if err := tx.First(&user, userID).Error; err != nil {
		return nil, err
	}
	level := model.LevelForScore(user.Score)
	if level != user.Level {
		if err := tx.Model(&user).Update("level", level).Error; err != nil {
			return nil, err
		}
		user.Level = level
	}
	return &user, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
