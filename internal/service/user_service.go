package service

import (
	"context"
	"fmt"
	"strings"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/repository"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/logger"
	"playful_math_backend/pkg/security"
	"playful_math_backend/pkg/session"

	"go.uber.org/zap"
)

type ProfileStatus struct {
	IsComplete           bool `json:"isComplete"`
	HasName              bool `json:"hasName"`
	HasGrade             bool `json:"hasGrade"`
	HasSecurityQuestions bool `json:"hasSecurityQuestions"`
}

type SecurityAnswerInput struct {
	Question string
	Answer   string
}

type ProfileInput struct {
	Name              string
	Grade             int
	SecurityQuestions []SecurityAnswerInput
}

type UserService struct {
	Users     UserStore
	Questions SecurityQuestionStore
	Sessions  session.Store
}

func NewUserService(users UserStore, questions SecurityQuestionStore, sessions session.Store) *UserService {
	return &UserService{
		Users:     users,
		Questions: questions,
		Sessions:  sessions,
	}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if repository.IsNotFound(err) {
		return nil, util.NewNotFoundError("User not found", util.ErrUserNotFound)
	}
	return user, err
}

func (s *UserService) ProfileStatus(user *model.User) (*ProfileStatus, error) {
	count, err := s.Questions.CountByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	status := &ProfileStatus{
		HasName:              strings.TrimSpace(user.Name) != "",
		HasGrade:             model.IsValidGrade(user.Grade),
		HasSecurityQuestions: count == model.SecurityQuestionCount,
	}
	status.IsComplete = status.HasName && status.HasGrade && status.HasSecurityQuestions
	return status, nil
}

// ValidateSecurityQuestions 必须恰好 3 个、问题互不相同且答案非空
func ValidateSecurityQuestions(questions []SecurityAnswerInput) error {
	if len(questions) != model.SecurityQuestionCount {
		return util.NewValidationError("Exactly 3 security questions are required", util.ErrSecurityQuestions)
	}
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		key := strings.ToLower(strings.TrimSpace(q.Question))
		if key == "" {
			return util.NewValidationError("Security question must not be empty", util.ErrSecurityQuestions)
		}
		if strings.TrimSpace(q.Answer) == "" {
			return util.NewValidationError("Security answer must not be empty", util.ErrSecurityQuestions)
		}
		if seen[key] {
			return util.NewValidationError("Security questions must be different", util.ErrSecurityQuestions)
		}
		seen[key] = true
	}
	return nil
}

func (s *UserService) UpdateProfile(userID uint, in ProfileInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.NewValidationError("name is required", nil)
	}
	if !model.IsValidGrade(in.Grade) {
		return nil, util.NewValidationError("Grade must be 3, 4 or 5", util.ErrInvalidGrade)
	}

	var questions []model.SecurityQuestion
	if in.SecurityQuestions != nil {
		if err := ValidateSecurityQuestions(in.SecurityQuestions); err != nil {
			return nil, err
		}
		for i, q := range in.SecurityQuestions {
			hash, salt, err := security.HashSecret(security.NormalizeAnswer(q.Answer))
			if err != nil {
				return nil, fmt.Errorf("hash security answer: %w", err)
			}
			questions = append(questions, model.SecurityQuestion{
				Position:   i + 1,
				Question:   strings.TrimSpace(q.Question),
				AnswerHash: hash,
				AnswerSalt: salt,
			})
		}
	}

	if err := s.Users.UpdateProfile(userID, name, in.Grade, questions); err != nil {
		return nil, err
	}
	return s.GetByID(userID)
}

// SecurityQuestions 返回用户设置的问题文本（不含答案）
func (s *UserService) SecurityQuestions(userID uint) ([]string, error) {
	stored, err := s.Questions.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	questions := make([]string, 0, len(stored))
	for _, q := range stored {
		questions = append(questions, q.Question)
	}
	return questions, nil
}

// ChangePassword 修改密码后注销该用户的其他会话，keepSession 为当前会话
func (s *UserService) ChangePassword(ctx context.Context, user *model.User, keepSession, current, next, confirm string) error {
	if next != confirm {
		return util.NewValidationError("Passwords do not match", util.ErrPasswordMismatch)
	}
	if !security.VerifySecret(current, user.PasswordHash, user.PasswordSalt) {
		return util.NewValidationError("Current password is incorrect", util.ErrWrongPassword)
	}
	hash, salt, err := security.HashSecret(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(user.ID, hash, salt); err != nil {
		return err
	}
	if err := s.Sessions.DeleteUser(ctx, user.ID, keepSession); err != nil {
		logger.Log.Warn("Failed to revoke other sessions after password change",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *UserService) List(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Users.List(page, limit)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Users.Delete(id); err != nil {
		if repository.IsNotFound(err) {
			return util.NewNotFoundError("User not found", util.ErrUserNotFound)
		}
		return err
	}
	if err := s.Sessions.DeleteUser(ctx, id, ""); err != nil {
		logger.Log.Warn("Failed to revoke sessions of deleted user", zap.Uint("user_id", id), zap.Error(err))
	}
	return nil
}

// Promote 授予管理员角色，供命令行使用
func (s *UserService) Promote(username string) (*model.User, error) {
	user, err := s.Users.FindByUsername(username)
	if repository.IsNotFound(err) {
		return nil, util.NewNotFoundError("User not found", util.ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Users.UpdateRole(user.ID, model.Admin); err != nil {
		return nil, err
	}
	user.Role = model.Admin
	return user, nil
}
