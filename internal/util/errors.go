package util

import (
	"errors"
	"fmt"
	"net/http"

	"playful_math_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRecovery     = errors.New("invalid username or security answer")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrProblemNotFound     = errors.New("problem not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrInvalidGrade        = errors.New("grade must be 3, 4 or 5")
	ErrSecurityQuestions   = errors.New("exactly 3 distinct security questions with answers are required")
	ErrSessionNotFound     = errors.New("session not found")
)

// AppError 携带 HTTP 状态码和对外消息，Err 为内部原因，只写日志
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: err}
}

func NewAuthError(message string, err error) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message, Err: err}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message, Err: ErrPermissionDenied}
}

func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message, Err: err}
}

// NewConflictError 重名等冲突按约定返回 400
func NewConflictError(message string, err error) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// HandleError 把 service 层错误写成统一响应
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("Internal server error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.Error(appErr.Err))
	}
	Error(c, appErr.Status, appErr.Message)
}

// ValidationMessage 取第一条校验错误，转成面向用户的英文提示
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must contain exactly %s items", field, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
