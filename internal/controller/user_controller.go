package controller

import (
	"strconv"

	"playful_math_backend/internal/model"
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	AuthService *service.AuthService
}

func NewUserController(userService *service.UserService, authService *service.AuthService) *UserController {
	return &UserController{
		UserService: userService,
		AuthService: authService,
	}
}

type SecurityQuestionInput struct {
	Question string `json:"question" binding:"required,max=255"`
	Answer   string `json:"answer" binding:"required,max=255"`
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name              string                  `json:"name" binding:"required,max=100"`
	Grade             int                     `json:"grade" binding:"required,oneof=3 4 5"`
	SecurityQuestions []SecurityQuestionInput `json:"securityQuestions" binding:"omitempty,len=3,dive"`
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
	Grade    int    `json:"grade" binding:"omitempty,oneof=3 4 5"`
	Role     string `json:"role" binding:"omitempty,oneof=student admin"`
}

// Me godoc
// @Summary 获取当前用户
// @Tags 用户
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /api/user [get]
func (c *UserController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	questions, err := c.UserService.SecurityQuestions(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"name":              user.Name,
		"grade":             user.Grade,
		"score":             user.Score,
		"level":             user.Level,
		"role":              user.Role,
		"createdAt":         user.CreatedAt,
		"securityQuestions": questions,
	})
}

// ProfileStatus godoc
// @Summary 资料完整度
// @Description 返回姓名、年级、密保问题是否已填写
// @Tags 用户
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=service.ProfileStatus}
// @Router /api/user/profile-status [get]
func (c *UserController) ProfileStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.UserService.ProfileStatus(user)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// UpdateProfile godoc
// @Summary 更新资料
// @Description 更新姓名和年级；传入 securityQuestions 时整体替换密保问题
// @Tags 用户
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /api/user/profile [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	input := service.ProfileInput{Name: req.Name, Grade: req.Grade}
	if req.SecurityQuestions != nil {
		input.SecurityQuestions = make([]service.SecurityAnswerInput, 0, len(req.SecurityQuestions))
		for _, q := range req.SecurityQuestions {
			input.SecurityQuestions = append(input.SecurityQuestions, service.SecurityAnswerInput{
				Question: q.Question,
				Answer:   q.Answer,
			})
		}
	}

	updated, err := c.UserService.UpdateProfile(user.ID, input)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body ChangePasswordRequest true "密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "两次密码不一致或当前密码错误"
// @Router /api/user/password [post]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	if err := c.UserService.ChangePassword(ctx.Request.Context(), user, util.GetSessionIDFromContext(ctx), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Password updated"})
}

// CreateUser godoc
// @Summary 创建用户（管理员）
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body CreateUserRequest true "用户信息"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	user, err := c.AuthService.Register(service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Grade:    req.Grade,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// ListUsers godoc
// @Summary 用户列表（管理员）
// @Tags 用户管理
// @Produce json
// @Security CookieAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := c.UserService.List(page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUser godoc
// @Summary 用户详情（管理员）
// @Tags 用户管理
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	user, err := c.UserService.GetByID(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除用户（管理员）
// @Description 同时删除该用户的进度、成就、谜题记录和密保问题
// @Tags 用户管理
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	if err := c.UserService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}
