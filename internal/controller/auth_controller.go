package controller

import (
	"net/http"
	"time"

	"playful_math_backend/internal/config"
	"playful_math_backend/internal/model"
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"
	"playful_math_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService *service.AuthService
	Session     config.SessionConfig
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService: authService,
		Session:     cfg.Session,
	}
}

// RegisterRequest 注册请求
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
	Grade    int    `json:"grade" binding:"omitempty,oneof=3 4 5"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	Username         string `json:"username" binding:"required"`
	SecurityQuestion string `json:"securityQuestion" binding:"required"`
	SecurityAnswer   string `json:"securityAnswer" binding:"required"`
	NewPassword      string `json:"newPassword" binding:"required,min=8,max=128"`
	ConfirmPassword  string `json:"confirmPassword" binding:"required"`
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, issued *service.IssuedSession) {
	maxAge := int(time.Until(issued.ExpiresAt).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, issued.Token, maxAge, "/", "", c.Session.Secure, true)
}

func (c *AuthController) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, "", -1, "/", "", c.Session.Secure, true)
}

// Register godoc
// @Summary 注册新用户
// @Description 注册学生账号，成功后直接登录（写入会话 Cookie）
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或用户名已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	user, err := c.AuthService.Register(service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Grade:    req.Grade,
		Role:     model.Student,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	issued, err := c.AuthService.OpenSession(ctx.Request.Context(), user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.setSessionCookie(ctx, issued)

	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	util.Created(ctx, user)
}

// Login godoc
// @Summary 用户登录
// @Description 校验用户名和密码，成功后写入会话 Cookie
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	user, err := c.AuthService.Authenticate(req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	issued, err := c.AuthService.OpenSession(ctx.Request.Context(), user)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.setSessionCookie(ctx, issued)

	util.Success(ctx, user)
}

// Logout godoc
// @Summary 退出登录
// @Description 删除服务端会话并清除 Cookie；未登录时同样返回成功
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response "成功"
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(c.Session.CookieName); err == nil && token != "" {
		if _, sess, err := c.AuthService.ResolveSession(ctx.Request.Context(), token); err == nil {
			if err := c.AuthService.Logout(ctx.Request.Context(), sess.ID); err != nil {
				util.LogInternalError(ctx, err)
				return
			}
		}
	}
	c.clearSessionCookie(ctx)
	util.Success(ctx, gin.H{"message": "Logged out"})
}

// ResetPassword godoc
// @Summary 通过密保问题重置密码
// @Description 用户名、问题或答案任一不匹配时返回同一个错误
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordRequest true "重置信息"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "校验失败"
// @Router /api/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	err := c.AuthService.ResetPassword(ctx.Request.Context(), service.ResetPasswordInput{
		Username:         req.Username,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
		NewPassword:      req.NewPassword,
		ConfirmPassword:  req.ConfirmPassword,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Password has been reset"})
}

// SecurityQuestions godoc
// @Summary 候选密保问题
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=[]string} "成功"
// @Router /api/security-questions [get]
func (c *AuthController) SecurityQuestions(ctx *gin.Context) {
	util.Success(ctx, model.SuggestedSecurityQuestions)
}
