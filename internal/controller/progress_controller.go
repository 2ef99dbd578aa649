package controller

import (
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	ProblemID uint   `json:"problemId" binding:"required"`
	Answer    string `json:"answer" binding:"required,max=64"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 判题并记录作答；首次答对获得 难度×10 积分，随后检查成就
// @Tags 进度
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/progress [post]
func (c *ProgressController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	result, err := c.ProgressService.Submit(user.ID, req.ProblemID, req.Answer)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetMyProgress godoc
// @Summary 当前用户的作答记录
// @Tags 进度
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Router /api/progress [get]
func (c *ProgressController) GetMyProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	c.respondProgress(ctx, user.ID)
}

// GetUserProgress godoc
// @Summary 指定用户的作答记录
// @Description 只能查看自己的记录，管理员除外
// @Tags 进度
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Failure 403 {object} util.Response
// @Router /api/progress/{id} [get]
func (c *ProgressController) GetUserProgress(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}
	c.respondProgress(ctx, id)
}

func (c *ProgressController) respondProgress(ctx *gin.Context, userID uint) {
	progress, err := c.ProgressService.ListForUser(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetSummary godoc
// @Summary 进度汇总
// @Tags 进度
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=model.ProgressSummary}
// @Router /api/progress/summary [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.ProgressService.Summary(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
