package controller

import (
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DailyPuzzleController struct {
	DailyPuzzleService *service.DailyPuzzleService
}

func NewDailyPuzzleController(dailyPuzzleService *service.DailyPuzzleService) *DailyPuzzleController {
	return &DailyPuzzleController{DailyPuzzleService: dailyPuzzleService}
}

// swagger:model SolvePuzzleRequest
type SolvePuzzleRequest struct {
	Answer string `json:"answer" binding:"required,max=64"`
}

// GetToday godoc
// @Summary 今日谜题
// @Description 不包含答案；当天第一次请求时生成
// @Tags 每日谜题
// @Produce json
// @Success 200 {object} util.Response{data=service.DailyPuzzleView}
// @Router /api/daily-puzzle [get]
func (c *DailyPuzzleController) GetToday(ctx *gin.Context) {
	puzzle, err := c.DailyPuzzleService.Today()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, puzzle)
}

// Solve godoc
// @Summary 提交今日谜题答案
// @Description 每天只有第一次答对获得积分，之后的作答只计次数
// @Tags 每日谜题
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body SolvePuzzleRequest true "答案"
// @Success 200 {object} util.Response{data=service.SolveResult}
// @Router /api/daily-puzzle/solve [post]
func (c *DailyPuzzleController) Solve(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SolvePuzzleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	result, err := c.DailyPuzzleService.Solve(user.ID, req.Answer)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetStatus godoc
// @Summary 今日谜题作答状态
// @Tags 每日谜题
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=service.PuzzleStatus}
// @Router /api/daily-puzzle/status [get]
func (c *DailyPuzzleController) GetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.DailyPuzzleService.Status(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
