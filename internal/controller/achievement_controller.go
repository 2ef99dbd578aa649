package controller

import (
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// swagger:model UpdateAchievementProgressRequest
type UpdateAchievementProgressRequest struct {
	Progress *int `json:"progress" binding:"required,min=0"`
}

// @Summary 获取当前用户成就
// @Tags 成就系统
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements [get]
func (c *AchievementController) GetMyAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	c.respondAchievements(ctx, user.ID)
}

// @Summary 获取指定用户成就
// @Description 只能查看自己的成就，管理员除外
// @Tags 成就系统
// @Produce json
// @Security CookieAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements/{id} [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}
	c.respondAchievements(ctx, id)
}

func (c *AchievementController) respondAchievements(ctx *gin.Context, userID uint) {
	achievements, err := c.AchievementService.List(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// @Summary 成就目录
// @Tags 成就系统
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=[]service.AchievementDefinition}
// @Router /api/achievements/catalog [get]
func (c *AchievementController) GetCatalog(ctx *gin.Context) {
	util.Success(ctx, service.AchievementCatalog())
}

// @Summary 检查并颁发成就
// @Description 重复调用不会重复颁发
// @Tags 成就系统
// @Produce json
// @Security CookieAuth
// @Success 200 {object} util.Response{data=[]model.Achievement} "本次新颁发的成就"
// @Router /api/achievements/check [post]
func (c *AchievementController) CheckAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	awarded, err := c.AchievementService.CheckAchievements(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, awarded)
}

// @Summary 更新成就进度（管理员）
// @Tags 成就系统
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path int true "成就ID"
// @Param body body UpdateAchievementProgressRequest true "进度"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Failure 404 {object} util.Response
// @Router /api/achievements/{id}/progress [patch]
func (c *AchievementController) UpdateProgress(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid achievement ID")
		return
	}

	var req UpdateAchievementProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ValidationMessage(err))
		return
	}

	achievement, err := c.AchievementService.UpdateProgress(id, *req.Progress)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, achievement)
}
