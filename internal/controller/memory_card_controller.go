package controller

import (
	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MemoryCardController struct {
	MemoryCardService *service.MemoryCardService
}

func NewMemoryCardController(memoryCardService *service.MemoryCardService) *MemoryCardController {
	return &MemoryCardController{MemoryCardService: memoryCardService}
}

// @Summary 概念卡片
// @Tags 概念卡片
// @Produce json
// @Param category query string false "分类"
// @Success 200 {object} util.Response{data=[]model.MemoryCard}
// @Router /api/memory-cards [get]
func (c *MemoryCardController) ListCards(ctx *gin.Context) {
	util.Success(ctx, c.MemoryCardService.List(ctx.Query("category")))
}

// @Summary 概念卡片分类
// @Tags 概念卡片
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/memory-cards/categories [get]
func (c *MemoryCardController) ListCategories(ctx *gin.Context) {
	util.Success(ctx, c.MemoryCardService.Categories())
}
