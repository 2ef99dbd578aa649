package controller

import (
	"strconv"

	"playful_math_backend/internal/service"
	"playful_math_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	ProblemService *service.ProblemService
}

func NewProblemController(problemService *service.ProblemService) *ProblemController {
	return &ProblemController{ProblemService: problemService}
}

// swagger:model RegenerateRequest
type RegenerateRequest struct {
	PerCategory int `json:"perCategory" binding:"omitempty,min=1,max=50"`
}

// ListProblems godoc
// @Summary 按年级获取练习题
// @Tags 题库
// @Produce json
// @Param grade query int true "年级 3-5"
// @Param type query string false "题型"
// @Success 200 {object} util.Response{data=[]model.Problem}
// @Failure 400 {object} util.Response "年级缺失或非法"
// @Router /api/problems [get]
func (c *ProblemController) ListProblems(ctx *gin.Context) {
	grade, err := strconv.Atoi(ctx.Query("grade"))
	if err != nil {
		util.BadRequest(ctx, "Invalid grade")
		return
	}

	problems, err := c.ProblemService.List(grade, ctx.Query("type"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, problems)
}

// GetProblem godoc
// @Summary 获取单道题目
// @Tags 题库
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 404 {object} util.Response
// @Router /api/problems/{id} [get]
func (c *ProblemController) GetProblem(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid problem ID")
		return
	}

	problem, err := c.ProblemService.Get(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// Regenerate godoc
// @Summary 重建题库（管理员）
// @Description 归档当前题库快照后整体替换；旧题目 ID 失效
// @Tags 题库
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body RegenerateRequest false "每个年级每种题型的数量"
// @Success 200 {object} util.Response{data=service.RegenerateResult}
// @Router /api/problems/regenerate [post]
func (c *ProblemController) Regenerate(ctx *gin.Context) {
	var req RegenerateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, util.ValidationMessage(err))
			return
		}
	}

	result, err := c.ProblemService.Regenerate(ctx.Request.Context(), req.PerCategory)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
