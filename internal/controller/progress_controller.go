package controller

import (
	"errors"
	"learning_platform_backend/internal/service"
	"learning_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService   *service.ProgressService
	StreakService     *service.StreakService
	EnrollmentService *service.EnrollmentService
}

func NewProgressController(
	progressService *service.ProgressService,
	streakService *service.StreakService,
	enrollmentService *service.EnrollmentService,
) *ProgressController {
	return &ProgressController{
		ProgressService:   progressService,
		StreakService:     streakService,
		EnrollmentService: enrollmentService,
	}
}

// @Summary 上报学习单元完成情况
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param completion body service.CompletionRequest true "完成情况"
// @Success 200 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) RecordCompletion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.RecordCompletion(user.UserID, req)
	switch {
	case errors.Is(err, util.ErrUnitNotFound), errors.Is(err, util.ErrModuleNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidScore):
		util.BadRequest(ctx, "分数不能为负")
	case err != nil:
		if util.IsTransient(err) {
			util.ServiceUnavailable(ctx)
			return
		}
		util.LogInternalError(ctx, err)
	default:
		util.Success(ctx, result)
	}
}

// @Summary 学习进度总览
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	overview, err := c.ProgressService.Overview(user.UserID, enrollments)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary 当前打卡状态
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/streak [get]
func (c *ProgressController) GetStreak(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.StreakService.Get(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, streak)
}
