package controller

import (
	"errors"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/service"
	"learning_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// @Summary 报名课程
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(user.UserID, courseID)
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrCourseFull):
		util.BadRequest(ctx, "课程名额已满")
	case errors.Is(err, util.ErrAlreadyEnrolled):
		util.BadRequest(ctx, "已报名该课程")
	case err != nil:
		if util.IsTransient(err) {
			util.ServiceUnavailable(ctx)
			return
		}
		util.LogInternalError(ctx, err)
	default:
		util.Created(ctx, enrollment)
	}
}

// @Summary 取消报名
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.EnrollmentService.Unenroll(user.UserID, courseID)
	switch {
	case errors.Is(err, util.ErrNotEnrolled):
		util.BadRequest(ctx, "未报名该课程")
	case err != nil:
		util.LogInternalError(ctx, err)
	default:
		util.Success(ctx, nil)
	}
}

// @Summary 课程报名名单
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enrollments [get]
func (c *EnrollmentController) Roster(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollments, err := c.EnrollmentService.Roster(user, courseID)
	switch {
	case errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case err != nil:
		util.LogInternalError(ctx, err)
	default:
		util.Success(ctx, enrollments)
	}
}

type setStatusRequest struct {
	Status model.EnrollmentStatus `json:"status" binding:"required"`
}

// @Summary 审核报名状态
// @Tags 报名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param enrollmentId path int true "报名ID"
// @Param status body setStatusRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enrollments/{enrollmentId} [put]
func (c *EnrollmentController) SetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	enrollmentID, ok := parseIDParam(ctx, "enrollmentId")
	if !ok {
		return
	}

	var req setStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.SetStatus(user, courseID, enrollmentID, req.Status)
	switch {
	case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrNotEnrolled):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, "无效的报名状态")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case err != nil:
		util.LogInternalError(ctx, err)
	default:
		util.Success(ctx, enrollment)
	}
}
