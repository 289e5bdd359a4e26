package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type ProgressQuery struct {
	CourseID uint `form:"courseId" binding:"required"`
}

type MarkProgressRequest struct {
	LessonID uint `json:"lessonId" binding:"required"`
}

// GetProgress godoc
// @Summary 课程学习进度
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Param courseId query int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var q ProgressQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.GetCourseProgress(ctx.Request.Context(), userID, q.CourseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// MarkComplete godoc
// @Summary 标记课时完成
// @Description 可重复调用；课程全部完成时自动签发证书
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body MarkProgressRequest true "课时"
// @Success 200 {object} util.Response{data=service.LessonCompletion}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/progress [post]
func (c *ProgressController) MarkComplete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req MarkProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.ProgressService.MarkLessonComplete(ctx.Request.Context(), userID, req.LessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
