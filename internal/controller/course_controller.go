package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CatalogService *service.CatalogService
}

func NewCourseController(catalogService *service.CatalogService) *CourseController {
	return &CourseController{CatalogService: catalogService}
}

// ListCourses godoc
// @Summary 已发布课程列表
// @Description 按创建时间倒序，模块按顺序排列并附带课时数
// @Tags 课程
// @Produce  json
// @Param category query string false "分类"
// @Param difficulty query string false "难度 beginner/intermediate/advanced"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Failure 400 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var filter service.CourseFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courses, err := c.CatalogService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 包含有序的模块、课时、测验、题目和选项（不含正确答案）
// @Tags 课程
// @Produce  json
// @Param slug path string true "课程 slug"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{slug} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CatalogService.GetCourseBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}
