package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetDashboard godoc
// @Summary 学习概览
// @Description 每门已发布课程的进度、证书与徽章
// @Tags 学习进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	dash, err := c.DashboardService.GetUserDashboard(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}
