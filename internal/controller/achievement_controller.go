package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// Catalog godoc
// @Summary 徽章目录
// @Tags 徽章
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Badge}
// @Router /api/badges/catalog [get]
func (c *BadgeController) Catalog(ctx *gin.Context) {
	badges, err := c.BadgeService.ListCatalog(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// Mine godoc
// @Summary 我获得的徽章
// @Tags 徽章
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge}
// @Router /api/badges [get]
func (c *BadgeController) Mine(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	badges, err := c.BadgeService.ListUserBadges(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}
