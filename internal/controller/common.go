package controller

import (
	"errors"
	"net/http"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUserID 仅在 AuthMiddleware 之后调用
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// respondError 将业务错误映射为 HTTP 响应
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrCertificateNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidAnswers), errors.Is(err, util.ErrInvalidCatalog):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
