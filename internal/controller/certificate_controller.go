package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// List godoc
// @Summary 我的证书
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	certs, err := c.CertificateService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}

// Verify godoc
// @Summary 校验证书编号
// @Tags 证书
// @Produce  json
// @Param code path string true "证书编号"
// @Success 200 {object} util.Response{data=service.CertificateVerification}
// @Failure 404 {object} util.Response
// @Router /api/certificates/verify/{code} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	v, err := c.CertificateService.Verify(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, v)
}

// Document godoc
// @Summary 生成证书文档
// @Description 渲染 HTML 证书并写入存储，返回访问地址
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Param code path string true "证书编号"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/certificates/{code}/document [get]
func (c *CertificateController) Document(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	url, err := c.CertificateService.Document(ctx.Request.Context(), userID, ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
