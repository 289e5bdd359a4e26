package controller

import (
	"io"
	"net/http"
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 目录文件大小上限
const maxCatalogBytes = 4 << 20

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// Import godoc
// @Summary 导入课程目录
// @Description 请求体为 YAML，或以 multipart 字段 file 上传；已存在的 slug 会被跳过
// @Tags 管理
// @Accept  plain
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/catalog/import [post]
func (c *CatalogController) Import(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxCatalogBytes)

	var data []byte
	var err error
	if ctx.ContentType() == gin.MIMEMultipartPOSTForm {
		data, err = readUploadedFile(ctx, "file")
	} else {
		data, err = ctx.GetRawData()
	}
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(data) == 0 {
		util.BadRequest(ctx, "empty catalog")
		return
	}
	if _, err := util.ValidateMimeType(data, []string{"text/"}); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.CatalogService.Import(ctx.Request.Context(), data)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

func readUploadedFile(ctx *gin.Context, field string) ([]byte, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
