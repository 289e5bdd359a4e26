package controller

import (
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Submit godoc
// @Summary 提交测验
// @Description 全对才算对；百分比 >= 70 为通过
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body service.QuizSubmission true "答案"
// @Success 200 {object} util.Response{data=service.QuizSubmissionResult}
// @Failure 400 {object} util.Response "答案格式错误"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quiz [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), userID, req.QuizID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Results godoc
// @Summary 测验提交记录
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quiz/{quizId}/results [get]
func (c *QuizController) Results(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	quizID := util.MustParseUint(ctx.Param("quizId"))
	if quizID == 0 {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	results, err := c.QuizService.ListResults(ctx.Request.Context(), userID, quizID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
