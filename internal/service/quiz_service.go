package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/monitoring"
	"pulsa_edu_backend/pkg/tracing"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
	Badges   *BadgeService
}

func NewQuizService(quizRepo *repository.QuizRepository, badges *BadgeService) *QuizService {
	return &QuizService{
		QuizRepo: quizRepo,
		Badges:   badges,
	}
}

type QuizSubmission struct {
	QuizID  uint          `json:"quizId" binding:"required"`
	Answers []AnswerInput `json:"answers"`
}

type QuizSubmissionResult struct {
	Result *model.QuizResult `json:"result"`
	GradeOutcome
	NewBadges []model.Badge `json:"newBadges"`
}

// SubmitQuiz 校验、判分并追加一条 QuizResult
func (s *QuizService) SubmitQuiz(ctx context.Context, userID, quizID uint, answers []AnswerInput) (res *QuizSubmissionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizService.SubmitQuiz",
		attribute.Int64("quiz.id", int64(quizID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err := ValidateAnswers(answers); err != nil {
		return nil, err
	}

	quiz, err := s.QuizRepo.FindWithQuestions(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}

	outcome := GradeQuiz(quiz, answers)

	detail, err := json.Marshal(outcome.Details)
	if err != nil {
		return nil, fmt.Errorf("encode answer detail: %w", err)
	}

	result := &model.QuizResult{
		UserID:     userID,
		QuizID:     quizID,
		Score:      outcome.Score,
		Total:      outcome.Total,
		Percentage: outcome.Percentage,
		Passed:     outcome.Passed,
		Answers:    detail,
	}
	if err := s.QuizRepo.CreateResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save quiz result: %w", err)
	}

	monitoring.QuizSubmissions.WithLabelValues(strconv.FormatBool(outcome.Passed)).Inc()

	var newBadges []model.Badge
	if s.Badges != nil {
		newBadges = s.Badges.EvaluateQuietly(ctx, userID, model.BadgePerfectQuiz)
	}

	return &QuizSubmissionResult{
		Result:       result,
		GradeOutcome: outcome,
		NewBadges:    newBadges,
	}, nil
}

// ListResults 当前用户在某测验上的历史提交，最新在前
func (s *QuizService) ListResults(ctx context.Context, userID, quizID uint) ([]model.QuizResult, error) {
	results, err := s.QuizRepo.ListResults(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return results, nil
}
