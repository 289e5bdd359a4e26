package service

import (
	"context"
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/pkg/logger"
	"pulsa_edu_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// 课时完成后需要检查的徽章
var lessonBadgeConditions = []model.BadgeCondition{
	model.BadgeFirstLesson,
	model.BadgeStartThreeCourses,
	model.BadgeCompleteCourse,
	model.BadgeCompleteAllCourses,
}

type BadgeService struct {
	BadgeRepo    *repository.BadgeRepository
	ProgressRepo *repository.ProgressRepository
	QuizRepo     *repository.QuizRepository
	CertRepo     *repository.CertificateRepository
	CourseRepo   *repository.CourseRepository

	now func() time.Time
}

func NewBadgeService(
	badgeRepo *repository.BadgeRepository,
	progressRepo *repository.ProgressRepository,
	quizRepo *repository.QuizRepository,
	certRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
) *BadgeService {
	return &BadgeService{
		BadgeRepo:    badgeRepo,
		ProgressRepo: progressRepo,
		QuizRepo:     quizRepo,
		CertRepo:     certRepo,
		CourseRepo:   courseRepo,
		now:          time.Now,
	}
}

func (s *BadgeService) ListCatalog(ctx context.Context) ([]model.Badge, error) {
	return s.BadgeRepo.ListAll(ctx)
}

func (s *BadgeService) ListUserBadges(ctx context.Context, userID uint) ([]model.UserBadge, error) {
	return s.BadgeRepo.ListByUser(ctx, userID)
}

// Evaluate 检查给定条件下尚未获得的徽章，返回本次新发放的徽章
func (s *BadgeService) Evaluate(ctx context.Context, userID uint, conditions ...model.BadgeCondition) ([]model.Badge, error) {
	candidates, err := s.BadgeRepo.FindUnearned(ctx, userID, conditions)
	if err != nil {
		return nil, fmt.Errorf("find unearned badges: %w", err)
	}

	awarded := make([]model.Badge, 0)
	for _, badge := range candidates {
		ok, err := s.qualifies(ctx, userID, badge.Condition)
		if err != nil {
			return awarded, fmt.Errorf("check badge %s: %w", badge.Condition, err)
		}
		if !ok {
			continue
		}

		created, err := s.BadgeRepo.Award(ctx, userID, badge.ID, s.now())
		if err != nil {
			return awarded, fmt.Errorf("award badge %s: %w", badge.Condition, err)
		}
		if created {
			monitoring.BadgesAwarded.WithLabelValues(string(badge.Condition)).Inc()
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}

// EvaluateQuietly 徽章失败只记录日志，不影响主流程
func (s *BadgeService) EvaluateQuietly(ctx context.Context, userID uint, conditions ...model.BadgeCondition) []model.Badge {
	awarded, err := s.Evaluate(ctx, userID, conditions...)
	if err != nil {
		logger.Log.Warn("徽章检查失败", zap.Uint("userId", userID), zap.Error(err))
	}
	if awarded == nil {
		awarded = make([]model.Badge, 0)
	}
	return awarded
}

func (s *BadgeService) qualifies(ctx context.Context, userID uint, cond model.BadgeCondition) (bool, error) {
	switch cond {
	case model.BadgeFirstLesson:
		n, err := s.ProgressRepo.CountAllCompleted(ctx, userID)
		return n >= 1, err
	case model.BadgeStartThreeCourses:
		n, err := s.ProgressRepo.CountStartedCourses(ctx, userID)
		return n >= 3, err
	case model.BadgePerfectQuiz:
		return s.QuizRepo.HasPerfectResult(ctx, userID)
	case model.BadgeCompleteCourse:
		n, err := s.CertRepo.CountByUser(ctx, userID)
		return n >= 1, err
	case model.BadgeCompleteAllCourses:
		ids, err := s.CourseRepo.ListPublishedIDs(ctx)
		if err != nil || len(ids) == 0 {
			return false, err
		}
		n, err := s.CertRepo.CountForCourses(ctx, userID, ids)
		return int(n) == len(ids), err
	}
	return false, nil
}
