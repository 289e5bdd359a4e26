package service

import (
	"context"
	"errors"
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/monitoring"
	"pulsa_edu_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	Certificates *CertificateService
	Badges       *BadgeService

	now func() time.Time
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	certificates *CertificateService,
	badges *BadgeService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		Certificates: certificates,
		Badges:       badges,
		now:          time.Now,
	}
}

type LessonCompletion struct {
	Progress             *model.Progress    `json:"progress"`
	CourseID             uint               `json:"courseId"`
	TotalLessons         int                `json:"totalLessons"`
	CompletedLessons     int                `json:"completedLessons"`
	CourseFullyCompleted bool               `json:"courseFullyCompleted"`
	Certificate          *model.Certificate `json:"certificate,omitempty"`
	NewBadges            []model.Badge      `json:"newBadges"`
}

type CourseProgress struct {
	CourseID         uint             `json:"courseId"`
	TotalLessons     int              `json:"totalLessons"`
	CompletedLessons int              `json:"completedLessons"`
	Percentage       int              `json:"percentage"`
	Progress         []model.Progress `json:"progress"`
}

// MarkLessonComplete 标记课时完成；课程全部完成时签发证书。可重复调用
func (s *ProgressService) MarkLessonComplete(ctx context.Context, userID, lessonID uint) (res *LessonCompletion, err error) {
	ctx, span := tracing.StartSpan(ctx, "ProgressService.MarkLessonComplete",
		attribute.Int64("lesson.id", int64(lessonID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	loc, err := s.CourseRepo.LocateLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, fmt.Errorf("locate lesson %d: %w", lessonID, err)
	}

	progress, err := s.ProgressRepo.MarkCompleted(ctx, userID, lessonID, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	monitoring.LessonCompletions.Inc()

	lessonIDs, err := s.CourseRepo.LessonIDs(ctx, loc.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list course lessons: %w", err)
	}
	completed, err := s.ProgressRepo.CountCompleted(ctx, userID, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}

	res = &LessonCompletion{
		Progress:         progress,
		CourseID:         loc.CourseID,
		TotalLessons:     len(lessonIDs),
		CompletedLessons: completed,
	}

	if len(lessonIDs) > 0 && completed == len(lessonIDs) {
		res.CourseFullyCompleted = true
		cert, _, err := s.Certificates.Issue(ctx, userID, loc.CourseID)
		if err != nil {
			return nil, err
		}
		res.Certificate = cert
	}

	if s.Badges != nil {
		res.NewBadges = s.Badges.EvaluateQuietly(ctx, userID, lessonBadgeConditions...)
	} else {
		res.NewBadges = make([]model.Badge, 0)
	}
	return res, nil
}

func (s *ProgressService) GetCourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	lessonIDs, err := s.CourseRepo.LessonIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course lessons: %w", err)
	}
	rows, err := s.ProgressRepo.FindByUserAndLessons(ctx, userID, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	completed := 0
	for _, p := range rows {
		if p.Completed {
			completed++
		}
	}
	if rows == nil {
		rows = make([]model.Progress, 0)
	}

	return &CourseProgress{
		CourseID:         courseID,
		TotalLessons:     len(lessonIDs),
		CompletedLessons: completed,
		Percentage:       util.Percentage(completed, len(lessonIDs)),
		Progress:         rows,
	}, nil
}
