package service

import (
	"context"
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
)

type DashboardService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	CertRepo     *repository.CertificateRepository
	BadgeRepo    *repository.BadgeRepository
}

func NewDashboardService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	certRepo *repository.CertificateRepository,
	badgeRepo *repository.BadgeRepository,
) *DashboardService {
	return &DashboardService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		CertRepo:     certRepo,
		BadgeRepo:    badgeRepo,
	}
}

type CourseStat struct {
	Course           model.Course `json:"course"`
	TotalLessons     int          `json:"totalLessons"`
	CompletedLessons int          `json:"completedLessons"`
	Percentage       int          `json:"percentage"`
	HasCertificate   bool         `json:"hasCertificate"`
}

type Dashboard struct {
	Courses          []CourseStat        `json:"courses"`
	CompletedCourses int                 `json:"completedCourses"`
	Certificates     []model.Certificate `json:"certificates"`
	Badges           []model.UserBadge   `json:"badges"`
}

func (s *DashboardService) GetUserDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	courses, err := s.CourseRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	totals, err := s.CourseRepo.LessonCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	done, err := s.ProgressRepo.CompletedByCourse(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count progress: %w", err)
	}

	certs, err := s.CertRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	certified := make(map[uint]bool, len(certs))
	for _, c := range certs {
		certified[c.CourseID] = true
	}

	badges, err := s.BadgeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	dash := &Dashboard{
		Courses:      make([]CourseStat, 0, len(courses)),
		Certificates: certs,
		Badges:       badges,
	}
	for _, c := range courses {
		stat := CourseStat{
			Course:           c,
			TotalLessons:     totals[c.ID],
			CompletedLessons: done[c.ID],
			Percentage:       util.Percentage(done[c.ID], totals[c.ID]),
			HasCertificate:   certified[c.ID],
		}
		if stat.TotalLessons > 0 && stat.CompletedLessons >= stat.TotalLessons {
			dash.CompletedCourses++
		}
		dash.Courses = append(dash.Courses, stat)
	}
	return dash, nil
}
