package repository

import (
	"context"
	"pulsa_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkCompleted 按 (user_id, lesson_id) 原子 upsert。completed_at 只在第一次完成时写入
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID, lessonID uint, now time.Time) (*model.Progress, error) {
	db := r.DB.WithContext(ctx)

	row := &model.Progress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"completed_at": gorm.Expr("COALESCE(lesson_progress.completed_at, ?)", now),
			"updated_at":   now,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var progress model.Progress
	err = db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUserAndLessons(ctx context.Context, userID uint, lessonIDs []uint) ([]model.Progress, error) {
	var progress []model.Progress
	if len(lessonIDs) == 0 {
		return progress, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Order("lesson_id ASC").
		Find(&progress).Error
	return progress, err
}

// CountCompleted 统计给定课时中已完成的数量
func (r *ProgressRepository) CountCompleted(ctx context.Context, userID uint, lessonIDs []uint) (int, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Progress{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Count(&count).Error
	return int(count), err
}

func (r *ProgressRepository) CountAllCompleted(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Progress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) byCourse(ctx context.Context, userID uint) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Progress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id AND course_modules.deleted_at IS NULL").
		Where("lesson_progress.user_id = ?", userID)
}

// CompletedByCourse 每门课程已完成的课时数
func (r *ProgressRepository) CompletedByCourse(ctx context.Context, userID uint) (map[uint]int, error) {
	var rows []struct {
		CourseID uint
		Count    int
	}
	err := r.byCourse(ctx, userID).
		Select("course_modules.course_id AS course_id, COUNT(DISTINCT lesson_progress.lesson_id) AS count").
		Where("lesson_progress.completed = ?", true).
		Group("course_modules.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}

// CountStartedCourses 有任意进度记录的课程数
func (r *ProgressRepository) CountStartedCourses(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.byCourse(ctx, userID).
		Distinct("course_modules.course_id").
		Count(&count).Error
	return count, err
}
