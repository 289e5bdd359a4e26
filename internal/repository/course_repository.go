package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	publishedCoursesKey = "catalog:courses:published"
	courseSlugKeyPrefix = "catalog:course:"
)

type CourseRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	TTL   time.Duration
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *CourseRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CourseRepository{DB: db, Redis: rdb, TTL: ttl}
}

// LessonLocation 课时及其所属模块、课程
type LessonLocation struct {
	LessonID uint
	ModuleID uint
	CourseID uint
}

func orderBySortOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// ListPublished 已发布课程，按创建时间倒序，模块按 order 排序并附带课时数
func (r *CourseRepository) ListPublished(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if r.getCached(ctx, publishedCoursesKey, &courses) {
		return courses, nil
	}

	err := r.DB.WithContext(ctx).
		Where("published = ?", true).
		Preload("Modules", orderBySortOrder).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	var moduleIDs []uint
	for _, c := range courses {
		for _, m := range c.Modules {
			moduleIDs = append(moduleIDs, m.ID)
		}
	}

	if len(moduleIDs) > 0 {
		var rows []struct {
			ModuleID uint
			Count    int64
		}
		err = r.DB.WithContext(ctx).Model(&model.Lesson{}).
			Select("module_id, COUNT(*) AS count").
			Where("module_id IN ?", moduleIDs).
			Group("module_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		counts := make(map[uint]int64, len(rows))
		for _, row := range rows {
			counts[row.ModuleID] = row.Count
		}
		for i := range courses {
			for j := range courses[i].Modules {
				courses[i].Modules[j].LessonCount = counts[courses[i].Modules[j].ID]
			}
		}
	}

	r.setCached(ctx, publishedCoursesKey, courses)
	return courses, nil
}

// FindBySlug 完整课程树。缓存中的选项不含正确答案，仅用于展示
func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	key := courseSlugKeyPrefix + slug
	if r.getCached(ctx, key, &course) {
		return &course, nil
	}

	err := r.DB.WithContext(ctx).
		Preload("Modules", orderBySortOrder).
		Preload("Modules.Lessons", orderBySortOrder).
		Preload("Modules.Lessons.Quiz").
		Preload("Modules.Lessons.Quiz.Questions", orderBySortOrder).
		Preload("Modules.Lessons.Quiz.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, &course)
	return &course, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) ListPublishedIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("published = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CourseRepository) lessonsOfCourses(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&model.Lesson{}).
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id AND course_modules.deleted_at IS NULL")
}

// LessonIDs 课程下全部课时 ID
func (r *CourseRepository) LessonIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.lessonsOfCourses(ctx).
		Where("course_modules.course_id = ?", courseID).
		Pluck("lessons.id", &ids).Error
	return ids, err
}

// LessonCounts 每门课程的课时总数
func (r *CourseRepository) LessonCounts(ctx context.Context, courseIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uint
		Count    int
	}
	err := r.lessonsOfCourses(ctx).
		Select("course_modules.course_id AS course_id, COUNT(lessons.id) AS count").
		Where("course_modules.course_id IN ?", courseIDs).
		Group("course_modules.course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}

// LocateLesson 查找课时所属课程，不存在时返回 gorm.ErrRecordNotFound
func (r *CourseRepository) LocateLesson(ctx context.Context, lessonID uint) (*LessonLocation, error) {
	var loc LessonLocation
	err := r.lessonsOfCourses(ctx).
		Select("lessons.id AS lesson_id, lessons.module_id AS module_id, course_modules.course_id AS course_id").
		Where("lessons.id = ?", lessonID).
		Scan(&loc).Error
	if err != nil {
		return nil, err
	}
	if loc.LessonID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &loc, nil
}

// InvalidateCatalog 清除目录缓存
func (r *CourseRepository) InvalidateCatalog(ctx context.Context, slugs ...string) {
	if r.Redis == nil {
		return
	}
	keys := []string{publishedCoursesKey}
	for _, s := range slugs {
		keys = append(keys, courseSlugKeyPrefix+s)
	}
	if err := r.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (r *CourseRepository) getCached(ctx context.Context, key string, dest interface{}) bool {
	if r.Redis == nil {
		return false
	}
	data, err := r.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Log.Warn("catalog cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CourseRepository) setCached(ctx context.Context, key string, v interface{}) {
	if r.Redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Warn("catalog cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.Redis.Set(ctx, key, data, r.TTL).Err(); err != nil {
		logger.Log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(fmt.Errorf("set: %w", err)))
	}
}
