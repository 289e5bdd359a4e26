package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogFile YAML 课程目录
type CatalogFile struct {
	Courses []CatalogCourse `yaml:"courses"`
	Badges  []CatalogBadge  `yaml:"badges"`
}

type CatalogCourse struct {
	Title       string          `yaml:"title"`
	Slug        string          `yaml:"slug"`
	Description string          `yaml:"description"`
	Category    string          `yaml:"category"`
	Difficulty  string          `yaml:"difficulty"`
	Duration    string          `yaml:"duration"`
	ImageURL    string          `yaml:"image_url"`
	Published   bool            `yaml:"published"`
	Modules     []CatalogModule `yaml:"modules"`
}

type CatalogModule struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Order       int             `yaml:"order"`
	Lessons     []CatalogLesson `yaml:"lessons"`
}

type CatalogLesson struct {
	Title   string       `yaml:"title"`
	Type    string       `yaml:"type"`
	Order   int          `yaml:"order"`
	Content string       `yaml:"content"`
	Quiz    *CatalogQuiz `yaml:"quiz"`
}

type CatalogQuiz struct {
	Title     string            `yaml:"title"`
	Questions []CatalogQuestion `yaml:"questions"`
}

type CatalogQuestion struct {
	Text        string          `yaml:"text"`
	Type        string          `yaml:"type"`
	Explanation string          `yaml:"explanation"`
	Order       int             `yaml:"order"`
	Options     []CatalogOption `yaml:"options"`
}

type CatalogOption struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

type CatalogBadge struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Condition   string `yaml:"condition"`
}

// ImportReport 导入结果
type ImportReport struct {
	CreatedCourses []string `json:"createdCourses"`
	SkippedCourses []string `json:"skippedCourses"`
	CreatedBadges  int      `json:"createdBadges"`
}

// CourseFilter 课程列表筛选
type CourseFilter struct {
	Category   string `form:"category"`
	Difficulty string `form:"difficulty" binding:"omitempty,difficulty"`
}

type CatalogService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
}

func NewCatalogService(db *gorm.DB, courseRepo *repository.CourseRepository) *CatalogService {
	return &CatalogService{DB: db, CourseRepo: courseRepo}
}

// ListCourses 已发布课程，按条件在内存中过滤缓存结果
func (s *CatalogService) ListCourses(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	courses, err := s.CourseRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if filter.Category == "" && filter.Difficulty == "" {
		return courses, nil
	}

	filtered := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if filter.Category != "" && !strings.EqualFold(c.Category, filter.Category) {
			continue
		}
		if filter.Difficulty != "" && string(c.Difficulty) != filter.Difficulty {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered, nil
}

// GetCourseBySlug 未发布的课程对外不可见
func (s *CatalogService) GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, fmt.Errorf("load course %s: %w", slug, err)
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CatalogService) ImportFile(ctx context.Context, path string) (*ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return s.Import(ctx, data)
}

// Import 在一个事务中导入 YAML 目录，已存在的 slug 跳过
func (s *CatalogService) Import(ctx context.Context, data []byte) (*ImportReport, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidCatalog, err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	report := &ImportReport{
		CreatedCourses: make([]string, 0),
		SkippedCourses: make([]string, 0),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range file.Courses {
			var count int64
			if err := tx.Unscoped().Model(&model.Course{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				report.SkippedCourses = append(report.SkippedCourses, c.Slug)
				continue
			}
			course := c.toModel()
			if err := tx.Create(course).Error; err != nil {
				return fmt.Errorf("create course %s: %w", c.Slug, err)
			}
			report.CreatedCourses = append(report.CreatedCourses, c.Slug)
		}

		for _, b := range file.Badges {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Badge{
				Name:        b.Name,
				Description: b.Description,
				Icon:        b.Icon,
				Condition:   model.BadgeCondition(b.Condition),
			})
			if res.Error != nil {
				return fmt.Errorf("create badge %s: %w", b.Condition, res.Error)
			}
			report.CreatedBadges += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.CourseRepo.InvalidateCatalog(ctx, report.CreatedCourses...)
	logger.Log.Info("课程目录导入完成",
		zap.Int("created", len(report.CreatedCourses)),
		zap.Int("skipped", len(report.SkippedCourses)),
		zap.Int("badges", report.CreatedBadges))
	return report, nil
}

// Validate 检查目录结构
func (f *CatalogFile) Validate() error {
	slugs := make(map[string]bool, len(f.Courses))
	for i, c := range f.Courses {
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.Slug) == "" {
			return fmt.Errorf("%w: courses[%d] needs title and slug", util.ErrInvalidCatalog, i)
		}
		if slugs[c.Slug] {
			return fmt.Errorf("%w: duplicate slug %q", util.ErrInvalidCatalog, c.Slug)
		}
		slugs[c.Slug] = true
		if c.Difficulty != "" && !model.ValidDifficulty(c.Difficulty) {
			return fmt.Errorf("%w: course %q has unknown difficulty %q", util.ErrInvalidCatalog, c.Slug, c.Difficulty)
		}

		orders := make(map[int]bool, len(c.Modules))
		for j, m := range c.Modules {
			order := orderOrIndex(m.Order, j)
			if orders[order] {
				return fmt.Errorf("%w: course %q has duplicate module order %d", util.ErrInvalidCatalog, c.Slug, order)
			}
			orders[order] = true
			for _, l := range m.Lessons {
				if l.Quiz == nil {
					continue
				}
				for _, q := range l.Quiz.Questions {
					if len(q.Options) == 0 {
						return fmt.Errorf("%w: question %q in course %q has no options", util.ErrInvalidCatalog, q.Text, c.Slug)
					}
				}
			}
		}
	}

	for i, b := range f.Badges {
		if !model.ValidBadgeCondition(b.Condition) {
			return fmt.Errorf("%w: badges[%d] has unknown condition %q", util.ErrInvalidCatalog, i, b.Condition)
		}
	}
	return nil
}

// 未指定 order 时按出现顺序从 1 开始
func orderOrIndex(order, index int) int {
	if order > 0 {
		return order
	}
	return index + 1
}

func (c CatalogCourse) toModel() *model.Course {
	course := &model.Course{
		Title:       c.Title,
		Slug:        c.Slug,
		Description: c.Description,
		Category:    c.Category,
		Difficulty:  model.Difficulty(c.Difficulty),
		Duration:    c.Duration,
		ImageURL:    c.ImageURL,
		Published:   c.Published,
	}
	if course.Difficulty == "" {
		course.Difficulty = model.Beginner
	}

	for i, m := range c.Modules {
		module := model.Module{
			Title:       m.Title,
			Description: m.Description,
			Order:       orderOrIndex(m.Order, i),
		}
		for j, l := range m.Lessons {
			lesson := model.Lesson{
				Title:   l.Title,
				Type:    model.LessonType(l.Type),
				Order:   orderOrIndex(l.Order, j),
				Content: l.Content,
			}
			if lesson.Type == "" {
				lesson.Type = model.LessonText
			}
			if l.Quiz != nil {
				lesson.Quiz = l.Quiz.toModel(l.Title)
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		course.Modules = append(course.Modules, module)
	}
	return course
}

func (q CatalogQuiz) toModel(lessonTitle string) *model.Quiz {
	quiz := &model.Quiz{Title: q.Title}
	if quiz.Title == "" {
		quiz.Title = lessonTitle
	}
	for i, cq := range q.Questions {
		question := model.Question{
			Text:        cq.Text,
			Type:        model.QuestionType(cq.Type),
			Explanation: cq.Explanation,
			Order:       orderOrIndex(cq.Order, i),
		}
		correct := 0
		for _, o := range cq.Options {
			question.Options = append(question.Options, model.Option{Text: o.Text, IsCorrect: o.Correct})
			if o.Correct {
				correct++
			}
		}
		if question.Type == "" {
			question.Type = model.SingleChoice
			if correct > 1 {
				question.Type = model.MultipleChoice
			}
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}
