package service

import (
	"fmt"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{
		Type:       util.DatabaseSQLite,
		SQLitePath: "file::memory:",
	}, "release")
	require.NoError(t, err)

	// 内存库每个连接是独立的数据库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type testServices struct {
	DB           *gorm.DB
	Progress     *ProgressService
	Quiz         *QuizService
	Certificates *CertificateService
	Badges       *BadgeService
	Dashboard    *DashboardService
	Catalog      *CatalogService
	Auth         *AuthService
	StorageRoot  string
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)

	courseRepo := repository.NewCourseRepository(db, nil, time.Minute)
	progressRepo := repository.NewProgressRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	userRepo := repository.NewUserRepository(db)

	root := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: root})

	badges := NewBadgeService(badgeRepo, progressRepo, quizRepo, certRepo, courseRepo)
	certs := NewCertificateService(certRepo, storage)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}

	return &testServices{
		DB:           db,
		Progress:     NewProgressService(progressRepo, courseRepo, certs, badges),
		Quiz:         NewQuizService(quizRepo, badges),
		Certificates: certs,
		Badges:       badges,
		Dashboard:    NewDashboardService(courseRepo, progressRepo, certRepo, badgeRepo),
		Catalog:      NewCatalogService(db, courseRepo),
		Auth:         NewAuthService(userRepo, cfg),
		StorageRoot:  root,
	}
}

func createUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "x",
		Role:     model.Learner,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createCourse 单模块课程，第一课带两道题的测验：
// 第一题单选（A 正确），第二题多选（B、C 正确）
func createCourse(t *testing.T, db *gorm.DB, slug string, lessons int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:      "Course " + slug,
		Slug:       slug,
		Difficulty: model.Beginner,
		Published:  true,
	}
	if lessons > 0 {
		module := model.Module{Title: "Module 1", Order: 1}
		for i := 0; i < lessons; i++ {
			module.Lessons = append(module.Lessons, model.Lesson{
				Title: fmt.Sprintf("Lesson %d", i+1),
				Type:  model.LessonText,
				Order: i + 1,
			})
		}
		module.Lessons[0].Quiz = &model.Quiz{
			Title: "Quiz",
			Questions: []model.Question{
				{Text: "q1", Type: model.SingleChoice, Order: 1, Options: []model.Option{
					{Text: "A", IsCorrect: true},
					{Text: "B"},
				}},
				{Text: "q2", Type: model.MultipleChoice, Order: 2, Options: []model.Option{
					{Text: "A"},
					{Text: "B", IsCorrect: true},
					{Text: "C", IsCorrect: true},
				}},
			},
		}
		course.Modules = []model.Module{module}
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func lessonIDsOf(course *model.Course) []uint {
	var ids []uint
	for _, m := range course.Modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func quizOf(course *model.Course) *model.Quiz {
	return course.Modules[0].Lessons[0].Quiz
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
