package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector 根据配置选择数据库驱动
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case util.DatabaseMySQL, "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case util.DatabasePostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case util.DatabaseSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Type != util.DatabaseSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Println("Database connection established")
	return db, nil
}

// AutoMigrate 迁移全部表结构并写入默认徽章
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Lesson{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.Progress{},
		&model.QuizResult{},
		&model.Certificate{},
		&model.Badge{},
		&model.UserBadge{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	return seedDefaultBadges(db)
}

// DefaultBadges 默认徽章目录
var DefaultBadges = []model.Badge{
	{Name: "Premier pas", Description: "Terminez votre première leçon", Icon: "🎯", Condition: model.BadgeFirstLesson},
	{Name: "Curieux", Description: "Commencez 3 parcours différents", Icon: "🔍", Condition: model.BadgeStartThreeCourses},
	{Name: "Expert Quiz", Description: "Obtenez 100% à un quiz", Icon: "🏆", Condition: model.BadgePerfectQuiz},
	{Name: "Assidu", Description: "Terminez un parcours complet", Icon: "⭐", Condition: model.BadgeCompleteCourse},
	{Name: "Maître IA", Description: "Terminez tous les parcours disponibles", Icon: "🤖", Condition: model.BadgeCompleteAllCourses},
}

func seedDefaultBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	badges := make([]model.Badge, len(DefaultBadges))
	copy(badges, DefaultBadges)
	return db.Create(&badges).Error
}
