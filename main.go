// @title Pulsa 学习平台 API
// @version 1.0
// @description Pulsa 学习平台后端：课程目录、学习进度、测验判分、证书与徽章。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"
	"pulsa_edu_backend/internal/app"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seed := flag.String("seed", "", "启动前导入 YAML 课程目录")
	flag.Parse()

	// .env 可选
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	cfg, err := config.LoadConfig(config.DefaultDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly || *seed != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *seed != "" {
		report, err := application.ImportCatalog(context.Background(), *seed)
		if err != nil {
			logger.Log.Fatal("Failed to import catalog", zap.String("file", *seed), zap.Error(err))
		}
		logger.Log.Info("Catalog imported",
			zap.Strings("created", report.CreatedCourses),
			zap.Strings("skipped", report.SkippedCourses))
	}

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
