// 手动导入 YAML 课程目录
//
// 与启动参数 -seed 等价，适合在不启动服务的情况下批量导入。
// 已存在的 slug 会被跳过。
//
// 用法: go run scripts/import_catalog.go configs/catalog.yaml

package main

import (
	"context"
	"log"
	"os"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/pkg/database"
	"pulsa_edu_backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("用法: go run scripts/import_catalog.go <catalog.yaml>")
	}

	cfg, err := config.LoadConfig(config.DefaultDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis 不可用，跳过缓存清理: %v", err)
		rdb = nil
	}

	catalog := service.NewCatalogService(db, repository.NewCourseRepository(db, rdb, cfg.CatalogTTL()))
	report, err := catalog.ImportFile(context.Background(), os.Args[1])
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！新增 %d 门课程，跳过 %d 门，新增徽章 %d 个",
		len(report.CreatedCourses), len(report.SkippedCourses), report.CreatedBadges)
}
