package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/controller"
	"pulsa_edu_backend/internal/repository"
	"pulsa_edu_backend/internal/service"
	"pulsa_edu_backend/internal/util"
	"pulsa_edu_backend/pkg/configwatcher"
	"pulsa_edu_backend/pkg/database"
	"pulsa_edu_backend/pkg/logger"
	"pulsa_edu_backend/pkg/monitoring"
	"pulsa_edu_backend/pkg/security"
	"pulsa_edu_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	quiz        *repository.QuizRepository
	progress    *repository.ProgressRepository
	certificate *repository.CertificateRepository
	badge       *repository.BadgeRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	catalog     *service.CatalogService
	badge       *service.BadgeService
	certificate *service.CertificateService
	progress    *service.ProgressService
	quiz        *service.QuizService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	progress    *controller.ProgressController
	quiz        *controller.QuizController
	certificate *controller.CertificateController
	badge       *controller.BadgeController
	dashboard   *controller.DashboardController
	catalog     *controller.CatalogController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db, rdb, cfg.CatalogTTL()),
		quiz:        repository.NewQuizRepository(db),
		progress:    repository.NewProgressRepository(db),
		certificate: repository.NewCertificateRepository(db),
		badge:       repository.NewBadgeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.catalog = service.NewCatalogService(db, repos.course)
	s.badge = service.NewBadgeService(repos.badge, repos.progress, repos.quiz, repos.certificate, repos.course)
	s.certificate = service.NewCertificateService(repos.certificate, s.storage)
	s.progress = service.NewProgressService(repos.progress, repos.course, s.certificate, s.badge)
	s.quiz = service.NewQuizService(repos.quiz, s.badge)
	s.dashboard = service.NewDashboardService(repos.course, repos.progress, repos.certificate, repos.badge)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		course:      controller.NewCourseController(s.catalog),
		progress:    controller.NewProgressController(s.progress),
		quiz:        controller.NewQuizController(s.quiz),
		certificate: controller.NewCertificateController(s.certificate),
		badge:       controller.NewBadgeController(s.badge),
		dashboard:   controller.NewDashboardController(s.dashboard),
		catalog:     controller.NewCatalogController(s.catalog),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// newApp 组装路由，DB 与 Redis 由调用方提供
func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg, db)
	controllers := app.initControllers(app.services, db, rdb)

	monitoring.Init()
	if err := controller.RegisterValidators(); err != nil {
		logger.Log.Error("Failed to register validators", zap.Error(err))
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	if cfg.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(logger.SetLevel)
	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式下只有显式指定才迁移
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.AutoMigrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := newApp(cfg, db, rdb)

	if cfg.Tracing.Enabled && !cfg.MigrateOnly {
		tp, err := tracing.InitTracer("pulsa-edu-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// ImportCatalog 导入 YAML 课程目录，供 -seed 参数使用
func (a *App) ImportCatalog(ctx context.Context, path string) (*service.ImportReport, error) {
	return a.services.catalog.ImportFile(ctx, path)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	configFile := filepath.Join(config.DefaultDir, "config.yaml")
	if err := configwatcher.WatchConfig(watchCtx, configFile, a.applyConfig); err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
