package app

import (
	"pulsa_edu_backend/docs"
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/middleware"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:slug", c.course.GetCourse)

		public.GET("/certificates/verify/:code", c.certificate.Verify)
		public.GET("/badges/catalog", c.badge.Catalog)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.Profile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// 学习进度
	rg.GET("/progress", c.progress.GetProgress)
	rg.POST("/progress", c.progress.MarkComplete)

	// 测验
	rg.POST("/quiz", c.quiz.Submit)
	rg.GET("/quiz/:quizId/results", c.quiz.Results)

	// 证书与徽章
	rg.GET("/certificates", c.certificate.List)
	rg.GET("/certificates/:code/document", c.certificate.Document)
	rg.GET("/badges", c.badge.Mine)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/catalog/import", c.catalog.Import)
	}
}
