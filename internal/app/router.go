package app

import (
	"learning_platform_backend/docs"
	"learning_platform_backend/internal/config"
	"learning_platform_backend/internal/middleware"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/forgot-password", c.auth.ForgotPassword)
		public.POST("/reset-password", c.auth.ResetPassword)

		// 课程目录对游客开放
		public.GET("/courses", middleware.TryAuthMiddleware(a.Config), c.course.List)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.Get)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/users/profile", c.auth.GetProfile)
	group.PUT("/users/profile", c.user.UpdateProfile)
	group.POST("/users/avatar", c.user.UploadAvatar)

	group.GET("/courses/:id/modules", c.course.Modules)

	group.POST("/courses/:id/enroll", c.enrollment.Enroll)
	group.DELETE("/courses/:id/enroll", c.enrollment.Unenroll)

	group.POST("/progress", c.progress.RecordCompletion)
	group.GET("/progress", c.progress.Overview)
	group.GET("/progress/streak", c.progress.GetStreak)

	group.GET("/achievements", c.achievement.List)
	group.POST("/achievements/evaluate", c.achievement.Evaluate)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.Create)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)

		teacher.POST("/courses/:id/modules", c.course.CreateModule)
		teacher.POST("/courses/:id/modules/:moduleId/units", c.course.CreateUnit)
		teacher.DELETE("/courses/:id/units/:unitId", c.course.DeleteUnit)

		teacher.GET("/courses/:id/enrollments", c.enrollment.Roster)
		teacher.PUT("/courses/:id/enrollments/:enrollmentId", c.enrollment.SetStatus)
	}
}
