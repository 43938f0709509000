package app

import (
	"learnpath_backend/docs"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/middleware"
	"learnpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 课程树与导航允许匿名访问，登录学员的进度会被保存
	paths := router.Group("/api/learning-paths/:id")
	paths.Use(middleware.TryAuthMiddleware(cfg))
	{
		paths.GET("", c.learningPath.GetPath)
		registerNavigatorRoutes(paths.Group("/navigator"), c)
	}

	authorized := router.Group("/api/learning-paths/:id")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/progress", c.learningPath.GetProgress)
	}
}

func registerNavigatorRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("", c.learningPath.Open)
	rg.POST("/introduction", c.learningPath.SelectIntroduction)
	rg.POST("/units/:unitId", c.learningPath.SelectUnit)
	rg.POST("/units/:unitId/modules/:moduleId", c.learningPath.SelectModule)
	rg.POST("/units/:unitId/test", c.learningPath.SelectUnitTest)
	rg.POST("/units/:unitId/toggle", c.learningPath.ToggleUnit)
	rg.POST("/final-test", c.learningPath.SelectFinalTest)
	rg.POST("/advance", c.learningPath.Advance)
	rg.POST("/complete", c.learningPath.Complete)
	rg.POST("/sidebar", c.learningPath.ToggleSidebar)
}
