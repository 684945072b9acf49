package app

import (
	"tutor_backend/docs"
	"tutor_backend/internal/config"
	"tutor_backend/internal/middleware"
	"tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.Auth), middleware.StoreCredentialMiddleware(s.credential))
	{
		a.registerLearningRoutes(authGroup, c)
		a.registerChatRoutes(authGroup, c)

		authGroup.POST("/ai/enhance-notes", c.ai.EnhanceNotes)
	}
}

func (a *App) registerLearningRoutes(group *gin.RouterGroup, c *controllers) {
	events := group.Group("/events")
	{
		events.POST("", c.learningEvent.CreateEvent)
		events.GET("", c.learningEvent.ListEvents)
		events.DELETE("", c.learningEvent.DeleteEvent)
		events.GET("/stats", c.learningEvent.GetStats)
	}

	group.GET("/analytics", c.analytics.GetTutoring)

	// 旧客户端路径
	group.POST("/learning/analytics", c.learningEvent.LogLegacyEvent)
	group.GET("/learning/analytics", c.analytics.GetTutoring)
}

func (a *App) registerChatRoutes(group *gin.RouterGroup, c *controllers) {
	chat := group.Group("/chat")
	{
		chat.POST("/messages", c.chat.PostMessage)
		chat.GET("/messages", c.chat.GetMessages)
		chat.GET("/ws", c.chat.HandleWS)
	}
}
