package routes

import (
	"casefilehub/controllers"
	"casefilehub/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterSessionRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	sessionController := controllers.NewSessionController(container.SessionService)

	casefiles := rg.Group("/casefiles")
	casefiles.Use(middleware.AuthMiddleware(container.JWT.Secret))
	{
		casefiles.POST("/:id/sessions", sessionController.CreateSession)
		casefiles.GET("/:id/sessions", sessionController.ListSessions)
	}

	sessions := rg.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware(container.JWT.Secret))
	{
		sessions.GET("/:id", sessionController.GetSession)
	}
}
