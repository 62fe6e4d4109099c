package routes

import (
	"casefilehub/controllers"
	"casefilehub/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	authController := controllers.NewAuthController(container.UserService, container.JWT.Secret, container.JWT.Issuer, container.JWT.Expiration)

	auth := rg.Group("/auth")
	{
		auth.POST("/token", authController.IssueToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(container.JWT.Secret))
		protected.GET("/me", authController.WhoAmI)
	}
}
