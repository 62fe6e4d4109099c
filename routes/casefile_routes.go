package routes

import (
	"casefilehub/controllers"
	"casefilehub/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterCasefileRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	casefileController := controllers.NewCasefileController(container.CasefileService)

	casefiles := rg.Group("/casefiles")
	casefiles.Use(middleware.AuthMiddleware(container.JWT.Secret))
	{
		casefiles.POST("/", casefileController.CreateCasefile)
		casefiles.GET("/", casefileController.ListCasefiles)
		casefiles.GET("/roles", casefileController.ListRoles)
		casefiles.GET("/:id", casefileController.GetCasefile)
		casefiles.PATCH("/:id", casefileController.UpdateCasefile)
		casefiles.DELETE("/:id", casefileController.DeleteCasefile)

		// ACL management
		casefiles.POST("/:id/access", casefileController.GrantAccess)
		casefiles.DELETE("/:id/access/:username", casefileController.RevokeAccess)
	}
}
