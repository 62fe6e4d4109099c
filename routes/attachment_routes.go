package routes

import (
	"casefilehub/controllers"
	"casefilehub/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterAttachmentRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	attachmentController := controllers.NewAttachmentController(container.AttachmentService, container.AttachmentURLTTL)

	casefiles := rg.Group("/casefiles")
	casefiles.Use(middleware.AuthMiddleware(container.JWT.Secret))
	{
		casefiles.POST("/:id/attachments", attachmentController.UploadAttachment)
		casefiles.GET("/:id/attachments/:attachmentId/url", attachmentController.GetDownloadURL)
	}
}
