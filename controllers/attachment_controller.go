package controllers

import (
	"time"

	"casefilehub/services"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
)

type AttachmentController struct {
	attachmentService *services.AttachmentService
	urlTTL            time.Duration
}

func NewAttachmentController(attachmentService *services.AttachmentService, urlTTL time.Duration) *AttachmentController {
	return &AttachmentController{
		attachmentService: attachmentService,
		urlTTL:            urlTTL,
	}
}

// UploadAttachment handles POST /api/casefiles/:id/attachments (multipart form, field "file").
func (ac *AttachmentController) UploadAttachment(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}

	if err := utils.ValidateAttachmentName(fileHeader.Filename); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	attachment, err := ac.attachmentService.Upload(c.Request.Context(), c.Param("id"), username, fileHeader.Filename, file)
	if err != nil {
		handleServiceError(c, err, "Failed to upload attachment")
		return
	}

	utils.CreatedResponse(c, "Attachment uploaded successfully", attachment)
}

// GetDownloadURL handles GET /api/casefiles/:id/attachments/:attachmentId/url
func (ac *AttachmentController) GetDownloadURL(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	url, err := ac.attachmentService.DownloadURL(c.Request.Context(), c.Param("id"), c.Param("attachmentId"), username, ac.urlTTL)
	if err != nil {
		handleServiceError(c, err, "Failed to generate download URL")
		return
	}

	utils.SuccessResponse(c, "Download URL generated successfully", gin.H{
		"url":        url,
		"expires_in": int(ac.urlTTL.Seconds()),
	})
}
