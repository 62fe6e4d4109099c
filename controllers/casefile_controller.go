package controllers

import (
	"fmt"

	"casefilehub/acl"
	"casefilehub/services"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
)

type CasefileController struct {
	casefileService *services.CasefileService
}

func NewCasefileController(casefileService *services.CasefileService) *CasefileController {
	return &CasefileController{casefileService: casefileService}
}

// ========== Helpers ==========

// Extract the authenticated username set by the auth middleware.
func getUsername(c *gin.Context) (string, error) {
	username, exists := c.Get("username")
	if !exists {
		return "", fmt.Errorf("user not authenticated")
	}

	usernameStr, ok := username.(string)
	if !ok || usernameStr == "" {
		return "", fmt.Errorf("invalid user identity")
	}
	return usernameStr, nil
}

// Unified error handler mapping service error kinds to HTTP statuses.
func handleServiceError(c *gin.Context, err error, defaultMessage string) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.NotFoundResponse(c, err.Error())
	case services.KindPermissionDenied:
		utils.ForbiddenResponse(c, err.Error())
	case services.KindInvalidArgument:
		utils.BadRequestResponse(c, err.Error(), nil)
	case services.KindConflict:
		utils.ConflictResponse(c, err.Error(), nil)
	case services.KindUnavailable:
		utils.ServiceUnavailableResponse(c, "Backend temporarily unavailable")
	default:
		utils.InternalServerErrorResponse(c, defaultMessage, nil)
	}
}

// ========== Endpoints ==========

// CreateCasefile handles POST /api/casefiles
func (cc *CasefileController) CreateCasefile(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		ID          string `json:"id,omitempty"`
		Name        string `json:"name" binding:"required,min=1,max=255"`
		Description string `json:"description,omitempty"`
		ParentID    string `json:"parent_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := utils.ValidateCasefileName(req.Name); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	casefile, err := cc.casefileService.Create(c.Request.Context(), req.Name, req.Description, username, req.ParentID, req.ID)
	if err != nil {
		handleServiceError(c, err, "Failed to create casefile")
		return
	}

	utils.CreatedResponse(c, "Casefile created successfully", casefile)
}

// ListCasefiles handles GET /api/casefiles with an optional top_level filter.
func (cc *CasefileController) ListCasefiles(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var (
		casefiles any
		err       error
	)
	if c.Query("top_level") == "true" {
		casefiles, err = cc.casefileService.ListTopLevel(c.Request.Context())
	} else {
		casefiles, err = cc.casefileService.ListAll(c.Request.Context())
	}
	if err != nil {
		handleServiceError(c, err, "Failed to list casefiles")
		return
	}

	utils.SuccessResponse(c, "Casefiles retrieved successfully", casefiles)
}

// GetCasefile handles GET /api/casefiles/:id
func (cc *CasefileController) GetCasefile(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	casefile, err := cc.casefileService.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve casefile")
		return
	}

	utils.SuccessResponse(c, "Casefile retrieved successfully", casefile)
}

// UpdateCasefile handles PATCH /api/casefiles/:id
func (cc *CasefileController) UpdateCasefile(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}
	if len(updates) == 0 {
		utils.BadRequestResponse(c, "No update fields supplied", nil)
		return
	}

	casefile, err := cc.casefileService.Update(c.Request.Context(), c.Param("id"), updates, username)
	if err != nil {
		handleServiceError(c, err, "Failed to update casefile")
		return
	}

	utils.SuccessResponse(c, "Casefile updated successfully", casefile)
}

// DeleteCasefile handles DELETE /api/casefiles/:id
func (cc *CasefileController) DeleteCasefile(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	deleted, err := cc.casefileService.Delete(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		handleServiceError(c, err, "Failed to delete casefile")
		return
	}

	utils.SuccessResponse(c, "Casefile deleted successfully", gin.H{"deleted": deleted})
}

// GrantAccess handles POST /api/casefiles/:id/access
func (cc *CasefileController) GrantAccess(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	casefile, err := cc.casefileService.GrantAccess(c.Request.Context(), c.Param("id"), req.Username, req.Role, username)
	if err != nil {
		handleServiceError(c, err, "Failed to grant access")
		return
	}

	utils.SuccessResponse(c, "Access granted successfully", gin.H{
		"id":  casefile.ID,
		"acl": casefile.ACL,
	})
}

// RevokeAccess handles DELETE /api/casefiles/:id/access/:username
func (cc *CasefileController) RevokeAccess(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	casefile, err := cc.casefileService.RevokeAccess(c.Request.Context(), c.Param("id"), c.Param("username"), username)
	if err != nil {
		handleServiceError(c, err, "Failed to revoke access")
		return
	}

	utils.SuccessResponse(c, "Access revoked successfully", gin.H{
		"id":  casefile.ID,
		"acl": casefile.ACL,
	})
}

// ListRoles handles GET /api/casefiles/roles
func (cc *CasefileController) ListRoles(c *gin.Context) {
	utils.SuccessResponse(c, "Available roles", []acl.Role{acl.RoleReader, acl.RoleWriter, acl.RoleAdmin})
}
