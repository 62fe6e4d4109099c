package controllers

import (
	"casefilehub/services"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	sessionService *services.SessionService
}

func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// CreateSession handles POST /api/casefiles/:id/sessions
func (sc *SessionController) CreateSession(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	session, err := sc.sessionService.Create(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		handleServiceError(c, err, "Failed to create session")
		return
	}

	utils.CreatedResponse(c, "Session created successfully", session)
}

// ListSessions handles GET /api/casefiles/:id/sessions
func (sc *SessionController) ListSessions(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	sessions, err := sc.sessionService.ListByCasefile(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to list sessions")
		return
	}

	utils.SuccessResponse(c, "Sessions retrieved successfully", sessions)
}

// GetSession handles GET /api/sessions/:id
func (sc *SessionController) GetSession(c *gin.Context) {
	if _, err := getUsername(c); err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	session, err := sc.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve session")
		return
	}

	utils.SuccessResponse(c, "Session retrieved successfully", session)
}
