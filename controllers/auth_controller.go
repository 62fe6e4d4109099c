package controllers

import (
	"time"

	"casefilehub/services"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	userService   *services.UserService
	jwtSecret     string
	jwtIssuer     string
	jwtExpiration time.Duration
}

func NewAuthController(userService *services.UserService, jwtSecret, jwtIssuer string, jwtExpiration time.Duration) *AuthController {
	return &AuthController{
		userService:   userService,
		jwtSecret:     jwtSecret,
		jwtIssuer:     jwtIssuer,
		jwtExpiration: jwtExpiration,
	}
}

// IssueToken handles POST /api/auth/token, exchanging a known username for a JWT.
func (ac *AuthController) IssueToken(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	user, err := ac.userService.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			utils.UnauthorizedResponse(c, "Unknown user")
			return
		}
		handleServiceError(c, err, "Failed to issue token")
		return
	}

	token, err := utils.GenerateJWTToken(user.Username, user.Role, ac.jwtSecret, ac.jwtIssuer, ac.jwtExpiration)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate token", nil)
		return
	}

	utils.SuccessResponse(c, "Token issued successfully", gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int(ac.jwtExpiration.Seconds()),
		"username":   user.Username,
		"role":       user.Role,
	})
}

// WhoAmI handles GET /api/auth/me for token introspection.
func (ac *AuthController) WhoAmI(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	user, err := ac.userService.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		handleServiceError(c, err, "Failed to load user")
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}
