// routes/routes.go
package routes

import (
	"time"

	"casefilehub/cache"
	"casefilehub/services"
	"casefilehub/store"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
)

// B2Config holds the B2 attachment storage configuration.
type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketName     string
}

// JWTConfig holds the token issuance configuration.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// ServiceContainer holds all services and dependencies
type ServiceContainer struct {
	Store             store.Store
	Cache             cache.Cache
	JWT               JWTConfig
	AttachmentURLTTL  time.Duration
	UserService       *services.UserService
	CasefileService   *services.CasefileService
	SessionService    *services.SessionService
	AttachmentService *services.AttachmentService
}

// NewServiceContainer creates a new service container with all dependencies initialized.
// AttachmentService stays nil when b2Config is empty; attachment routes are then skipped.
func NewServiceContainer(s store.Store, c cache.Cache, cacheTTL time.Duration, jwtConfig JWTConfig, attachmentURLTTL time.Duration, b2Config B2Config) (*ServiceContainer, error) {
	userService := services.NewUserService(s)
	casefileService := services.NewCasefileService(s, c, userService, cacheTTL)
	sessionService := services.NewSessionService(s, casefileService)

	var attachmentService *services.AttachmentService
	if b2Config.KeyID != "" && b2Config.ApplicationKey != "" && b2Config.BucketName != "" {
		var err error
		attachmentService, err = services.NewAttachmentService(b2Config.KeyID, b2Config.ApplicationKey, b2Config.BucketName, casefileService, userService)
		if err != nil {
			return nil, err
		}
	} else {
		utils.LogWarning("B2 not configured, attachment routes disabled")
	}

	return &ServiceContainer{
		Store:             s,
		Cache:             c,
		JWT:               jwtConfig,
		AttachmentURLTTL:  attachmentURLTTL,
		UserService:       userService,
		CasefileService:   casefileService,
		SessionService:    sessionService,
		AttachmentService: attachmentService,
	}, nil
}

// SetupRoutesWithContainer configures all API routes using a service container
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterCasefileRoutes(api, container)
	RegisterSessionRoutes(api, container)
	if container.AttachmentService != nil {
		RegisterAttachmentRoutes(api, container)
	}
}
