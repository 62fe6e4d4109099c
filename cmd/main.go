package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"casefilehub/cache"
	"casefilehub/config"
	"casefilehub/routes"
	"casefilehub/store"
	"casefilehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env before config so env vars are visible (do this BEFORE config.LoadConfig)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	config.LoadConfig()
	cfg := config.AppConfig

	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	// Initialize the document store
	var (
		docStore store.Store
		cleanup  func()
	)
	switch cfg.StoreBackend {
	case "memory":
		docStore = store.NewMemStore()
		cleanup = func() {}
		utils.LogWarning("Using in-memory store, data will not survive restarts")
	default:
		mongoStore, disconnect, err := connectMongo(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		docStore = mongoStore
		cleanup = disconnect
	}
	defer cleanup()

	// Initialize the cache layer. A failed Redis connection degrades to
	// cache-miss behavior rather than blocking startup.
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		if redisCache == nil {
			log.Fatalf("Invalid Redis URL: %v", err)
		}
		utils.LogWarning("Redis unreachable at startup, caching degraded: " + err.Error())
	}

	jwtConfig := routes.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Expiration: cfg.JWTExpiration,
	}

	b2Config := routes.B2Config{
		KeyID:          cfg.B2ApplicationKeyID,
		ApplicationKey: cfg.B2ApplicationKey,
		BucketName:     cfg.B2BucketName,
	}

	// Initialize services container
	serviceContainer, err := routes.NewServiceContainer(docStore, redisCache, cfg.CacheTTL, jwtConfig, cfg.AttachmentURLTTL, b2Config)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Set up Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(corsMiddleware(cfg.AllowedOrigins))

	// Set up API routes
	api := router.Group("/api")
	routes.SetupRoutesWithContainer(api, serviceContainer)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Start the server
	log.Printf("Starting CasefileHub server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func connectMongo(cfg *config.Config) (*store.MongoStore, func(), error) {
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, err
	}

	if err = mongoClient.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}
	log.Println("Connected to MongoDB successfully")

	disconnect := func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}

	return store.NewMongoStore(mongoClient.Database(cfg.DatabaseName)), disconnect, nil
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		var allowOrigin string
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, origin := range allowedOrigins {
				if origin == "*" || strings.EqualFold(origin, requestOrigin) {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
