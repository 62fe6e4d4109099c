package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	StoreBackend string // "mongo" or "memory"
	MongoURI     string
	DatabaseName string

	RedisURL string
	CacheTTL time.Duration

	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string

	B2ApplicationKeyID string
	B2ApplicationKey   string
	B2BucketName       string

	AttachmentURLTTL time.Duration

	LogLevel  string
	LogPretty bool

	AllowedOrigins []string
}

var AppConfig *Config

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		StoreBackend: getEnv("STORE_BACKEND", "mongo"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "casefilehub"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL: parseDuration(getEnv("CACHE_TTL", "1h")),

		JWTSecret:     getEnv("JWT_SECRET", "casefilehub-dev-secret"),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "24h")),
		JWTIssuer:     getEnv("JWT_ISSUER", "casefilehub"),

		B2ApplicationKeyID: getEnv("B2_APPLICATION_KEY_ID", ""),
		B2ApplicationKey:   getEnv("B2_APPLICATION_KEY", ""),
		B2BucketName:       getEnv("B2_BUCKET_NAME", ""),

		AttachmentURLTTL: parseDuration(getEnv("ATTACHMENT_URL_TTL", "1h")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnv("LOG_PRETTY", "false") == "true",

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig()
	validateConfig()
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Store backend: %s", AppConfig.StoreBackend)
	log.Printf("  Database: %s", AppConfig.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(AppConfig.MongoURI))
	log.Printf("  Redis URL: %s", maskConnectionString(AppConfig.RedisURL))
	log.Printf("  Cache TTL: %v", AppConfig.CacheTTL)
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  JWT Expiration: %v", AppConfig.JWTExpiration)
	log.Printf("  B2 Key ID: %s", maskSecret(AppConfig.B2ApplicationKeyID))
	log.Printf("  B2 Bucket: %s", AppConfig.B2BucketName)
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func validateConfig() {
	if AppConfig.StoreBackend != "mongo" && AppConfig.StoreBackend != "memory" {
		log.Fatalf("Invalid STORE_BACKEND %q: must be mongo or memory", AppConfig.StoreBackend)
	}

	if AppConfig.Env == "production" && AppConfig.JWTSecret == "casefilehub-dev-secret" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	if AppConfig.B2ApplicationKeyID == "" || AppConfig.B2ApplicationKey == "" || AppConfig.B2BucketName == "" {
		log.Println("B2 credentials not fully set; attachment endpoints will be disabled")
	}
}

// AttachmentsEnabled reports whether B2 is configured.
func (c *Config) AttachmentsEnabled() bool {
	return c.B2ApplicationKeyID != "" && c.B2ApplicationKey != "" && c.B2BucketName != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
