package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret            string
	JWTExpireHours       string
	JWTRefreshExpireDays string

	// API Gateway URL
	APIGatewayURL string

	// Bootstrap Admin
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string

	// Administrator allow-list (comma separated emails). Accounts registered
	// with one of these addresses get the admin role at membership creation.
	AdminEmails string

	// Default organization created by the seeder
	DefaultOrgName string
	DefaultOrgSlug string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Email Configuration
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool

	// Rate Limiting
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string
	RateLimitCleanupMinutes       string
	RateLimitIdleEvictionHours    string

	// Login Rate Limiting
	LoginRateLimitMaxAttempts   string
	LoginRateLimitWindowSeconds string
	LoginRateLimitBlockMinutes  string

	// Register Rate Limiting
	RegisterRateLimitMaxAttempts string
	RegisterRateLimitWindowHours string
	RegisterRateLimitBlockHours  string

	// Frontend URL
	FrontendURL string

	// Service URLs (Dynamic based on environment)
	AuthServiceURL         string
	CoreServiceURL         string
	NotificationServiceURL string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Avatar upload limits
	AvatarMaxFileSize  string
	AvatarAllowedTypes string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "staffhub"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours:       getEnv("JWT_EXPIRE_HOURS", "3"),
		JWTRefreshExpireDays: getEnv("JWT_REFRESH_EXPIRE_DAYS", "1"),

		// API Gateway URL
		APIGatewayURL: getEnv("API_GATEWAY_URL", "http://localhost:8000"),

		// Bootstrap Admin
		BootstrapAdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@staffhub.local"),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),
		BootstrapAdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "System Administrator"),

		// Administrator allow-list. The defaults keep the entries the product
		// historically shipped with; override via env in any real deployment.
		AdminEmails: getEnv("ADMIN_EMAILS", "stephensouth1307@gmail.com,anhlong13@gmail.com"),

		// Default organization
		DefaultOrgName: getEnv("DEFAULT_ORG_NAME", "StaffHub"),
		DefaultOrgSlug: getEnv("DEFAULT_ORG_SLUG", "staffhub"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Email Configuration
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@staffhub.local"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "StaffHub"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvAsBool("SMTP_USE_TLS", false),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),
		RateLimitCleanupMinutes:       getEnv("RATE_LIMIT_CLEANUP_MINUTES", "5"),
		RateLimitIdleEvictionHours:    getEnv("RATE_LIMIT_IDLE_EVICTION_HOURS", "24"),

		// Login Rate Limiting
		LoginRateLimitMaxAttempts:   getEnv("LOGIN_RATE_LIMIT_MAX_ATTEMPTS", "5"),
		LoginRateLimitWindowSeconds: getEnv("LOGIN_RATE_LIMIT_WINDOW_SECONDS", "300"),
		LoginRateLimitBlockMinutes:  getEnv("LOGIN_RATE_LIMIT_BLOCK_MINUTES", "30"),

		// Register Rate Limiting
		RegisterRateLimitMaxAttempts: getEnv("REGISTER_RATE_LIMIT_MAX_ATTEMPTS", "3"),
		RegisterRateLimitWindowHours: getEnv("REGISTER_RATE_LIMIT_WINDOW_HOURS", "24"),
		RegisterRateLimitBlockHours:  getEnv("REGISTER_RATE_LIMIT_BLOCK_HOURS", "48"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Service URLs - Environment-based configuration
		AuthServiceURL:         getEnv("AUTH_SERVICE_URL", "http://localhost:8001"),
		CoreServiceURL:         getEnv("CORE_SERVICE_URL", "http://localhost:8002"),
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8003"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "staffhub-avatars"),

		// Avatar upload limits
		AvatarMaxFileSize:  getEnv("AVATAR_MAX_FILE_SIZE", "5MB"),
		AvatarAllowedTypes: getEnv("AVATAR_ALLOWED_TYPES", ".jpg,.jpeg,.png,.webp"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetField returns a configuration field by name
func (c *Config) GetField(key string) string {
	switch key {
	// Database
	case "DBHost":
		return c.DBHost
	case "DBPort":
		return c.DBPort
	case "DBUser":
		return c.DBUser
	case "DBPassword":
		return c.DBPassword
	case "DBName":
		return c.DBName
	case "DBSSLMode":
		return c.DBSSLMode

	// Services
	case "APIGatewayURL":
		return c.APIGatewayURL

	// JWT
	case "JWTSecret":
		return c.JWTSecret
	case "JWTExpireHours":
		return c.JWTExpireHours

	// Rate Limiting
	case "RateLimitMaxRequests":
		return c.RateLimitMaxRequests
	case "RateLimitTimeWindowSeconds":
		return c.RateLimitTimeWindowSeconds
	case "RateLimitBlockDurationMinutes":
		return c.RateLimitBlockDurationMinutes
	case "LoginRateLimitMaxAttempts":
		return c.LoginRateLimitMaxAttempts
	case "LoginRateLimitWindowSeconds":
		return c.LoginRateLimitWindowSeconds
	case "LoginRateLimitBlockMinutes":
		return c.LoginRateLimitBlockMinutes
	case "RegisterRateLimitMaxAttempts":
		return c.RegisterRateLimitMaxAttempts
	case "RegisterRateLimitWindowHours":
		return c.RegisterRateLimitWindowHours
	case "RegisterRateLimitBlockHours":
		return c.RegisterRateLimitBlockHours

	// Service URLs
	case "AuthServiceURL":
		return c.AuthServiceURL
	case "CoreServiceURL":
		return c.CoreServiceURL
	case "NotificationServiceURL":
		return c.NotificationServiceURL

	default:
		return ""
	}
}

// AdminEmailSet returns the administrator allow-list as a lowercase lookup set
func (c *Config) AdminEmailSet() map[string]bool {
	set := make(map[string]bool)
	for _, email := range strings.Split(c.AdminEmails, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = true
		}
	}
	return set
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	if value, err := strconv.Atoi(c.RateLimitMaxRequests); err == nil {
		return value
	}
	return 100
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	if value, err := strconv.Atoi(c.RateLimitTimeWindowSeconds); err == nil {
		return value
	}
	return 60
}

// GetRateLimitBlockDurationMinutes returns the rate limit block duration as integer
func (c *Config) GetRateLimitBlockDurationMinutes() int {
	if value, err := strconv.Atoi(c.RateLimitBlockDurationMinutes); err == nil {
		return value
	}
	return 15
}

// GetRateLimitCleanupMinutes returns the limiter's eviction sweep interval as integer
func (c *Config) GetRateLimitCleanupMinutes() int {
	if value, err := strconv.Atoi(c.RateLimitCleanupMinutes); err == nil {
		return value
	}
	return 5
}

// GetRateLimitIdleEvictionHours returns how long idle client records are kept as integer
func (c *Config) GetRateLimitIdleEvictionHours() int {
	if value, err := strconv.Atoi(c.RateLimitIdleEvictionHours); err == nil {
		return value
	}
	return 24
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
