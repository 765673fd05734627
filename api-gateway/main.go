package main

import (
	"log"
	"net/http"
	"strings"

	"staffhub-backend/api-gateway/middleware"
	"staffhub-backend/api-gateway/routes"
	"staffhub-backend/shared/config"

	_ "staffhub-backend/docs/swagger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title StaffHub API
// @version 1.0
// @description Complete API documentation for the StaffHub office management platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@staffhub.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name auth
// @tag.description Authentication and account approval lifecycle

// @tag.name approvals
// @tag.description Registration approval queue operations

// @tag.name users
// @tag.description User profile management

// @tag.name organizations
// @tag.description Organization management

// @tag.name teams
// @tag.description Team management

// @tag.name shifts
// @tag.description Working shift management

// @tag.name attendance
// @tag.description Attendance tracking and export

// @tag.name leave
// @tag.description Leave request lifecycle

// @tag.name rooms
// @tag.description Meeting room and booking management

// @tag.name salaries
// @tag.description Payroll records and export

// @tag.name notifications
// @tag.description Stored notifications and realtime feed

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Global rate limiter, configured from environment variables
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimitConfig())

	router := gin.Default()

	// CORS for the frontend origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Global rate limiter middleware
	router.Use(rateLimiter.GlobalRateLimitMiddleware())

	// Unified response middleware (transforms all service responses)
	router.Use(middleware.UnifiedResponseMiddleware())

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running"})
	})

	// Auth routes
	// Note: Auth Service has its own internal rate limiting
	router.Any("/api/auth/*path",
		routes.ProxyToService("auth"))

	// Approval routes
	router.Any("/api/approvals",
		routes.ProxyToService("core"))
	router.Any("/api/approvals/*path",
		routes.ProxyToService("core"))

	// User routes
	router.Any("/api/profile",
		routes.ProxyToService("core"))
	router.Any("/api/users",
		routes.ProxyToService("core"))
	router.Any("/api/users/*path",
		routes.ProxyToService("core"))

	// Organization routes
	router.Any("/api/organizations",
		routes.ProxyToService("core"))
	router.Any("/api/organizations/*path",
		routes.ProxyToService("core"))

	// Team routes
	router.Any("/api/teams",
		routes.ProxyToService("core"))
	router.Any("/api/teams/*path",
		routes.ProxyToService("core"))

	// Shift routes
	router.Any("/api/shifts",
		routes.ProxyToService("core"))
	router.Any("/api/shifts/*path",
		routes.ProxyToService("core"))

	// Attendance routes
	router.Any("/api/attendance",
		routes.ProxyToService("core"))
	router.Any("/api/attendance/*path",
		routes.ProxyToService("core"))

	// Leave routes
	router.Any("/api/leave-requests",
		routes.ProxyToService("core"))
	router.Any("/api/leave-requests/*path",
		routes.ProxyToService("core"))

	// Meeting room and booking routes
	router.Any("/api/rooms",
		routes.ProxyToService("core"))
	router.Any("/api/rooms/*path",
		routes.ProxyToService("core"))
	router.Any("/api/bookings",
		routes.ProxyToService("core"))
	router.Any("/api/bookings/*path",
		routes.ProxyToService("core"))

	// Salary routes
	router.Any("/api/salaries",
		routes.ProxyToService("core"))
	router.Any("/api/salaries/*path",
		routes.ProxyToService("core"))

	// Notification routes
	router.Any("/api/notifications",
		routes.ProxyToService("notification"))
	router.Any("/api/notifications/*path",
		routes.ProxyToService("notification"))

	// WebSocket change feed
	router.GET("/ws/notifications/:user_id",
		routes.ProxyToService("notification"))

	// Swagger documentation UI, development only
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server Start
	port := strings.Split(config.GetConfig().APIGatewayURL, ":")[2]
	log.Printf("API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
