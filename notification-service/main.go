package main

import (
	"log"
	"net/http"
	"strings"

	notificationConfig "staffhub-backend/notification-service/config"
	"staffhub-backend/notification-service/handlers"
	"staffhub-backend/notification-service/services"
	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database"

	"github.com/gin-gonic/gin"
)

// @title Notification Service API
// @version 1.0
// @description Real-time entity change feeds & decision emails
// @host localhost:8003
// @BasePath /api

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	router := gin.Default()

	// Initialize email service
	emailService := services.NewEmailService(config.GetConfig())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "notification-service",
			"status":  "healthy",
		})
	})

	// Email routes
	notifConfig := notificationConfig.LoadNotificationConfig()
	if notifConfig.EmailConfig.EnableEmailNotification {
		emailHandler := handlers.NewEmailHandler(emailService, config.GetConfig())
		emailRoutes := router.Group("/api/notifications/email")
		{
			emailRoutes.POST("/send", emailHandler.SendEmail)
			emailRoutes.POST("/welcome", emailHandler.SendWelcomeEmail)
			emailRoutes.POST("/account-approved", emailHandler.SendAccountApprovedEmail)
			emailRoutes.POST("/account-rejected", emailHandler.SendAccountRejectedEmail)
		}
	} else {
		log.Println("📧 Email notifications disabled, skipping email routes")
	}

	// Notification routes
	router.GET("/api/notifications", handlers.GetNotifications)
	router.GET("/api/notifications/:id", handlers.GetNotification)
	router.POST("/api/notifications", handlers.CreateNotification)
	router.PUT("/api/notifications/:id/read", handlers.MarkAsRead)
	router.DELETE("/api/notifications/:id", handlers.DeleteNotification)

	// WebSocket endpoints
	router.GET("/ws/notifications/:user_id", handlers.HandleWebSocket)
	router.POST("/ws/broadcast", handlers.BroadcastChange)
	router.POST("/ws/send", handlers.SendWebSocketMessage)

	port := strings.Split(config.GetConfig().NotificationServiceURL, ":")[2]
	log.Printf("🔔 Notification Service starting on port %s...", port)
	log.Fatal(router.Run(":" + port))
}
