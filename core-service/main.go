package main

import (
	"log"
	"net/http"
	"strings"

	"staffhub-backend/core-service/handlers"
	"staffhub-backend/core-service/middleware"
	"staffhub-backend/core-service/services"
	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/utils/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Role cache keeps approval decisions effective before token expiry
	if err := cache.InitCacheManager(); err != nil {
		log.Fatalf("Failed to initialize cache manager: %v", err)
	}
	defer cache.GetCacheManager().Close()

	avatarService, err := services.NewAvatarService()
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	approvalHandler := handlers.NewApprovalHandler(database.GetDB())
	avatarHandler := handlers.NewAvatarHandler(avatarService)

	router := gin.Default()

	authenticated := router.Group("/api", middleware.AuthMiddleware())
	managers := authenticated.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleHR))
	reviewers := authenticated.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleHR, models.RoleLeader))

	// Approval routes
	managers.GET("/approvals", approvalHandler.GetApprovals)
	managers.GET("/approvals/counts", approvalHandler.GetApprovalCounts)
	managers.POST("/approvals/:id/approve", approvalHandler.Approve)
	managers.POST("/approvals/:id/reject", approvalHandler.Reject)

	// User routes
	authenticated.GET("/users", handlers.GetUsers)
	authenticated.GET("/users/:id", handlers.GetUser)
	authenticated.PUT("/profile", handlers.UpdateMyProfile)
	managers.PUT("/users/:id", handlers.UpdateUser)
	managers.PUT("/users/:id/role", handlers.UpdateUserRole)
	managers.DELETE("/users/:id", handlers.DeleteUser)
	authenticated.GET("/users/:id/avatar", avatarHandler.GetAvatar)
	authenticated.POST("/users/:id/avatar", avatarHandler.UploadAvatar)
	authenticated.DELETE("/users/:id/avatar", avatarHandler.DeleteAvatar)

	// Organization routes
	authenticated.GET("/organizations", handlers.GetOrganizations)
	authenticated.GET("/organizations/:id", handlers.GetOrganization)
	managers.POST("/organizations", handlers.CreateOrganization)
	managers.PUT("/organizations/:id", handlers.UpdateOrganization)
	managers.DELETE("/organizations/:id", handlers.DeleteOrganization)

	// Team routes
	authenticated.GET("/teams", handlers.GetTeams)
	authenticated.GET("/teams/:id", handlers.GetTeam)
	managers.POST("/teams", handlers.CreateTeam)
	managers.PUT("/teams/:id", handlers.UpdateTeam)
	managers.DELETE("/teams/:id", handlers.DeleteTeam)

	// Shift routes
	authenticated.GET("/shifts", handlers.GetShifts)
	managers.POST("/shifts", handlers.CreateShift)
	managers.PUT("/shifts/:id", handlers.UpdateShift)
	managers.DELETE("/shifts/:id", handlers.DeleteShift)

	// Attendance routes
	authenticated.POST("/attendance/check-in", handlers.CheckIn)
	authenticated.POST("/attendance/check-out", handlers.CheckOut)
	authenticated.GET("/attendance", handlers.GetAttendanceRecords)
	managers.GET("/attendance/export", handlers.ExportAttendance)

	// Leave routes
	authenticated.POST("/leave-requests", handlers.CreateLeaveRequest)
	authenticated.GET("/leave-requests", handlers.GetLeaveRequests)
	reviewers.POST("/leave-requests/:id/approve", handlers.ApproveLeaveRequest)
	reviewers.POST("/leave-requests/:id/reject", handlers.RejectLeaveRequest)

	// Meeting room routes
	authenticated.GET("/rooms", handlers.GetRooms)
	managers.POST("/rooms", handlers.CreateRoom)
	managers.PUT("/rooms/:id", handlers.UpdateRoom)
	managers.DELETE("/rooms/:id", handlers.DeleteRoom)

	// Booking routes
	authenticated.GET("/bookings", handlers.GetBookings)
	authenticated.POST("/bookings", handlers.CreateBooking)
	authenticated.PUT("/bookings/:id", handlers.UpdateBooking)
	authenticated.GET("/bookings/:id/participants", handlers.GetBookingParticipants)
	authenticated.POST("/bookings/:id/participants", handlers.InviteParticipant)
	authenticated.DELETE("/bookings/:id/participants/:user_id", handlers.RemoveParticipant)
	authenticated.POST("/bookings/:id/respond", handlers.RespondToInvite)
	authenticated.DELETE("/bookings/:id", handlers.DeleteBooking)

	// Salary routes
	managers.GET("/salaries", handlers.GetSalaries)
	managers.POST("/salaries", handlers.CreateSalary)
	managers.PUT("/salaries/:id", handlers.UpdateSalary)
	managers.DELETE("/salaries/:id", handlers.DeleteSalary)
	managers.GET("/salaries/export", handlers.ExportSalaries)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "core",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().CoreServiceURL, ":")[2]
	log.Printf("Core Service starting on port %s...", port)
	router.Run(":" + port)
}
