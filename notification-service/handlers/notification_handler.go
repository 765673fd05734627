package handlers

import (
	"net/http"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models/notification"
	"staffhub-backend/shared/utils/query"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Get all notifications
// @Description Get stored notifications, optionally filtered by user
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications [get]
func GetNotifications(c *gin.Context) {
	params := query.ParseQueryParams(c)

	db := database.GetDB()
	dbQuery := db.Model(&notification.Notification{})

	if userID := c.Query("user_id"); userID != "" {
		if id, err := uuid.Parse(userID); err == nil {
			dbQuery = dbQuery.Where("user_id = ?", id)
		}
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	var notifications []notification.Notification
	dbQuery = query.ApplySort(dbQuery, params.Sort, map[string]string{"created_at": "created_at"})
	dbQuery = query.ApplyPagination(dbQuery, params.Page, params.Limit)
	if err := dbQuery.Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       notifications,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// @Summary Get notification by ID
// @Description Get a specific notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id} [get]
func GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()
	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Create notification
// @Description Create a new stored notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body notification.Notification true "Notification data"
// @Success 201 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications [post]
func CreateNotification(c *gin.Context) {
	var notif notification.Notification

	if err := c.ShouldBindJSON(&notif); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	if err := db.Create(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, notif)
}

// @Summary Mark notification as read
// @Description Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} notification.Notification
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/{id}/read [put]
func MarkAsRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notif notification.Notification
	db := database.GetDB()

	if err := db.First(&notif, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	notif.IsRead = true
	now := notification.GetCurrentTime()
	notif.ReadAt = &now
	if err := db.Save(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, notif)
}

// @Summary Delete notification
// @Description Delete a notification by ID
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	db := database.GetDB()
	if err := db.Delete(&notification.Notification{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
