package handlers

import (
	"net/http"

	"staffhub-backend/notification-service/services"
	"staffhub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
)

// HandleWebSocket handles WebSocket connection requests
// @Summary WebSocket Connection
// @Description Establish WebSocket connection for real-time entity change events
// @Tags websocket
// @Param user_id path string true "User ID"
// @Router /ws/notifications/{user_id} [get]
func HandleWebSocket(c *gin.Context) {
	wsManager := services.GetWebSocketManager()
	wsManager.HandleWebSocketConnection(c)
}

// BroadcastChange fans an entity change event out to all connected clients
// @Summary Broadcast Change Event
// @Description Broadcast an entity change event to all connected clients
// @Tags websocket
// @Accept json
// @Produce json
// @Param payload body notification.ChangeEvent true "Change event"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /ws/broadcast [post]
func BroadcastChange(c *gin.Context) {
	var event notification.ChangeEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	if event.Entity == "" || event.Action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity and action are required"})
		return
	}

	wsManager := services.GetWebSocketManager()
	wsManager.BroadcastToAll(&event)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Change event queued for broadcast",
		"entity":    event.Entity,
		"action":    event.Action,
		"receivers": wsManager.GetConnectionCount(),
	})
}

// SendWebSocketMessage sends an event to a single user
// @Summary Send WebSocket Message
// @Description Send real-time message to specific user via WebSocket
// @Tags websocket
// @Accept json
// @Produce json
// @Param payload body SendMessageRequest true "Message payload"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /ws/send [post]
func SendWebSocketMessage(c *gin.Context) {
	var request SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	wsManager := services.GetWebSocketManager()

	if err := wsManager.SendToUser(request.UserID, request.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "WebSocket message sent successfully",
		"user_id": request.UserID,
	})
}

// SendMessageRequest represents the request payload for sending WebSocket messages
type SendMessageRequest struct {
	UserID  string                    `json:"user_id" binding:"required"`
	Message *notification.ChangeEvent `json:"message" binding:"required"`
}
