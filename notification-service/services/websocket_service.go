package services

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database/models/notification"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketManager handles all WebSocket connections. Entity change
// events fan out to every connected client; panels decide locally which
// entities they care about and re-fetch on a match.
type WebSocketManager struct {
	clients    map[string]*websocket.Conn // userID -> connection
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	register   chan *ClientConnection
	unregister chan *ClientConnection
	broadcast  chan *notification.ChangeEvent
}

// ClientConnection represents a client WebSocket connection
type ClientConnection struct {
	UserID     string
	Connection *websocket.Conn
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					origin := r.Header.Get("Origin")

					allowedOrigins := []string{
						config.GetConfig().FrontendURL,
					}

					for _, allowed := range allowedOrigins {
						if origin == allowed {
							return true
						}
					}

					log.Printf("🚫 WebSocket connection rejected from origin: %s", origin)
					return false
				},
			},
			register:   make(chan *ClientConnection, 100),
			unregister: make(chan *ClientConnection, 100),
			broadcast:  make(chan *notification.ChangeEvent, 1000),
		}
		go wsManager.run()
	})
	return wsManager
}

// run handles WebSocket manager event loop
func (wsm *WebSocketManager) run() {
	for {
		select {
		case client := <-wsm.register:
			wsm.registerClient(client)

		case client := <-wsm.unregister:
			wsm.unregisterClient(client)

		case event := <-wsm.broadcast:
			wsm.broadcastEvent(event)
		}
	}
}

// registerClient adds a new client connection
func (wsm *WebSocketManager) registerClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	// Close existing connection if any
	if existingConn, exists := wsm.clients[client.UserID]; exists {
		existingConn.Close()
	}

	wsm.clients[client.UserID] = client.Connection
	log.Printf("🔌 WebSocket client connected: %s (Total: %d)", client.UserID, len(wsm.clients))

	welcome := &notification.ChangeEvent{
		Type:      "connection",
		Level:     notification.NotificationLevelInfo,
		Title:     "🔌 Connected",
		Message:   "WebSocket connection established",
		Timestamp: notification.GetCurrentTime(),
		UserID:    parseUUID(client.UserID),
	}
	wsm.sendToClient(client.UserID, welcome)
}

// unregisterClient removes a client connection
func (wsm *WebSocketManager) unregisterClient(client *ClientConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if _, exists := wsm.clients[client.UserID]; exists {
		delete(wsm.clients, client.UserID)
		client.Connection.Close()
		log.Printf("🔌 WebSocket client disconnected: %s (Total: %d)", client.UserID, len(wsm.clients))
	}
}

// broadcastEvent sends an entity change event to all connected clients
func (wsm *WebSocketManager) broadcastEvent(event *notification.ChangeEvent) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	successCount := 0
	failCount := 0

	for userID, conn := range wsm.clients {
		err := conn.WriteJSON(event)
		if err != nil {
			log.Printf("❌ Failed to send event to user %s: %v", userID, err)
			go func(uid string, connection *websocket.Conn) {
				wsm.unregister <- &ClientConnection{UserID: uid, Connection: connection}
			}(userID, conn)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("📡 Change broadcast: %s/%s - %d success, %d failed",
		event.Entity, event.Action, successCount, failCount)
}

// SendToUser sends an event to a specific user
func (wsm *WebSocketManager) SendToUser(userID string, event *notification.ChangeEvent) error {
	wsm.mutex.RLock()
	_, exists := wsm.clients[userID]
	wsm.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	return wsm.sendToClient(userID, event)
}

// sendToClient sends an event to a specific client connection
func (wsm *WebSocketManager) sendToClient(userID string, event *notification.ChangeEvent) error {
	wsm.mutex.RLock()
	conn, exists := wsm.clients[userID]
	wsm.mutex.RUnlock()

	if !exists {
		return fmt.Errorf("user %s not connected", userID)
	}

	err := conn.WriteJSON(event)
	if err != nil {
		log.Printf("❌ Failed to send event to user %s: %v", userID, err)
		go func() {
			wsm.unregister <- &ClientConnection{UserID: userID, Connection: conn}
		}()
		return err
	}

	return nil
}

// BroadcastToAll queues an event for delivery to all connected clients.
// Delivery is fire-and-forget: a full queue drops the event rather than
// blocking the caller, since consumers re-fetch on the next event anyway.
func (wsm *WebSocketManager) BroadcastToAll(event *notification.ChangeEvent) {
	select {
	case wsm.broadcast <- event:
	default:
		log.Printf("⚠️ Broadcast queue full, dropping event for %s", event.Entity)
	}
}

// HandleWebSocketConnection upgrades HTTP connection to WebSocket
func (wsm *WebSocketManager) HandleWebSocketConnection(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID required"})
		return
	}

	conn, err := wsm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Failed to upgrade WebSocket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &ClientConnection{
		UserID:     userID,
		Connection: conn,
	}

	wsm.register <- client

	defer func() {
		wsm.unregister <- client
	}()

	// Keep connection alive and handle incoming messages
	for {
		var message map[string]interface{}
		err := conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ WebSocket error for user %s: %v", userID, err)
			}
			break
		}

		if msgType, ok := message["type"].(string); ok {
			switch msgType {
			case "ping":
				pong := &notification.ChangeEvent{
					Type:      "pong",
					Level:     notification.NotificationLevelInfo,
					Message:   "pong",
					Timestamp: notification.GetCurrentTime(),
					UserID:    parseUUID(userID),
				}
				wsm.sendToClient(userID, pong)
			}
		}
	}
}

// GetConnectedUsers returns list of connected user IDs
func (wsm *WebSocketManager) GetConnectedUsers() []string {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	users := make([]string, 0, len(wsm.clients))
	for userID := range wsm.clients {
		users = append(users, userID)
	}
	return users
}

// GetConnectionCount returns number of active connections
func (wsm *WebSocketManager) GetConnectionCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

// parseUUID safely parses UUID string
func parseUUID(str string) *uuid.UUID {
	if id, err := uuid.Parse(str); err == nil {
		return &id
	}
	return nil
}
