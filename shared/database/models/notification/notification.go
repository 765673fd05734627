package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLevel represents the severity level of a notification
type NotificationLevel string

const (
	NotificationLevelSuccess NotificationLevel = "success"
	NotificationLevelError   NotificationLevel = "error"
	NotificationLevelWarning NotificationLevel = "warning"
	NotificationLevelInfo    NotificationLevel = "info"
)

// Entity names used as realtime feed topics. Panels subscribed to an
// entity re-fetch their whole collection on any event for it.
const (
	EntityLeaveRequests = "leave_requests"
	EntityRoomBookings  = "room_bookings"
	EntityAttendance    = "attendance_records"
	EntityProfiles      = "profiles"
	EntityApprovals     = "approvals"
)

// Notification represents a stored notification row
type Notification struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    *uuid.UUID        `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Type      string            `json:"type" gorm:"type:varchar(50);not null"`
	Level     NotificationLevel `json:"level" gorm:"type:varchar(20);not null;default:'info'"`
	Title     string            `json:"title" gorm:"type:varchar(200);not null"`
	Message   string            `json:"message" gorm:"type:text;not null"`
	Action    string            `json:"action,omitempty" gorm:"type:varchar(100)"`
	EntityID  *uuid.UUID        `json:"entity_id,omitempty" gorm:"type:uuid"`
	Entity    string            `json:"entity,omitempty" gorm:"type:varchar(100)"`
	IsRead    bool              `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// ChangeEvent is the wire shape broadcast over WebSocket when a backing
// collection changes. Delivery is fire-and-forget and at-least-once;
// consumers fully re-fetch, so duplicates are harmless.
type ChangeEvent struct {
	Type      string            `json:"type"` // always "change" for entity feeds
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title,omitempty"`
	Message   string            `json:"message,omitempty"`
	Entity    string            `json:"entity"`
	Action    string            `json:"action"` // INSERT, UPDATE, DELETE
	EntityID  *uuid.UUID        `json:"entity_id,omitempty"`
	UserID    *uuid.UUID        `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// GetCurrentTime returns current time for WebSocket messages
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
