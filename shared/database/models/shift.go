package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a named working window, e.g. "Morning 08:00-16:00"
type Shift struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string     `json:"name" gorm:"size:100;not null"`
	StartTime      string     `json:"start_time" gorm:"size:5;not null"` // HH:MM
	EndTime        string     `json:"end_time" gorm:"size:5;not null"`   // HH:MM
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
