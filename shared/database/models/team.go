package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string     `json:"name" gorm:"size:200;not null"`
	Description    string     `json:"description" gorm:"type:text"`
	LeaderID       *uuid.UUID `json:"leader_id" gorm:"type:uuid"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
