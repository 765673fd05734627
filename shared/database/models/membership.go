package models

import (
	"time"

	"github.com/google/uuid"
)

// Role keys assignable through a membership
const (
	RoleAdmin  = "admin"
	RoleHR     = "hr"
	RoleLeader = "leader"
	RoleStaff  = "staff"
)

// ValidRole reports whether role is one of the assignable role keys
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleHR, RoleLeader, RoleStaff:
		return true
	}
	return false
}

// Membership grants a profile a role within an organization. An account has
// at most one primary membership; the primary membership's role decides
// dashboard visibility and admin-panel access.
type Membership struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_memberships_user_org,unique"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index:idx_memberships_user_org,unique"`
	Role           string    `json:"role" gorm:"size:50;not null;default:'staff'"`
	IsPrimary      bool      `json:"is_primary" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization Organization `json:"organization" gorm:"foreignKey:OrganizationID"`
}
