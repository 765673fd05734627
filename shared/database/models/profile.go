package models

import (
	"time"

	"github.com/google/uuid"
)

// Approval status values for Profile.Status
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Profile is the application-level record for a user beyond the bare
// authentication identity. It shares its primary key with auth.Identity.
type Profile struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email              string     `json:"email" gorm:"uniqueIndex;not null"`
	FullName           string     `json:"full_name" gorm:"size:200;not null"`
	Phone              string     `json:"phone" gorm:"size:20"`
	AvatarURL          string     `json:"avatar_url"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	AnnualLeaveBalance int        `json:"annual_leave_balance" gorm:"default:12"`
	Status             string     `json:"status" gorm:"size:20;default:'PENDING';index"`
	OrganizationID     *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	TeamID             *uuid.UUID `json:"team_id" gorm:"type:uuid"`
	ShiftID            *uuid.UUID `json:"shift_id" gorm:"type:uuid"`

	// Approval decision metadata
	ApprovedAt          *time.Time `json:"approved_at"`
	ApprovedBy          *uuid.UUID `json:"approved_by" gorm:"type:uuid"`
	RejectedAt          *time.Time `json:"rejected_at"`
	RejectedBy          *uuid.UUID `json:"rejected_by" gorm:"type:uuid"`
	RejectionReason     string     `json:"rejection_reason" gorm:"type:text"`
	LastApprovalRequest *time.Time `json:"last_approval_request"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Team         *Team         `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Shift        *Shift        `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
	Memberships  []Membership  `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}
