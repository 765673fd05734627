package models

import (
	"time"

	"github.com/google/uuid"
)

// Leave request review states
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	LeaveType  string     `json:"leave_type" gorm:"size:50;not null"` // annual, sick, unpaid, other
	StartDate  time.Time  `json:"start_date" gorm:"not null"`
	EndDate    time.Time  `json:"end_date" gorm:"not null"`
	Reason     string     `json:"reason" gorm:"type:text"`
	Status     string     `json:"status" gorm:"size:20;default:'pending';index"`
	ReviewedBy *uuid.UUID `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Relations
	User Profile `json:"user" gorm:"foreignKey:UserID"`
}
