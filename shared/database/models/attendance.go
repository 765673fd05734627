package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance record types
const (
	AttendanceCheckIn  = "check_in"
	AttendanceCheckOut = "check_out"
)

// AttendanceRecord is a single check-in or check-out event. Worked hours are
// derived by pairing the first check_in with the last check_out of a day.
type AttendanceRecord struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Type       string    `json:"type" gorm:"size:20;not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null;index"`
	Note       string    `json:"note" gorm:"size:500"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
