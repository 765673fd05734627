package models

import (
	"time"

	"github.com/google/uuid"
)

// Room participant states
const (
	ParticipantInvited  = "invited"
	ParticipantJoined   = "joined"
	ParticipantDeclined = "declined"
)

type MeetingRoom struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string     `json:"name" gorm:"size:200;not null"`
	Location       string     `json:"location" gorm:"size:200"`
	Capacity       int        `json:"capacity" gorm:"default:4"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type RoomBooking struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomID         uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"` // organizer
	Title          string    `json:"title" gorm:"size:200;not null"`
	StartTime      time.Time `json:"start_time" gorm:"not null;index"`
	EndTime        time.Time `json:"end_time" gorm:"not null"`
	GoogleMeetLink string    `json:"google_meet_link"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Room MeetingRoom `json:"room" gorm:"foreignKey:RoomID"`
}

type RoomParticipant struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingID   uuid.UUID  `json:"booking_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null"`
	IsOrganizer bool       `json:"is_organizer" gorm:"default:false"`
	Status      string     `json:"status" gorm:"size:20;default:'invited'"`
	JoinedAt    *time.Time `json:"joined_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User Profile `json:"user" gorm:"foreignKey:UserID"`
}
