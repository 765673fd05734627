package auth

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the bare authentication record: credentials only. The
// application profile lives in models.Profile and shares the same ID.
// Registration creates the identity first and deletes it again if the
// profile insert fails, so an identity without a profile never survives
// a completed register call.
type Identity struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	EmailConfirmed bool      `json:"email_confirmed" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
