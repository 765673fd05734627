package handlers

import (
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/clients"
	"staffhub-backend/shared/database/models"
)

var (
	notifierOnce   sync.Once
	sharedNotifier *clients.NotificationClient
)

// notifier returns the shared notification client used by the
// package-level CRUD handlers to publish entity change events.
func notifier() *clients.NotificationClient {
	notifierOnce.Do(func() {
		sharedNotifier = clients.NewNotificationClient()
	})
	return sharedNotifier
}

// applyVisibilityScope narrows a list query by role: staff see their own
// rows, leaders see their team's rows, admin and hr see everything.
func applyVisibilityScope(db, baseQuery *gorm.DB, role string, userID uuid.UUID, column string) *gorm.DB {
	switch role {
	case models.RoleAdmin, models.RoleHR:
		return baseQuery
	case models.RoleLeader:
		var profile models.Profile
		if err := db.Select("team_id").Where("id = ?", userID).First(&profile).Error; err == nil && profile.TeamID != nil {
			teamMembers := db.Model(&models.Profile{}).Select("id").Where("team_id = ?", profile.TeamID)
			return baseQuery.Where(column+" IN (?)", teamMembers)
		}
		return baseQuery.Where(column+" = ?", userID)
	default:
		return baseQuery.Where(column+" = ?", userID)
	}
}
