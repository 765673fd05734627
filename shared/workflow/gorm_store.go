package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
)

// GormStore is the production Store backed by the shared gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	var identity auth.Identity
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&identity).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &identity, nil
}

func (s *GormStore) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	return s.db.WithContext(ctx).Create(identity).Error
}

func (s *GormStore) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&auth.Identity{}, "id = ?", id).Error
}

func (s *GormStore) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &profile, nil
}

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("Memberships").Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &profile, nil
}

func (s *GormStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *GormStore) MarkApproved(ctx context.Context, targetID, actorID uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", targetID).
		Updates(map[string]interface{}{
			"status":      models.StatusApproved,
			"approved_at": at,
			"approved_by": actorID,
		}).Error
}

func (s *GormStore) MarkRejected(ctx context.Context, targetID, actorID uuid.UUID, reason string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", targetID).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejected_at":      at,
			"rejected_by":      actorID,
			"rejection_reason": reason,
		}).Error
}

func (s *GormStore) MarkPending(ctx context.Context, targetID uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", targetID).
		Updates(map[string]interface{}{
			"status":                models.StatusPending,
			"rejection_reason":      "",
			"last_approval_request": at,
		}).Error
}

func (s *GormStore) CreateMembership(ctx context.Context, membership *models.Membership) error {
	return s.db.WithContext(ctx).Create(membership).Error
}

func (s *GormStore) PrimaryMembership(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_primary = ?", userID, true).
		First(&membership).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &membership, nil
}

func (s *GormStore) UpsertMembershipRole(ctx context.Context, userID, orgID uuid.UUID, role string) error {
	membership := models.Membership{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		IsPrimary:      true,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "organization_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "is_primary", "updated_at"}),
	}).Create(&membership).Error
}

func (s *GormStore) CreateSession(ctx context.Context, session *auth.UserSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *GormStore) DeactivateSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Model(&auth.UserSession{}).
		Where("session_id = ?", sessionID).
		Update("is_active", false).Error
}

func (s *GormStore) ActiveSession(ctx context.Context, sessionID string) (*auth.UserSession, error) {
	var session auth.UserSession
	if err := s.db.WithContext(ctx).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		First(&session).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &session, nil
}

func (s *GormStore) UpdateSessionTokens(ctx context.Context, sessionID, tokenHash, refreshToken string) error {
	return s.db.WithContext(ctx).Model(&auth.UserSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"token_hash":    tokenHash,
			"refresh_token": refreshToken,
		}).Error
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
