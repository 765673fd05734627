package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
)

// Store is the persistence boundary of the workflow. Lookups return
// ErrNotFound when no row matches. The interface exists so the state
// machine can be exercised without a database; the production
// implementation is GormStore.
type Store interface {
	// Identities
	FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error)
	CreateIdentity(ctx context.Context, identity *auth.Identity) error
	// DeleteIdentity is the compensating action when profile creation
	// fails after the identity insert succeeded.
	DeleteIdentity(ctx context.Context, id uuid.UUID) error

	// Profiles
	FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	MarkApproved(ctx context.Context, targetID, actorID uuid.UUID, at time.Time) error
	MarkRejected(ctx context.Context, targetID, actorID uuid.UUID, reason string, at time.Time) error
	MarkPending(ctx context.Context, targetID uuid.UUID, at time.Time) error

	// Memberships
	CreateMembership(ctx context.Context, membership *models.Membership) error
	PrimaryMembership(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
	UpsertMembershipRole(ctx context.Context, userID, orgID uuid.UUID, role string) error

	// Sessions
	CreateSession(ctx context.Context, session *auth.UserSession) error
	DeactivateSession(ctx context.Context, sessionID string) error
	ActiveSession(ctx context.Context, sessionID string) (*auth.UserSession, error)
	UpdateSessionTokens(ctx context.Context, sessionID, tokenHash, refreshToken string) error

	// WithinTx runs fn atomically. Implementations without transaction
	// support may run fn directly.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
