package workflow

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
	utils "staffhub-backend/shared/utils/auth"
)

// Service implements the registration and approval lifecycle:
// an account is created PENDING, an admin or HR actor moves it to
// APPROVED (assigning a role) or REJECTED (recording a reason), and a
// rejected account may re-apply back to PENDING. Every operation returns
// either a result or a *Error with a code from the closed set in
// errors.go; nothing panics across this boundary.
type Service struct {
	store       Store
	adminEmails map[string]bool
	sessionTTL  time.Duration
}

// NewService constructs the workflow service. adminEmails is the
// lowercase administrator allow-list; registrations matching it get the
// admin role instead of staff.
func NewService(store Store, adminEmails map[string]bool, sessionTTL time.Duration) *Service {
	if adminEmails == nil {
		adminEmails = map[string]bool{}
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{
		store:       store,
		adminEmails: adminEmails,
		sessionTTL:  sessionTTL,
	}
}

// RegisterInput carries the four required registration fields.
type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	OrganizationID uuid.UUID
}

// RegisterResult describes the account created by Register.
type RegisterResult struct {
	UserID         uuid.UUID
	Email          string
	Name           string
	Role           string
	OrganizationID uuid.UUID
	Status         string
}

// Register creates identity, profile and membership for a new account.
// The profile starts PENDING. If the profile insert fails the identity
// is deleted again; if the membership insert fails the identity and
// profile are intentionally left in place and the failure is surfaced.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" ||
		strings.TrimSpace(in.Name) == "" || in.OrganizationID == uuid.Nil {
		return nil, newError(CodeMissingFields, "all fields are required")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	// Uniqueness is checked against profiles: an identity without a
	// profile cannot exist after a completed register call.
	existing, err := s.store.FindProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, wrapError(CodeUnknownError, "profile lookup failed", err)
	}
	if existing != nil {
		return nil, newError(CodeUserExists, "user with this email already exists")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, wrapError(CodeAuthCreateFailed, "failed to hash password", err)
	}

	identity := &auth.Identity{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hashed,
		EmailConfirmed: false,
	}
	if err := s.store.CreateIdentity(ctx, identity); err != nil {
		return nil, wrapError(CodeAuthCreateFailed, err.Error(), err)
	}

	profile := &models.Profile{
		ID:             identity.ID,
		Email:          email,
		FullName:       strings.TrimSpace(in.Name),
		Status:         models.StatusPending,
		OrganizationID: &in.OrganizationID,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		// Compensating delete: no orphaned identity without a profile.
		if delErr := s.store.DeleteIdentity(ctx, identity.ID); delErr != nil {
			log.Printf("⚠️ Failed to delete identity %s after profile create failure: %v", identity.ID, delErr)
		}
		return nil, wrapError(CodeProfileCreateFailed, "failed to create user profile", err)
	}

	role := models.RoleStaff
	if s.adminEmails[email] {
		role = models.RoleAdmin
	}

	membership := &models.Membership{
		UserID:         identity.ID,
		OrganizationID: in.OrganizationID,
		Role:           role,
		IsPrimary:      true,
	}
	if err := s.store.CreateMembership(ctx, membership); err != nil {
		// The identity and profile are not rolled back here; the
		// account exists without a membership and the caller is told.
		log.Printf("⚠️ Membership create failed for %s; identity and profile remain without membership", identity.ID)
		return nil, wrapError(CodeMembershipCreateFailed, "failed to create membership", err)
	}

	return &RegisterResult{
		UserID:         identity.ID,
		Email:          email,
		Name:           profile.FullName,
		Role:           role,
		OrganizationID: in.OrganizationID,
		Status:         profile.Status,
	}, nil
}

// LoginInput carries credentials plus request metadata for the session row.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// LoginResult is returned on successful authentication of an approved
// account.
type LoginResult struct {
	Profile        *models.Profile
	Role           string
	OrganizationID uuid.UUID
	Session        *auth.UserSession
}

// Login authenticates credentials and gates on approval status. A session
// row is created as soon as credentials are accepted; every failure after
// that point deactivates it again, so a failed login never leaves an
// active session behind.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, newError(CodeInvalidCredentials, "invalid email or password")
	}

	identity, err := s.store.FindIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeInvalidCredentials, "invalid email or password")
		}
		return nil, wrapError(CodeUnknownError, "identity lookup failed", err)
	}

	if !utils.CheckPasswordHash(in.Password, identity.PasswordHash) {
		return nil, newError(CodeInvalidCredentials, "invalid email or password")
	}

	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return nil, wrapError(CodeServerError, "failed to generate session id", err)
	}

	session := &auth.UserSession{
		UserID:    identity.ID,
		SessionID: sessionID,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		IsActive:  true,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, wrapError(CodeServerError, "failed to create session", err)
	}

	profile, err := s.store.GetProfile(ctx, identity.ID)
	if err != nil {
		s.signOut(ctx, sessionID)
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeProfileNotFound, "user profile not found")
		}
		return nil, wrapError(CodeUnknownError, "profile lookup failed", err)
	}

	if profile.Status != models.StatusApproved {
		s.signOut(ctx, sessionID)
		return nil, &Error{
			Code:    CodeAccountNotApproved,
			Message: "account is not approved yet",
			Status:  profile.Status,
		}
	}

	role := models.RoleStaff
	var orgID uuid.UUID
	membership, err := s.store.PrimaryMembership(ctx, identity.ID)
	if err == nil {
		role = membership.Role
		orgID = membership.OrganizationID
	} else if !errors.Is(err, ErrNotFound) {
		s.signOut(ctx, sessionID)
		return nil, wrapError(CodeUnknownError, "membership lookup failed", err)
	} else if profile.OrganizationID != nil {
		orgID = *profile.OrganizationID
	}

	return &LoginResult{
		Profile:        profile,
		Role:           role,
		OrganizationID: orgID,
		Session:        session,
	}, nil
}

func (s *Service) signOut(ctx context.Context, sessionID string) {
	if err := s.store.DeactivateSession(ctx, sessionID); err != nil {
		log.Printf("⚠️ Failed to deactivate session %s: %v", sessionID, err)
	}
}

// AttachSessionTokens stores the issued token hashes on the session row.
func (s *Service) AttachSessionTokens(ctx context.Context, sessionID, tokenHash, refreshToken string) error {
	return s.store.UpdateSessionTokens(ctx, sessionID, tokenHash, refreshToken)
}

// CurrentSession returns the active session with the given id, or nil.
func (s *Service) CurrentSession(ctx context.Context, sessionID string) (*auth.UserSession, error) {
	session, err := s.store.ActiveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// requireDecider checks that the actor holds a role allowed to decide
// approvals. There is no row-level security engine behind this store, so
// the check lives here instead of in the database.
func (s *Service) requireDecider(ctx context.Context, actorID uuid.UUID) error {
	membership, err := s.store.PrimaryMembership(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return newError(CodeForbidden, "only admin or hr may decide approvals")
		}
		return wrapError(CodeUnknownError, "membership lookup failed", err)
	}
	if membership.Role != models.RoleAdmin && membership.Role != models.RoleHR {
		return newError(CodeForbidden, "only admin or hr may decide approvals")
	}
	return nil
}

// Approve transitions the target account to APPROVED and assigns the
// chosen role. Status update and role upsert run in one transaction; the
// caller never observes an approved account without its role.
func (s *Service) Approve(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.Profile, error) {
	if !models.ValidRole(role) {
		return nil, newError(CodeMissingFields, "a valid role is required")
	}
	if err := s.requireDecider(ctx, actorID); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeProfileNotFound, "user profile not found")
		}
		return nil, wrapError(CodeUnknownError, "profile lookup failed", err)
	}

	orgID := uuid.Nil
	if profile.OrganizationID != nil {
		orgID = *profile.OrganizationID
	}
	if membership, mErr := s.store.PrimaryMembership(ctx, targetID); mErr == nil {
		orgID = membership.OrganizationID
	}
	if orgID == uuid.Nil {
		return nil, newError(CodeServerError, "target account has no organization")
	}

	now := time.Now().UTC()
	err = s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.MarkApproved(ctx, targetID, actorID, now); err != nil {
			return err
		}
		return tx.UpsertMembershipRole(ctx, targetID, orgID, role)
	})
	if err != nil {
		return nil, wrapError(CodeServerError, "failed to approve account", err)
	}

	return s.store.GetProfile(ctx, targetID)
}

// Reject transitions the target account to REJECTED with a free-text
// reason. The account may later re-apply.
func (s *Service) Reject(ctx context.Context, actorID, targetID uuid.UUID, reason string) (*models.Profile, error) {
	if err := s.requireDecider(ctx, actorID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetProfile(ctx, targetID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeProfileNotFound, "user profile not found")
		}
		return nil, wrapError(CodeUnknownError, "profile lookup failed", err)
	}

	if strings.TrimSpace(reason) == "" {
		reason = "Unspecified"
	}

	if err := s.store.MarkRejected(ctx, targetID, actorID, reason, time.Now().UTC()); err != nil {
		return nil, wrapError(CodeServerError, "failed to reject account", err)
	}

	return s.store.GetProfile(ctx, targetID)
}

// Reapply resets a REJECTED account to PENDING and clears the rejection
// reason. On a PENDING or APPROVED account it is a no-op returning the
// unchanged profile.
func (s *Service) Reapply(ctx context.Context, accountID uuid.UUID) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeProfileNotFound, "user profile not found")
		}
		return nil, wrapError(CodeUnknownError, "profile lookup failed", err)
	}

	if profile.Status != models.StatusRejected {
		return profile, nil
	}

	if err := s.store.MarkPending(ctx, accountID, time.Now().UTC()); err != nil {
		return nil, wrapError(CodeServerError, "failed to reset account to pending", err)
	}

	return s.store.GetProfile(ctx, accountID)
}

// ReapplyWithCredentials verifies the account's email and password and
// then runs Reapply. Unlike Login it does not gate on approval status:
// a rejected account cannot sign in, and this operation exists for
// exactly that account.
func (s *Service) ReapplyWithCredentials(ctx context.Context, email, password string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, newError(CodeInvalidCredentials, "invalid email or password")
	}

	identity, err := s.store.FindIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeInvalidCredentials, "invalid email or password")
		}
		return nil, wrapError(CodeUnknownError, "identity lookup failed", err)
	}

	if !utils.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, newError(CodeInvalidCredentials, "invalid email or password")
	}

	return s.Reapply(ctx, identity.ID)
}
