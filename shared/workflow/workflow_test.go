package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
	utils "staffhub-backend/shared/utils/auth"
)

// fakeStore keeps everything in maps so the state machine can be driven
// without a database. fail* hooks inject errors at specific steps.
type fakeStore struct {
	identities  map[uuid.UUID]*auth.Identity
	profiles    map[uuid.UUID]*models.Profile
	memberships map[uuid.UUID]*models.Membership
	sessions    map[string]*auth.UserSession

	failProfileCreate    error
	failMembershipCreate error
	failIdentityDelete   error
	failMarkApproved     error
	failUpsertRole       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		identities:  map[uuid.UUID]*auth.Identity{},
		profiles:    map[uuid.UUID]*models.Profile{},
		memberships: map[uuid.UUID]*models.Membership{},
		sessions:    map[string]*auth.UserSession{},
	}
}

func (f *fakeStore) FindIdentityByEmail(_ context.Context, email string) (*auth.Identity, error) {
	for _, identity := range f.identities {
		if identity.Email == email {
			return identity, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) CreateIdentity(_ context.Context, identity *auth.Identity) error {
	f.identities[identity.ID] = identity
	return nil
}

func (f *fakeStore) DeleteIdentity(_ context.Context, id uuid.UUID) error {
	if f.failIdentityDelete != nil {
		return f.failIdentityDelete
	}
	delete(f.identities, id)
	return nil
}

func (f *fakeStore) FindProfileByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) GetProfile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, profile *models.Profile) error {
	if f.failProfileCreate != nil {
		return f.failProfileCreate
	}
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeStore) MarkApproved(_ context.Context, targetID, actorID uuid.UUID, at time.Time) error {
	if f.failMarkApproved != nil {
		return f.failMarkApproved
	}
	profile := f.profiles[targetID]
	profile.Status = models.StatusApproved
	profile.ApprovedAt = &at
	profile.ApprovedBy = &actorID
	return nil
}

func (f *fakeStore) MarkRejected(_ context.Context, targetID, actorID uuid.UUID, reason string, at time.Time) error {
	profile := f.profiles[targetID]
	profile.Status = models.StatusRejected
	profile.RejectedAt = &at
	profile.RejectedBy = &actorID
	profile.RejectionReason = reason
	return nil
}

func (f *fakeStore) MarkPending(_ context.Context, targetID uuid.UUID, at time.Time) error {
	profile := f.profiles[targetID]
	profile.Status = models.StatusPending
	profile.RejectionReason = ""
	profile.LastApprovalRequest = &at
	return nil
}

func (f *fakeStore) CreateMembership(_ context.Context, membership *models.Membership) error {
	if f.failMembershipCreate != nil {
		return f.failMembershipCreate
	}
	f.memberships[membership.UserID] = membership
	return nil
}

func (f *fakeStore) PrimaryMembership(_ context.Context, userID uuid.UUID) (*models.Membership, error) {
	membership, ok := f.memberships[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return membership, nil
}

func (f *fakeStore) UpsertMembershipRole(_ context.Context, userID, orgID uuid.UUID, role string) error {
	if f.failUpsertRole != nil {
		return f.failUpsertRole
	}
	if existing, ok := f.memberships[userID]; ok {
		existing.Role = role
		existing.IsPrimary = true
		return nil
	}
	f.memberships[userID] = &models.Membership{
		UserID:         userID,
		OrganizationID: orgID,
		Role:           role,
		IsPrimary:      true,
	}
	return nil
}

func (f *fakeStore) CreateSession(_ context.Context, session *auth.UserSession) error {
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeStore) DeactivateSession(_ context.Context, sessionID string) error {
	if session, ok := f.sessions[sessionID]; ok {
		session.IsActive = false
	}
	return nil
}

func (f *fakeStore) ActiveSession(_ context.Context, sessionID string) (*auth.UserSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok || !session.IsActive {
		return nil, ErrNotFound
	}
	return session, nil
}

func (f *fakeStore) UpdateSessionTokens(_ context.Context, sessionID, tokenHash, refreshToken string) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	session.TokenHash = tokenHash
	session.RefreshToken = refreshToken
	return nil
}

func (f *fakeStore) WithinTx(_ context.Context, fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) activeSessionCount() int {
	count := 0
	for _, session := range f.sessions {
		if session.IsActive {
			count++
		}
	}
	return count
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, map[string]bool{
		"stephensouth1307@gmail.com": true,
		"anhlong13@gmail.com":        true,
	}, time.Hour)
}

func registerUser(t *testing.T, svc *Service, email string, orgID uuid.UUID) *RegisterResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		Email:          email,
		Password:       "secret123",
		Name:           "Test User",
		OrganizationID: orgID,
	})
	assert.NoError(t, err)
	return result
}

// addDecider seeds an approved account with a deciding role so Approve
// and Reject calls have a legitimate actor.
func addDecider(store *fakeStore, orgID uuid.UUID, role string) uuid.UUID {
	id := uuid.New()
	store.profiles[id] = &models.Profile{
		ID:             id,
		Email:          id.String() + "@example.com",
		Status:         models.StatusApproved,
		OrganizationID: &orgID,
	}
	store.memberships[id] = &models.Membership{
		UserID:         id,
		OrganizationID: orgID,
		Role:           role,
		IsPrimary:      true,
	}
	return id
}

func TestRegisterMissingFieldsWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	inputs := []RegisterInput{
		{Password: "secret123", Name: "A", OrganizationID: uuid.New()},
		{Email: "a@example.com", Name: "A", OrganizationID: uuid.New()},
		{Email: "a@example.com", Password: "secret123", OrganizationID: uuid.New()},
		{Email: "a@example.com", Password: "secret123", Name: "A"},
	}
	for _, in := range inputs {
		_, err := svc.Register(context.Background(), in)
		wErr, ok := AsError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeMissingFields, wErr.Code)
	}
	assert.Empty(t, store.identities)
	assert.Empty(t, store.profiles)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()

	registerUser(t, svc, "dup@example.com", orgID)
	identityCount := len(store.identities)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:          "Dup@Example.com",
		Password:       "other456",
		Name:           "Someone Else",
		OrganizationID: orgID,
	})
	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeUserExists, wErr.Code)
	assert.Len(t, store.identities, identityCount)
}

func TestRegisterCreatesPendingStaff(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()

	result := registerUser(t, svc, "new@example.com", orgID)

	assert.Equal(t, models.StatusPending, result.Status)
	assert.Equal(t, models.RoleStaff, result.Role)
	assert.Equal(t, orgID, result.OrganizationID)

	profile := store.profiles[result.UserID]
	assert.Equal(t, models.StatusPending, profile.Status)
	assert.Equal(t, result.UserID, store.identities[result.UserID].ID)
	assert.Equal(t, models.RoleStaff, store.memberships[result.UserID].Role)
	assert.True(t, store.memberships[result.UserID].IsPrimary)
}

func TestRegisterAllowListedEmailGetsAdmin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result := registerUser(t, svc, "stephensouth1307@gmail.com", uuid.New())

	assert.Equal(t, models.RoleAdmin, result.Role)
	assert.Equal(t, models.RoleAdmin, store.memberships[result.UserID].Role)
	// The allow-list grants a role, never approval.
	assert.Equal(t, models.StatusPending, result.Status)
}

func TestRegisterProfileFailureDeletesIdentity(t *testing.T) {
	store := newFakeStore()
	store.failProfileCreate = errors.New("insert failed")
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:          "broken@example.com",
		Password:       "secret123",
		Name:           "Broken",
		OrganizationID: uuid.New(),
	})

	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeProfileCreateFailed, wErr.Code)
	assert.Empty(t, store.identities, "identity must be deleted when the profile insert fails")
	assert.Empty(t, store.profiles)
	assert.Empty(t, store.memberships)
}

func TestRegisterMembershipFailureKeepsIdentityAndProfile(t *testing.T) {
	store := newFakeStore()
	store.failMembershipCreate = errors.New("insert failed")
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:          "halfway@example.com",
		Password:       "secret123",
		Name:           "Halfway",
		OrganizationID: uuid.New(),
	})

	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeMembershipCreateFailed, wErr.Code)
	assert.Len(t, store.identities, 1)
	assert.Len(t, store.profiles, 1)
	assert.Empty(t, store.memberships)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	registerUser(t, svc, "user@example.com", orgID)

	cases := []LoginInput{
		{Email: "user@example.com", Password: "wrongpass"},
		{Email: "nobody@example.com", Password: "secret123"},
		{Email: "", Password: ""},
	}
	for _, in := range cases {
		_, err := svc.Login(context.Background(), in)
		wErr, ok := AsError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeInvalidCredentials, wErr.Code)
	}
}

func TestLoginPendingAccountIsRefusedWithStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	registerUser(t, svc, "pending@example.com", uuid.New())

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "pending@example.com",
		Password: "secret123",
	})

	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeAccountNotApproved, wErr.Code)
	assert.Equal(t, models.StatusPending, wErr.Status)
	assert.Equal(t, 0, store.activeSessionCount(), "refused login must not leave an active session")
}

func TestLoginRejectedAccountIsRefusedWithStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "rejected@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	_, err := svc.Reject(context.Background(), actorID, result.UserID, "incomplete application")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "rejected@example.com",
		Password: "secret123",
	})

	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeAccountNotApproved, wErr.Code)
	assert.Equal(t, models.StatusRejected, wErr.Status)
	assert.Equal(t, 0, store.activeSessionCount())
}

func TestLoginMissingProfileSignsOut(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	id := uuid.New()
	hashed, err := utils.HashPassword("secret123")
	assert.NoError(t, err)
	store.identities[id] = &auth.Identity{ID: id, Email: "orphan@example.com", PasswordHash: hashed}

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "orphan@example.com",
		Password: "secret123",
	})

	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeProfileNotFound, wErr.Code)
	assert.Equal(t, 0, store.activeSessionCount())
}

func TestLoginApprovedAccountSucceeds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "member@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleHR)

	_, err := svc.Approve(context.Background(), actorID, result.UserID, models.RoleLeader)
	assert.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginInput{
		Email:     "member@example.com",
		Password:  "secret123",
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleLeader, login.Role)
	assert.Equal(t, orgID, login.OrganizationID)
	assert.Equal(t, result.UserID, login.Profile.ID)
	assert.True(t, login.Session.IsActive)

	session, err := svc.CurrentSession(context.Background(), login.Session.SessionID)
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.Equal(t, "10.0.0.1", session.IPAddress)
}

func TestApproveRequiresDecidingRole(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	staffID := addDecider(store, orgID, models.RoleStaff)
	leaderID := addDecider(store, orgID, models.RoleLeader)

	for _, actorID := range []uuid.UUID{staffID, leaderID, uuid.New()} {
		_, err := svc.Approve(context.Background(), actorID, result.UserID, models.RoleStaff)
		wErr, ok := AsError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeForbidden, wErr.Code)
	}
	assert.Equal(t, models.StatusPending, store.profiles[result.UserID].Status)
}

func TestApproveRejectsInvalidRole(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	_, err := svc.Approve(context.Background(), actorID, result.UserID, "superuser")
	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeMissingFields, wErr.Code)
}

func TestApproveSetsStatusAndRole(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	profile, err := svc.Approve(context.Background(), actorID, result.UserID, models.RoleHR)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, profile.Status)
	assert.NotNil(t, profile.ApprovedAt)
	assert.Equal(t, actorID, *profile.ApprovedBy)
	assert.Equal(t, models.RoleHR, store.memberships[result.UserID].Role)
}

func TestRejectRecordsReason(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleHR)

	profile, err := svc.Reject(context.Background(), actorID, result.UserID, "missing documents")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, profile.Status)
	assert.Equal(t, "missing documents", profile.RejectionReason)
	assert.Equal(t, actorID, *profile.RejectedBy)
	assert.NotNil(t, profile.RejectedAt)
}

func TestRejectDefaultsEmptyReason(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	profile, err := svc.Reject(context.Background(), actorID, result.UserID, "   ")
	assert.NoError(t, err)
	assert.Equal(t, "Unspecified", profile.RejectionReason)
}

func TestReapplyResetsRejectedAccount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	_, err := svc.Reject(context.Background(), actorID, result.UserID, "too early")
	assert.NoError(t, err)

	profile, err := svc.Reapply(context.Background(), result.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, profile.Status)
	assert.Empty(t, profile.RejectionReason)
	assert.NotNil(t, profile.LastApprovalRequest)
}

func TestReapplyIsNoOpUnlessRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)

	// PENDING stays PENDING.
	profile, err := svc.Reapply(context.Background(), result.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, profile.Status)
	assert.Nil(t, profile.LastApprovalRequest)

	actorID := addDecider(store, orgID, models.RoleAdmin)
	_, err = svc.Approve(context.Background(), actorID, result.UserID, models.RoleStaff)
	assert.NoError(t, err)

	// APPROVED stays APPROVED.
	profile, err = svc.Reapply(context.Background(), result.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, profile.Status)
}

func TestReapplyUnknownAccount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Reapply(context.Background(), uuid.New())
	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeProfileNotFound, wErr.Code)
}

// A rejected account cannot log in, so reapply must work from
// credentials alone without ever holding a token.
func TestReapplyWithCredentialsResetsRejectedAccount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	_, err := svc.Reject(context.Background(), actorID, result.UserID, "too early")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "target@example.com", Password: "secret123"})
	wErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeAccountNotApproved, wErr.Code)

	profile, err := svc.ReapplyWithCredentials(context.Background(), "Target@Example.com ", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, profile.Status)
	assert.Empty(t, profile.RejectionReason)
	assert.NotNil(t, profile.LastApprovalRequest)
}

func TestReapplyWithCredentialsRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()
	result := registerUser(t, svc, "target@example.com", orgID)
	actorID := addDecider(store, orgID, models.RoleAdmin)

	_, err := svc.Reject(context.Background(), actorID, result.UserID, "too early")
	assert.NoError(t, err)

	cases := []struct{ email, password string }{
		{"target@example.com", "wrongpass"},
		{"nobody@example.com", "secret123"},
		{"", ""},
	}
	for _, in := range cases {
		_, err := svc.ReapplyWithCredentials(context.Background(), in.email, in.password)
		wErr, ok := AsError(err)
		assert.True(t, ok)
		assert.Equal(t, CodeInvalidCredentials, wErr.Code)
	}

	// The failed attempts must not have touched the account.
	profile, err := svc.store.GetProfile(context.Background(), result.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusRejected, profile.Status)
}

func TestRegisterApproveLoginLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	orgID := uuid.New()

	result := registerUser(t, svc, "lifecycle@example.com", orgID)

	// Cannot log in while PENDING.
	_, err := svc.Login(context.Background(), LoginInput{Email: "lifecycle@example.com", Password: "secret123"})
	wErr, _ := AsError(err)
	assert.Equal(t, CodeAccountNotApproved, wErr.Code)

	actorID := addDecider(store, orgID, models.RoleAdmin)
	_, err = svc.Approve(context.Background(), actorID, result.UserID, models.RoleStaff)
	assert.NoError(t, err)

	login, err := svc.Login(context.Background(), LoginInput{Email: "lifecycle@example.com", Password: "secret123"})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStaff, login.Role)

	err = svc.AttachSessionTokens(context.Background(), login.Session.SessionID, "hash", "refresh")
	assert.NoError(t, err)
	assert.Equal(t, "hash", store.sessions[login.Session.SessionID].TokenHash)
}
