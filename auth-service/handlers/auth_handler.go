package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/clients"
	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
	"staffhub-backend/shared/database/models/notification"
	utils "staffhub-backend/shared/utils/auth"
	"staffhub-backend/shared/workflow"
)

type AuthHandler struct {
	db       *gorm.DB
	workflow *workflow.Service
	notifier *clients.NotificationClient
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	cfg := config.GetConfig()
	svc := workflow.NewService(
		workflow.NewGormStore(db),
		cfg.AdminEmailSet(),
		utils.GetJWTExpireDuration(),
	)
	return &AuthHandler{
		db:       db,
		workflow: svc,
		notifier: clients.NewNotificationClient(),
	}
}

// Login Request/Response structs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@staffhub.dev"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	User         UserInfo  `json:"user"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
}

// Register Request struct
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email" example:"user@example.com"`
	Password       string `json:"password" binding:"required,min=6" example:"securepassword"`
	FullName       string `json:"full_name" binding:"required" example:"Nguyen Van A"`
	OrganizationID string `json:"organization_id" example:"9f4c6f86-6f1e-4f43-8f2e-1d2f3a4b5c6d"`
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh Response struct
type RefreshResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Validate Request struct
type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

// Validate Response struct
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	UserID    uuid.UUID `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// respondWorkflowError translates a workflow error into an HTTP response.
// The code travels in the body so clients can switch on it.
func respondWorkflowError(c *gin.Context, err error) {
	wErr, ok := workflow.AsError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  workflow.CodeUnknownError,
			"error": "Unexpected error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch wErr.Code {
	case workflow.CodeMissingFields:
		status = http.StatusBadRequest
	case workflow.CodeUserExists:
		status = http.StatusConflict
	case workflow.CodeInvalidCredentials:
		status = http.StatusUnauthorized
	case workflow.CodeAccountNotApproved, workflow.CodeForbidden:
		status = http.StatusForbidden
	case workflow.CodeProfileNotFound:
		status = http.StatusNotFound
	}

	body := gin.H{
		"code":  wErr.Code,
		"error": wErr.Message,
	}
	if wErr.Status != "" {
		body["status"] = wErr.Status
	}
	c.JSON(status, body)
}

// POST /api/auth/register
// @Summary Register new account
// @Description Create a new account in PENDING state awaiting approval
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{} "Account created, pending approval"
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 429 {object} map[string]string "Too many registration attempts"
// @Failure 500 {object} map[string]string "Failed to register"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": workflow.CodeMissingFields, "error": err.Error()})
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": workflow.CodeMissingFields, "error": err.Error()})
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": workflow.CodeMissingFields, "error": err.Error()})
		return
	}

	orgID, err := h.resolveOrganization(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": workflow.CodeMissingFields, "error": err.Error()})
		return
	}

	result, err := h.workflow.Register(c.Request.Context(), workflow.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.FullName,
		OrganizationID: orgID,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// Fire-and-forget: delivery of the welcome email never blocks the
	// registration response.
	go func() {
		if err := h.notifier.SendWelcomeEmail(result.Email, result.Name); err != nil {
			log.Printf("⚠️ Failed to send welcome email to %s: %v", result.Email, err)
		}
	}()

	h.notifier.PublishChange(notification.EntityApprovals, "INSERT", &result.UserID, &result.UserID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created and awaiting approval",
		"user": gin.H{
			"id":              result.UserID,
			"email":           result.Email,
			"full_name":       result.Name,
			"role":            result.Role,
			"organization_id": result.OrganizationID,
			"status":          result.Status,
		},
	})
}

// resolveOrganization parses the requested organization id or falls back
// to the seeded default organization.
func (h *AuthHandler) resolveOrganization(raw string) (uuid.UUID, error) {
	if raw != "" {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, errors.New("invalid organization_id")
		}
		return orgID, nil
	}

	var org models.Organization
	slug := config.GetConfig().DefaultOrgSlug
	if err := h.db.Where("slug = ?", slug).First(&org).Error; err != nil {
		return uuid.Nil, errors.New("no organization available for registration")
	}
	return org.ID, nil
}

// POST /api/auth/login
// @Summary User login
// @Description Authenticate an approved account and return JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Account not approved"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientIP := c.ClientIP()
	userAgent := c.GetHeader("User-Agent")

	result, err := h.workflow.Login(c.Request.Context(), workflow.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: clientIP,
		UserAgent: userAgent,
	})
	if err != nil {
		failureType := "unknown"
		if wErr, ok := workflow.AsError(err); ok {
			switch wErr.Code {
			case workflow.CodeInvalidCredentials:
				failureType = "wrong_credentials"
			case workflow.CodeAccountNotApproved:
				failureType = "not_approved"
			case workflow.CodeProfileNotFound:
				failureType = "profile_missing"
			}
		}
		h.recordLoginAttempt(req.Email, clientIP, userAgent, false, failureType)
		respondWorkflowError(c, err)
		return
	}

	var orgID uuid.UUID = result.OrganizationID

	token, err := utils.GenerateJWT(result.Profile.ID, result.Profile.Email, orgID, result.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(result.Profile.ID, result.Profile.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	if err := h.workflow.AttachSessionTokens(c.Request.Context(), result.Session.SessionID, token[:32], refreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	h.recordLoginAttempt(result.Profile.Email, clientIP, userAgent, true, "")

	expireDuration := utils.GetJWTExpireDuration()
	response := LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
		User: UserInfo{
			ID:             result.Profile.ID,
			Email:          result.Profile.Email,
			FullName:       result.Profile.FullName,
			OrganizationID: orgID,
			Role:           result.Role,
			Status:         result.Profile.Status,
		},
	}

	c.JSON(http.StatusOK, response)
}

// POST /api/auth/logout
// @Summary User logout
// @Description Logout the currently authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out successfully"
// @Failure 400 {object} map[string]string "Token required"
// @Failure 401 {object} map[string]string "Invalid token"
// @Failure 500 {object} map[string]string "Could not logout"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	tokenHash := tokenString[:32]
	userID, _ := uuid.Parse(claims.UserID)
	if err := h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND token_hash = ? AND is_active = ?", userID, tokenHash, true).
		Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not logout"})
		return
	}

	// Blacklist the access token for the rest of its lifetime
	blacklisted := auth.BlacklistedToken{
		UserID:        userID,
		TokenHash:     tokenHash,
		ExpiresAt:     claims.ExpiresAt.Time,
		BlacklistedAt: time.Now(),
	}
	if err := h.db.Create(&blacklisted).Error; err != nil {
		log.Printf("⚠️ Failed to blacklist token for user %s: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// POST /api/auth/refresh
// @Summary Refresh JWT token
// @Description Refresh an expired JWT token using a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.RefreshResponse "Successfully refreshed tokens"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid refresh token or account not approved"
// @Failure 500 {object} map[string]string "Failed to generate new tokens"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateRefreshJWT(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	userID, _ := uuid.Parse(claims.UserID)
	var userSession auth.UserSession
	if err := h.db.Where("user_id = ? AND refresh_token = ? AND is_active = ?",
		userID, req.RefreshToken, true).First(&userSession).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found or expired"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
		return
	}

	// A refresh is a re-authentication: an account rejected or reset to
	// pending since login is cut off here.
	if profile.Status != models.StatusApproved {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":   workflow.CodeAccountNotApproved,
			"error":  "account is not approved",
			"status": profile.Status,
		})
		return
	}

	role := models.RoleStaff
	var orgID uuid.UUID
	var membership models.Membership
	if err := h.db.Where("user_id = ? AND is_primary = ?", userID, true).First(&membership).Error; err == nil {
		role = membership.Role
		orgID = membership.OrganizationID
	} else if profile.OrganizationID != nil {
		orgID = *profile.OrganizationID
	}

	newToken, err := utils.GenerateJWT(profile.ID, profile.Email, orgID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshJWT(profile.ID, profile.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	expireDuration := utils.GetJWTExpireDuration()
	userSession.TokenHash = newToken[:32]
	userSession.RefreshToken = newRefreshToken
	userSession.ExpiresAt = time.Now().Add(expireDuration)
	userSession.UpdatedAt = time.Now()

	if err := h.db.Save(&userSession).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update session"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Token:        newToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(expireDuration),
	})
}

// POST /api/auth/validate
// @Summary Validate JWT token
// @Description Validate a JWT token and return its claims
// @Tags auth
// @Accept json
// @Produce json
// @Param validate body ValidateRequest true "JWT token to validate"
// @Success 200 {object} handlers.ValidateResponse "Token validation result"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /auth/validate [post]
func (h *AuthHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateJWT(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	// Blacklisted tokens are invalid even before expiry
	if len(req.Token) >= 32 {
		var count int64
		h.db.Model(&auth.BlacklistedToken{}).
			Where("token_hash = ? AND expires_at > ?", req.Token[:32], time.Now()).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusOK, ValidateResponse{Valid: false})
			return
		}
	}

	userID, _ := uuid.Parse(claims.UserID)
	c.JSON(http.StatusOK, ValidateResponse{
		Valid:     true,
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// GET /api/auth/me
// @Summary Current account
// @Description Return the authenticated account's profile, role and status
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var profile models.Profile
	if err := h.db.Preload("Organization").Preload("Team").Preload("Shift").
		Where("id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": workflow.CodeProfileNotFound, "error": "Profile not found"})
		return
	}

	role := models.RoleStaff
	var membership models.Membership
	if err := h.db.Where("user_id = ? AND is_primary = ?", userID, true).First(&membership).Error; err == nil {
		role = membership.Role
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"role":    role,
	})
}

type ReapplyRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"securepassword"`
}

// POST /api/auth/reapply
// @Summary Re-apply after rejection
// @Description Authenticate with email and password and reset a rejected account back to pending review. No token is required: rejected accounts cannot sign in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ReapplyRequest true "Account credentials"
// @Success 200 {object} map[string]interface{} "Account back in review queue"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 404 {object} map[string]string "Profile not found"
// @Router /auth/reapply [post]
func (h *AuthHandler) Reapply(c *gin.Context) {
	var req ReapplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": workflow.CodeMissingFields, "error": err.Error()})
		return
	}

	profile, err := h.workflow.ReapplyWithCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	h.notifier.PublishChange(notification.EntityApprovals, "UPDATE", &profile.ID, &profile.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Application submitted for review",
		"status":  profile.Status,
	})
}

// recordLoginAttempt upserts the audit row for an email/IP pair
func (h *AuthHandler) recordLoginAttempt(email, ipAddress, userAgent string, successful bool, failureType string) {
	var attempt auth.LoginAttempt
	now := time.Now()

	err := h.db.Where("email = ? AND ip_address = ? AND successful = ?", email, ipAddress, successful).
		Order("last_attempt DESC").First(&attempt).Error
	if err == nil && now.Sub(attempt.LastAttempt) < time.Hour {
		attempt.Attempts++
		attempt.LastAttempt = now
		attempt.FailureType = failureType
		attempt.UserAgent = userAgent
		if err := h.db.Save(&attempt).Error; err != nil {
			log.Printf("⚠️ Failed to update login attempt for %s: %v", email, err)
		}
		return
	}

	attempt = auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
		Successful:  successful,
		FailureType: failureType,
		Attempts:    1,
		LastAttempt: now,
	}
	if err := h.db.Create(&attempt).Error; err != nil {
		log.Printf("⚠️ Failed to record login attempt for %s: %v", email, err)
	}
}
