package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database/models/auth"
	utils "staffhub-backend/shared/utils/auth"
)

// ChangePasswordRequest carries the current and new password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// SessionInfo is one row of the session list
type SessionInfo struct {
	ID         uuid.UUID  `json:"id"`
	SessionID  string     `json:"session_id"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
	Current    bool       `json:"current"`
}

// GET /api/auth/sessions
// @Summary List sessions
// @Description List the authenticated user's sessions
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/sessions [get]
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	currentTokenHash := c.GetString("tokenHash")

	var sessions []auth.UserSession
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}

	result := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		result = append(result, SessionInfo{
			ID:         s.ID,
			SessionID:  s.SessionID,
			IPAddress:  s.IPAddress,
			UserAgent:  s.UserAgent,
			IsActive:   s.IsActive,
			ExpiresAt:  s.ExpiresAt,
			LastUsedAt: s.LastUsedAt,
			CreatedAt:  s.CreatedAt,
			Current:    s.TokenHash == currentTokenHash,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": result})
}

// DELETE /api/auth/sessions/:id
// @Summary Terminate session
// @Description Terminate one of the authenticated user's sessions
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session row ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /auth/sessions/{id} [delete]
func (h *AuthHandler) TerminateSession(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	sessionRowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var session auth.UserSession
	if err := h.db.Where("id = ? AND user_id = ?", sessionRowID, userID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	session.IsActive = false
	if err := h.db.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session terminated"})
}

// DELETE /api/auth/sessions
// @Summary Terminate all sessions
// @Description Terminate every session of the authenticated user except the current one
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/sessions [delete]
func (h *AuthHandler) TerminateAllSessions(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	currentTokenHash := c.GetString("tokenHash")

	result := h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND is_active = ? AND token_hash <> ?", userID, true, currentTokenHash).
		Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate sessions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Sessions terminated",
		"terminated": result.RowsAffected,
	})
}

// GET /api/auth/login-history
// @Summary Login history
// @Description List recent login attempts for the authenticated user's email
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/login-history [get]
func (h *AuthHandler) GetLoginHistory(c *gin.Context) {
	email := c.GetString("userEmail")

	var attempts []auth.LoginAttempt
	if err := h.db.Where("email = ?", email).
		Order("last_attempt DESC").Limit(50).Find(&attempts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch login history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

// POST /api/auth/change-password
// @Summary Change password
// @Description Change the authenticated user's password and terminate other sessions
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body ChangePasswordRequest true "Password change request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Wrong current password"
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)
	currentTokenHash := c.GetString("tokenHash")

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var identity auth.Identity
	if err := h.db.Where("id = ?", userID).First(&identity).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, identity.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	identity.PasswordHash = hashed
	if err := h.db.Save(&identity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update password"})
		return
	}

	// Other devices must re-authenticate with the new password
	h.db.Model(&auth.UserSession{}).
		Where("user_id = ? AND is_active = ? AND token_hash <> ?", userID, true, currentTokenHash).
		Update("is_active", false)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
