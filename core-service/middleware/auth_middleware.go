package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	utils "staffhub-backend/shared/utils/auth"
	"staffhub-backend/shared/utils/cache"
	"staffhub-backend/shared/workflow"
)

// AuthMiddleware extracts user information from JWT token and sets it in context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Expected Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		if orgID, err := uuid.Parse(claims.OrganizationID); err == nil {
			c.Set("organizationID", orgID)
		}

		c.Next()
	}
}

// lookupRole resolves the caller's current role and approval status,
// preferring the Redis cache over a membership query. The token's role
// claim is deliberately not trusted for gated mutations: a demotion or
// rejection takes effect before the token expires.
func lookupRole(userID uuid.UUID) (string, string) {
	cm := cache.GetCacheManager()
	if data, found := cm.GetRoleCache(userID); found {
		return data.Role, data.Status
	}

	db := database.GetDB()

	var profile models.Profile
	if err := db.Select("status", "organization_id").Where("id = ?", userID).First(&profile).Error; err != nil {
		return "", ""
	}

	role := models.RoleStaff
	orgID := uuid.Nil
	var membership models.Membership
	if err := db.Where("user_id = ? AND is_primary = ?", userID, true).First(&membership).Error; err == nil {
		role = membership.Role
		orgID = membership.OrganizationID
	}

	if cm != nil {
		cm.SetRoleCache(&cache.RoleCacheData{
			UserID:         userID,
			Role:           role,
			Status:         profile.Status,
			OrganizationID: orgID,
		})
	}

	return role, profile.Status
}

// RequireRoles gates a route to callers holding one of the given roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		role, status := lookupRole(userID)
		if status != models.StatusApproved {
			c.JSON(http.StatusForbidden, gin.H{
				"code":  workflow.CodeAccountNotApproved,
				"error": "account is not approved",
			})
			c.Abort()
			return
		}

		if !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{
				"code":  workflow.CodeForbidden,
				"error": "insufficient role for this operation",
			})
			c.Abort()
			return
		}

		c.Set("userRole", role)
		c.Next()
	}
}
