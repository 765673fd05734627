package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
	"staffhub-backend/shared/database/models/notification"
	"staffhub-backend/shared/utils/cache"
	"staffhub-backend/shared/utils/query"
)

// UpdateUserRequest represents request body for updating a profile
type UpdateUserRequest struct {
	FullName           string     `json:"full_name"`
	Phone              string     `json:"phone"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	AnnualLeaveBalance *int       `json:"annual_leave_balance"`
	TeamID             *uuid.UUID `json:"team_id"`
	ShiftID            *uuid.UUID `json:"shift_id"`
}

// GetUsers retrieves all profiles with pagination and filtering
// @Summary Get all users
// @Description Get all user profiles with pagination, filtering, sorting and search
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param search query string false "Search term across name and email"
// @Param filters[status] query string false "Filter by approval status"
// @Param filters[team_id] query string false "Filter by team ID"
// @Param filters[shift_id] query string false "Filter by shift ID"
// @Param sort[field] query string false "Sort field (email, full_name, created_at)"
// @Param sort[order] query string false "Sort order (asc, desc)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /users [get]
func GetUsers(ctx *gin.Context) {
	db := database.GetDB()

	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"status":          "status",
		"organization_id": "organization_id",
		"team_id":         "team_id",
		"shift_id":        "shift_id",
	}

	allowedSortFields := map[string]string{
		"email":      "email",
		"full_name":  "full_name",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	searchFields := []string{"full_name", "email"}

	baseQuery := db.Model(&models.Profile{}).
		Preload("Organization").
		Preload("Team").
		Preload("Shift").
		Preload("Memberships")

	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var profiles []models.Profile
	if err := finalQuery.Find(&profiles).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve users",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       profiles,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GetUser retrieves a single profile
// @Summary Get user by ID
// @Description Get a single user profile with its relations
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func GetUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Preload("Organization").Preload("Team").Preload("Shift").Preload("Memberships").
		Where("id = ?", id).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// UpdateUser updates profile fields including team and shift assignment
// @Summary Update user
// @Description Update a user profile's editable fields
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id} [put]
func UpdateUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", id).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		profile.DateOfBirth = req.DateOfBirth
	}
	if req.AnnualLeaveBalance != nil {
		profile.AnnualLeaveBalance = *req.AnnualLeaveBalance
	}
	if req.TeamID != nil {
		profile.TeamID = req.TeamID
	}
	if req.ShiftID != nil {
		profile.ShiftID = req.ShiftID
	}

	if err := db.Save(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	notifier().PublishChange(notification.EntityProfiles, "UPDATE", &profile.ID, nil)

	ctx.JSON(http.StatusOK, profile)
}

// DeleteUser removes a profile together with its identity and memberships
// @Summary Delete user
// @Description Delete a user account entirely (profile, identity, memberships, sessions)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id} [delete]
func DeleteUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", id).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&auth.UserSession{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Profile{}, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&auth.Identity{}, "id = ?", id).Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	cache.GetCacheManager().InvalidateRoleCache(id)
	notifier().PublishChange(notification.EntityProfiles, "DELETE", &id, nil)

	ctx.Status(http.StatusNoContent)
}

// UpdateProfileRequest represents the self-service profile update body.
// Assignment fields (team, shift, leave balance) are deliberately absent.
type UpdateProfileRequest struct {
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// UpdateRoleRequest represents request body for reassigning a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateMyProfile updates the authenticated user's own profile
// @Summary Update own profile
// @Description Update name, phone and date of birth of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Param user body UpdateProfileRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Router /users/me [put]
func UpdateMyProfile(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", userID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		profile.DateOfBirth = req.DateOfBirth
	}

	if err := db.Save(&profile).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	notifier().PublishChange(notification.EntityProfiles, "UPDATE", &profile.ID, &userID)

	ctx.JSON(http.StatusOK, profile)
}

// UpdateUserRole reassigns a user's primary membership role
// @Summary Reassign user role
// @Description Change the role on a user's primary membership. Takes effect immediately via the role cache.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param role body UpdateRoleRequest true "New role"
// @Security BearerAuth
// @Success 200 {object} models.Membership
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id}/role [put]
func UpdateUserRole(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(req.Role) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role, expected admin, hr, leader or staff"})
		return
	}

	db := database.GetDB()
	var membership models.Membership
	if err := db.Where("user_id = ? AND is_primary = ?", id, true).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User has no primary membership"})
		return
	}

	membership.Role = req.Role
	if err := db.Save(&membership).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	// Stale cached role would keep the old permissions until TTL
	cache.GetCacheManager().InvalidateRoleCache(id)
	notifier().PublishChange(notification.EntityProfiles, "UPDATE", &id, nil)

	ctx.JSON(http.StatusOK, membership)
}
