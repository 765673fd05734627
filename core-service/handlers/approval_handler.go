package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/clients"
	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/notification"
	utils "staffhub-backend/shared/utils/auth"
	"staffhub-backend/shared/utils/cache"
	"staffhub-backend/shared/utils/query"
	"staffhub-backend/shared/workflow"
)

// ApprovalHandler serves the registration review queue: listing accounts
// by status, approving with a role, and rejecting with a reason.
type ApprovalHandler struct {
	db       *gorm.DB
	workflow *workflow.Service
	notifier *clients.NotificationClient
}

func NewApprovalHandler(db *gorm.DB) *ApprovalHandler {
	cfg := config.GetConfig()
	svc := workflow.NewService(
		workflow.NewGormStore(db),
		cfg.AdminEmailSet(),
		utils.GetJWTExpireDuration(),
	)
	return &ApprovalHandler{
		db:       db,
		workflow: svc,
		notifier: clients.NewNotificationClient(),
	}
}

// ApproveRequest carries the role assigned at approval time
type ApproveRequest struct {
	Role string `json:"role" binding:"required" example:"staff"`
}

// RejectRequest carries the rejection reason
type RejectRequest struct {
	Reason string `json:"reason" example:"Incomplete application"`
}

// respondWorkflowError maps workflow error codes onto HTTP statuses
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
	case workflow.CodeForbidden, workflow.CodeAccountNotApproved:
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

// GetApprovals lists profiles in the review queue
// @Summary List accounts by approval status
// @Description List accounts filtered by approval status with pagination and search
// @Tags approvals
// @Produce json
// @Param filters[status] query string false "Approval status (PENDING, APPROVED, REJECTED)"
// @Param search query string false "Search across name and email"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /approvals [get]
func (h *ApprovalHandler) GetApprovals(c *gin.Context) {
	params := query.ParseQueryParams(c)

	allowedFilters := map[string]string{
		"status":          "status",
		"organization_id": "organization_id",
	}
	allowedSortFields := map[string]string{
		"email":                 "email",
		"full_name":             "full_name",
		"status":                "status",
		"created_at":            "created_at",
		"last_approval_request": "last_approval_request",
	}
	searchFields := []string{"full_name", "email"}

	baseQuery := h.db.Model(&models.Profile{}).
		Preload("Organization").
		Preload("Memberships")

	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, searchFields)

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var profiles []models.Profile
	if err := finalQuery.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve approval queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       profiles,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GetApprovalCounts returns per-status totals for the review dashboard
// @Summary Approval queue counts
// @Description Per-status account totals
// @Tags approvals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Failure 500 {object} map[string]string
// @Router /approvals/counts [get]
func (h *ApprovalHandler) GetApprovalCounts(c *gin.Context) {
	counts := map[string]int64{}
	for _, status := range []string{models.StatusPending, models.StatusApproved, models.StatusRejected} {
		var count int64
		if err := h.db.Model(&models.Profile{}).Where("status = ?", status).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count accounts"})
			return
		}
		counts[status] = count
	}

	c.JSON(http.StatusOK, counts)
}

// Approve transitions an account to APPROVED with a role
// @Summary Approve account
// @Description Approve a pending or rejected account and assign its role
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param payload body ApproveRequest true "Role assignment"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid role or account ID"
// @Failure 403 {object} map[string]string "Caller may not decide approvals"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	actorID := c.MustGet("userID").(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.workflow.Approve(c.Request.Context(), actorID, targetID, req.Role)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// The cached role/status pair is stale the moment the decision lands
	if err := cache.GetCacheManager().InvalidateRoleCache(targetID); err != nil {
		log.Printf("⚠️ Failed to invalidate role cache for %s: %v", targetID, err)
	}

	go func() {
		if err := h.notifier.SendAccountApprovedEmail(profile.Email, profile.FullName, req.Role); err != nil {
			log.Printf("⚠️ Failed to send approval email to %s: %v", profile.Email, err)
		}
	}()
	h.notifier.PublishChange(notification.EntityApprovals, "UPDATE", &profile.ID, &actorID)
	h.notifier.PublishChange(notification.EntityProfiles, "UPDATE", &profile.ID, &actorID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Account approved",
		"profile": profile,
	})
}

// Reject transitions an account to REJECTED with a reason
// @Summary Reject account
// @Description Reject an account application with a recorded reason
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param payload body RejectRequest true "Rejection reason"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid account ID"
// @Failure 403 {object} map[string]string "Caller may not decide approvals"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	actorID := c.MustGet("userID").(uuid.UUID)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.workflow.Reject(c.Request.Context(), actorID, targetID, req.Reason)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if err := cache.GetCacheManager().InvalidateRoleCache(targetID); err != nil {
		log.Printf("⚠️ Failed to invalidate role cache for %s: %v", targetID, err)
	}

	go func() {
		if err := h.notifier.SendAccountRejectedEmail(profile.Email, profile.FullName, profile.RejectionReason); err != nil {
			log.Printf("⚠️ Failed to send rejection email to %s: %v", profile.Email, err)
		}
	}()
	h.notifier.PublishChange(notification.EntityApprovals, "UPDATE", &profile.ID, &actorID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Account rejected",
		"profile": profile,
	})
}
