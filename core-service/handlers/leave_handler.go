package handlers

import (
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/notification"
	"staffhub-backend/shared/utils/query"
)

var leaveTypes = map[string]bool{
	"annual": true,
	"sick":   true,
	"unpaid": true,
	"other":  true,
}

// LeaveRequestBody represents request body for creating a leave request
type LeaveRequestBody struct {
	LeaveType string    `json:"leave_type" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
	Reason    string    `json:"reason"`
}

// leaveDays counts calendar days covered by a request, inclusive.
func leaveDays(start, end time.Time) int {
	days := int(math.Floor(end.Sub(start).Hours()/24)) + 1
	if days < 1 {
		days = 1
	}
	return days
}

func isReviewerRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleHR
}

// CreateLeaveRequest submits a leave request for the authenticated user
// @Summary Create leave request
// @Tags leave
// @Accept json
// @Produce json
// @Param request body LeaveRequestBody true "Leave request data"
// @Security BearerAuth
// @Success 201 {object} models.LeaveRequest
// @Failure 400 {object} map[string]string
// @Router /leave-requests [post]
func CreateLeaveRequest(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)

	var req LeaveRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !leaveTypes[req.LeaveType] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave type, expected annual, sick, unpaid or other"})
		return
	}

	if req.EndDate.Before(req.StartDate) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	db := database.GetDB()

	if req.LeaveType == "annual" {
		var profile models.Profile
		if err := db.Select("annual_leave_balance").Where("id = ?", userID).First(&profile).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		if leaveDays(req.StartDate, req.EndDate) > profile.AnnualLeaveBalance {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient annual leave balance"})
			return
		}
	}

	leave := models.LeaveRequest{
		UserID:    userID,
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    models.LeavePending,
	}

	if err := db.Create(&leave).Error; err != nil {
		log.Printf("❌ Failed to create leave request for user %s: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create leave request"})
		return
	}

	notifier().PublishChange(notification.EntityLeaveRequests, "INSERT", &leave.ID, &userID)

	ctx.JSON(http.StatusCreated, leave)
}

// GetLeaveRequests lists leave requests. Staff see only their own,
// admin and hr see everyone's.
// @Summary Get leave requests
// @Tags leave
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[status] query string false "Filter by review status"
// @Param filters[leave_type] query string false "Filter by leave type"
// @Param filters[user_id] query string false "Filter by user ID (admin/hr only)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /leave-requests [get]
func GetLeaveRequests(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)
	role := ctx.GetString("userRole")

	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"status":     "status",
		"leave_type": "leave_type",
	}
	if isReviewerRole(role) {
		allowedFilters["user_id"] = "user_id"
	}

	allowedSortFields := map[string]string{
		"start_date": "start_date",
		"created_at": "created_at",
		"status":     "status",
	}

	baseQuery := db.Model(&models.LeaveRequest{})
	baseQuery = applyVisibilityScope(db, baseQuery, role, userID, "user_id")
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	baseQuery = query.ApplyDateRange(baseQuery, "start_date", params.From, params.To)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count leave requests"})
		return
	}

	if params.Sort.Field == "" {
		params.Sort.Field = "created_at"
		params.Sort.Order = "desc"
	}
	baseQuery = query.ApplySort(baseQuery, params.Sort, allowedSortFields)
	baseQuery = query.ApplyPagination(baseQuery, params.Page, params.Limit)

	var requests []models.LeaveRequest
	if err := baseQuery.Preload("User").Find(&requests).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leave requests"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       requests,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

func reviewLeaveRequest(ctx *gin.Context, decision string) {
	reviewerID := ctx.MustGet("userID").(uuid.UUID)

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave request ID"})
		return
	}

	db := database.GetDB()

	var leave models.LeaveRequest
	if err := db.Where("id = ?", id).First(&leave).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Leave request not found"})
		return
	}

	if leave.Status != models.LeavePending {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Leave request has already been reviewed"})
		return
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&leave).Updates(map[string]interface{}{
			"status":      decision,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		}).Error; err != nil {
			return err
		}

		if decision == models.LeaveApproved && leave.LeaveType == "annual" {
			days := leaveDays(leave.StartDate, leave.EndDate)
			if err := tx.Model(&models.Profile{}).Where("id = ?", leave.UserID).
				Update("annual_leave_balance", gorm.Expr("annual_leave_balance - ?", days)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to review leave request %s: %v", id, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update leave request"})
		return
	}

	notifier().PublishChange(notification.EntityLeaveRequests, "UPDATE", &leave.ID, &leave.UserID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Leave request " + decision, "id": leave.ID})
}

// ApproveLeaveRequest approves a pending leave request
// @Summary Approve leave request
// @Tags leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /leave-requests/{id}/approve [post]
func ApproveLeaveRequest(ctx *gin.Context) {
	reviewLeaveRequest(ctx, models.LeaveApproved)
}

// RejectLeaveRequest rejects a pending leave request
// @Summary Reject leave request
// @Tags leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /leave-requests/{id}/reject [post]
func RejectLeaveRequest(ctx *gin.Context) {
	reviewLeaveRequest(ctx, models.LeaveRejected)
}
