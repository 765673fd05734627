package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/notification"
	"staffhub-backend/shared/utils/export"
	"staffhub-backend/shared/utils/query"
)

// AttendanceRequest represents request body for a check-in or check-out
type AttendanceRequest struct {
	Note string `json:"note"`
}

func recordAttendance(ctx *gin.Context, recordType string) {
	userID := ctx.MustGet("userID").(uuid.UUID)

	var req AttendanceRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	db := database.GetDB()
	record := models.AttendanceRecord{
		UserID:     userID,
		Type:       recordType,
		RecordedAt: time.Now(),
		Note:       req.Note,
	}

	if err := db.Create(&record).Error; err != nil {
		log.Printf("❌ Failed to record %s for user %s: %v", recordType, userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
		return
	}

	notifier().PublishChange(notification.EntityAttendance, "INSERT", &record.ID, &userID)

	ctx.JSON(http.StatusCreated, record)
}

// CheckIn records a check-in event for the authenticated user
// @Summary Check in
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body AttendanceRequest false "Optional note"
// @Security BearerAuth
// @Success 201 {object} models.AttendanceRecord
// @Failure 401 {object} map[string]string
// @Router /attendance/check-in [post]
func CheckIn(ctx *gin.Context) {
	recordAttendance(ctx, models.AttendanceCheckIn)
}

// CheckOut records a check-out event for the authenticated user
// @Summary Check out
// @Tags attendance
// @Accept json
// @Produce json
// @Param body body AttendanceRequest false "Optional note"
// @Security BearerAuth
// @Success 201 {object} models.AttendanceRecord
// @Failure 401 {object} map[string]string
// @Router /attendance/check-out [post]
func CheckOut(ctx *gin.Context) {
	recordAttendance(ctx, models.AttendanceCheckOut)
}

// GetAttendanceRecords retrieves attendance events with filters and pagination
// @Summary Get attendance records
// @Tags attendance
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param filters[user_id] query string false "Filter by user ID"
// @Param filters[type] query string false "Filter by record type"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /attendance [get]
func GetAttendanceRecords(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)
	role := ctx.GetString("userRole")

	db := database.GetDB()

	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"type": "type",
	}
	if isReviewerRole(role) {
		allowedFilters["user_id"] = "user_id"
	}

	allowedSortFields := map[string]string{
		"recorded_at": "recorded_at",
		"created_at":  "created_at",
	}

	baseQuery := db.Model(&models.AttendanceRecord{})
	baseQuery = applyVisibilityScope(db, baseQuery, role, userID, "user_id")
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	baseQuery = query.ApplyDateRange(baseQuery, "recorded_at", params.From, params.To)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count attendance records"})
		return
	}

	if params.Sort.Field == "" {
		params.Sort.Field = "recorded_at"
		params.Sort.Order = "desc"
	}
	baseQuery = query.ApplySort(baseQuery, params.Sort, allowedSortFields)
	baseQuery = query.ApplyPagination(baseQuery, params.Page, params.Limit)

	var records []models.AttendanceRecord
	if err := baseQuery.Find(&records).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attendance records"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       records,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// dayKey groups attendance events per user per calendar day.
type dayKey struct {
	userID uuid.UUID
	day    string
}

// pairAttendanceDays collapses raw events into one row per user per day,
// pairing the first check_in with the last check_out.
func pairAttendanceDays(records []models.AttendanceRecord, profiles map[uuid.UUID]models.Profile) []export.AttendanceRow {
	type dayAgg struct {
		checkIn  *time.Time
		checkOut *time.Time
		notes    []string
	}

	days := make(map[dayKey]*dayAgg)
	for i := range records {
		rec := records[i]
		key := dayKey{userID: rec.UserID, day: rec.RecordedAt.Format("2006-01-02")}
		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{}
			days[key] = agg
		}
		at := rec.RecordedAt
		switch rec.Type {
		case models.AttendanceCheckIn:
			if agg.checkIn == nil || at.Before(*agg.checkIn) {
				agg.checkIn = &at
			}
		case models.AttendanceCheckOut:
			if agg.checkOut == nil || at.After(*agg.checkOut) {
				agg.checkOut = &at
			}
		}
		if rec.Note != "" {
			agg.notes = append(agg.notes, rec.Note)
		}
	}

	rows := make([]export.AttendanceRow, 0, len(days))
	for key, agg := range days {
		profile := profiles[key.userID]
		row := export.AttendanceRow{
			EmployeeName: profile.FullName,
			Email:        profile.Email,
			Date:         key.day,
			CheckIn:      agg.checkIn,
			CheckOut:     agg.checkOut,
		}
		if agg.checkIn != nil && agg.checkOut != nil && agg.checkOut.After(*agg.checkIn) {
			row.HoursWorked = agg.checkOut.Sub(*agg.checkIn).Hours()
		}
		if len(agg.notes) > 0 {
			row.Notes = agg.notes[0]
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Email < rows[j].Email
	})

	return rows
}

// ExportAttendance exports attendance as a CSV report
// @Summary Export attendance report
// @Description Export paired daily attendance as CSV for the requested date range
// @Tags attendance
// @Produce text/csv
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param filters[user_id] query string false "Filter by user ID"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 500 {object} map[string]string
// @Router /attendance/export [get]
func ExportAttendance(ctx *gin.Context) {
	db := database.GetDB()

	params := query.ParseQueryParams(ctx)

	baseQuery := db.Model(&models.AttendanceRecord{})
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, map[string]string{"user_id": "user_id"})
	baseQuery = query.ApplyDateRange(baseQuery, "recorded_at", params.From, params.To)

	var records []models.AttendanceRecord
	if err := baseQuery.Order("recorded_at ASC").Find(&records).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attendance records"})
		return
	}

	userIDs := make([]uuid.UUID, 0, len(records))
	seen := make(map[uuid.UUID]bool)
	for _, rec := range records {
		if !seen[rec.UserID] {
			seen[rec.UserID] = true
			userIDs = append(userIDs, rec.UserID)
		}
	}

	profiles := make(map[uuid.UUID]models.Profile, len(userIDs))
	if len(userIDs) > 0 {
		var list []models.Profile
		if err := db.Where("id IN ?", userIDs).Find(&list).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profiles"})
			return
		}
		for _, p := range list {
			profiles[p.ID] = p
		}
	}

	data, err := export.AttendanceCSV(pairAttendanceDays(records, profiles))
	if err != nil {
		log.Printf("❌ Failed to build attendance export: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("attendance_%s.csv", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, "text/csv", data)
}
