package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/utils/export"
	"staffhub-backend/shared/utils/query"
)

// SalaryRequest represents request body for creating or updating a salary record
type SalaryRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	Month      string    `json:"month" binding:"required" example:"2025-06"`
	BaseSalary float64   `json:"base_salary" binding:"required"`
	Bonus      float64   `json:"bonus"`
	Deductions float64   `json:"deductions"`
	Notes      string    `json:"notes"`
}

func validateSalaryMonth(month string) error {
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	return nil
}

// monthHoursWorked sums paired daily attendance hours for a user in a month.
func monthHoursWorked(db *gorm.DB, userID uuid.UUID, month string) (float64, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, err
	}
	end := start.AddDate(0, 1, 0)

	var records []models.AttendanceRecord
	if err := db.Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, start, end).
		Order("recorded_at ASC").Find(&records).Error; err != nil {
		return 0, err
	}

	rows := pairAttendanceDays(records, map[uuid.UUID]models.Profile{})
	var total float64
	for _, row := range rows {
		total += row.HoursWorked
	}
	return total, nil
}

// GetSalaries lists salary records with filtering and pagination
// @Summary Get salaries
// @Tags salaries
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param filters[user_id] query string false "Filter by user ID"
// @Param filters[month] query string false "Filter by month (YYYY-MM)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /salaries [get]
func GetSalaries(ctx *gin.Context) {
	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"user_id": "user_id",
		"month":   "month",
	}

	allowedSortFields := map[string]string{
		"month":        "month",
		"total_salary": "total_salary",
		"created_at":   "created_at",
	}

	baseQuery := db.Model(&models.Salary{})
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, allowedFilters)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count salaries"})
		return
	}

	if params.Sort.Field == "" {
		params.Sort.Field = "month"
		params.Sort.Order = "desc"
	}
	baseQuery = query.ApplySort(baseQuery, params.Sort, allowedSortFields)
	baseQuery = query.ApplyPagination(baseQuery, params.Page, params.Limit)

	var salaries []models.Salary
	if err := baseQuery.Preload("User").Find(&salaries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve salaries"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       salaries,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// CreateSalary creates a salary record for a user and month
// @Summary Create salary record
// @Description Create a payroll record. Hours worked are aggregated from attendance.
// @Tags salaries
// @Accept json
// @Produce json
// @Param salary body SalaryRequest true "Salary data"
// @Security BearerAuth
// @Success 201 {object} models.Salary
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /salaries [post]
func CreateSalary(ctx *gin.Context) {
	var req SalaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateSalaryMonth(req.Month); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var existing models.Salary
	err := db.Where("user_id = ? AND month = ?", req.UserID, req.Month).First(&existing).Error
	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Salary record already exists for this user and month"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing salary"})
		return
	}

	hours, err := monthHoursWorked(db, req.UserID, req.Month)
	if err != nil {
		log.Printf("⚠️ Failed to aggregate hours for user %s month %s: %v", req.UserID, req.Month, err)
	}

	salary := models.Salary{
		UserID:      req.UserID,
		Month:       req.Month,
		BaseSalary:  req.BaseSalary,
		Bonus:       req.Bonus,
		Deductions:  req.Deductions,
		TotalSalary: req.BaseSalary + req.Bonus - req.Deductions,
		HoursWorked: hours,
		Notes:       req.Notes,
	}

	if err := db.Create(&salary).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create salary record"})
		return
	}

	ctx.JSON(http.StatusCreated, salary)
}

// UpdateSalary updates a salary record and recomputes the total
// @Summary Update salary record
// @Tags salaries
// @Accept json
// @Produce json
// @Param id path string true "Salary ID"
// @Param salary body SalaryRequest true "Salary data"
// @Security BearerAuth
// @Success 200 {object} models.Salary
// @Failure 404 {object} map[string]string
// @Router /salaries/{id} [put]
func UpdateSalary(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salary ID"})
		return
	}

	var req SalaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateSalaryMonth(req.Month); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var salary models.Salary
	if err := db.Where("id = ?", id).First(&salary).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Salary record not found"})
		return
	}

	salary.BaseSalary = req.BaseSalary
	salary.Bonus = req.Bonus
	salary.Deductions = req.Deductions
	salary.TotalSalary = req.BaseSalary + req.Bonus - req.Deductions
	salary.Notes = req.Notes

	if salary.Month != req.Month {
		salary.Month = req.Month
		hours, err := monthHoursWorked(db, salary.UserID, req.Month)
		if err == nil {
			salary.HoursWorked = hours
		}
	}

	if err := db.Save(&salary).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update salary record"})
		return
	}

	ctx.JSON(http.StatusOK, salary)
}

// DeleteSalary deletes a salary record
// @Summary Delete salary record
// @Tags salaries
// @Produce json
// @Param id path string true "Salary ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /salaries/{id} [delete]
func DeleteSalary(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid salary ID"})
		return
	}

	if err := database.GetDB().Delete(&models.Salary{}, "id = ?", id).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete salary record"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ExportSalaries exports salary records as an XLSX report
// @Summary Export salary report
// @Tags salaries
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param filters[month] query string false "Filter by month (YYYY-MM)"
// @Param filters[user_id] query string false "Filter by user ID"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 500 {object} map[string]string
// @Router /salaries/export [get]
func ExportSalaries(ctx *gin.Context) {
	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	baseQuery := db.Model(&models.Salary{})
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, map[string]string{
		"user_id": "user_id",
		"month":   "month",
	})

	var salaries []models.Salary
	if err := baseQuery.Preload("User").
		Order("month ASC, created_at ASC").Find(&salaries).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve salaries"})
		return
	}

	rows := make([]export.SalaryRow, 0, len(salaries))
	for _, s := range salaries {
		rows = append(rows, export.SalaryRow{
			EmployeeName: s.User.FullName,
			Email:        s.User.Email,
			Month:        s.Month,
			BaseSalary:   s.BaseSalary,
			Bonus:        s.Bonus,
			Deductions:   s.Deductions,
			Total:        s.TotalSalary,
			HoursWorked:  s.HoursWorked,
			Notes:        s.Notes,
		})
	}

	data, err := export.SalaryReportXLSX(rows)
	if err != nil {
		log.Printf("❌ Failed to build salary export: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("salaries_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
