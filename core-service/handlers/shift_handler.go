package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
)

// ShiftRequest represents request body for creating or updating a shift
type ShiftRequest struct {
	Name           string     `json:"name" binding:"required"`
	StartTime      string     `json:"start_time" binding:"required" example:"08:00"`
	EndTime        string     `json:"end_time" binding:"required" example:"16:00"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

func validateShiftTimes(start, end string) error {
	for _, value := range []string{start, end} {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("invalid time %q, expected HH:MM", value)
		}
	}
	return nil
}

// GetShifts retrieves all shifts
// @Summary Get all shifts
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /shifts [get]
func GetShifts(ctx *gin.Context) {
	db := database.GetDB()

	var shifts []models.Shift
	if err := db.Order("start_time ASC").Find(&shifts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve shifts"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": shifts})
}

// CreateShift creates a new shift
// @Summary Create shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param shift body ShiftRequest true "Shift data"
// @Security BearerAuth
// @Success 201 {object} models.Shift
// @Failure 400 {object} map[string]string
// @Router /shifts [post]
func CreateShift(ctx *gin.Context) {
	var req ShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateShiftTimes(req.StartTime, req.EndTime); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	shift := models.Shift{
		Name:           req.Name,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		OrganizationID: req.OrganizationID,
	}

	if err := db.Create(&shift).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shift"})
		return
	}

	ctx.JSON(http.StatusCreated, shift)
}

// UpdateShift updates a shift
// @Summary Update shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param shift body ShiftRequest true "Shift data"
// @Security BearerAuth
// @Success 200 {object} models.Shift
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /shifts/{id} [put]
func UpdateShift(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID"})
		return
	}

	var req ShiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateShiftTimes(req.StartTime, req.EndTime); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var shift models.Shift
	if err := db.Where("id = ?", id).First(&shift).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return
	}

	shift.Name = req.Name
	shift.StartTime = req.StartTime
	shift.EndTime = req.EndTime
	if req.OrganizationID != nil {
		shift.OrganizationID = req.OrganizationID
	}

	if err := db.Save(&shift).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shift"})
		return
	}

	ctx.JSON(http.StatusOK, shift)
}

// DeleteShift deletes a shift and unassigns its members
// @Summary Delete shift
// @Tags shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /shifts/{id} [delete]
func DeleteShift(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shift ID"})
		return
	}

	db := database.GetDB()

	if err := db.Model(&models.Profile{}).Where("shift_id = ?", id).
		Update("shift_id", nil).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign shift members"})
		return
	}

	if err := db.Delete(&models.Shift{}, "id = ?", id).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shift"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
