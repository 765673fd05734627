package handlers

import (
	"log"
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

// RoomRequest represents request body for creating or updating a meeting room
type RoomRequest struct {
	Name           string     `json:"name" binding:"required"`
	Location       string     `json:"location"`
	Capacity       int        `json:"capacity"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// BookingRequest represents request body for booking a meeting room
type BookingRequest struct {
	RoomID         uuid.UUID   `json:"room_id" binding:"required"`
	Title          string      `json:"title" binding:"required"`
	StartTime      time.Time   `json:"start_time" binding:"required"`
	EndTime        time.Time   `json:"end_time" binding:"required"`
	GoogleMeetLink string      `json:"google_meet_link"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

// ParticipantResponseRequest represents request body for answering an invite
type ParticipantResponseRequest struct {
	Status string `json:"status" binding:"required"` // joined or declined
}

// GetRooms retrieves all meeting rooms
// @Summary Get meeting rooms
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /rooms [get]
func GetRooms(ctx *gin.Context) {
	db := database.GetDB()

	var rooms []models.MeetingRoom
	if err := db.Order("name ASC").Find(&rooms).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": rooms})
}

// CreateRoom creates a meeting room
// @Summary Create meeting room
// @Tags rooms
// @Accept json
// @Produce json
// @Param room body RoomRequest true "Room data"
// @Security BearerAuth
// @Success 201 {object} models.MeetingRoom
// @Failure 400 {object} map[string]string
// @Router /rooms [post]
func CreateRoom(ctx *gin.Context) {
	var req RoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := models.MeetingRoom{
		Name:           req.Name,
		Location:       req.Location,
		Capacity:       req.Capacity,
		OrganizationID: req.OrganizationID,
	}
	if room.Capacity <= 0 {
		room.Capacity = 4
	}

	if err := database.GetDB().Create(&room).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	ctx.JSON(http.StatusCreated, room)
}

// UpdateRoom updates a meeting room
// @Summary Update meeting room
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param room body RoomRequest true "Room data"
// @Security BearerAuth
// @Success 200 {object} models.MeetingRoom
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [put]
func UpdateRoom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req RoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var room models.MeetingRoom
	if err := db.Where("id = ?", id).First(&room).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	room.Name = req.Name
	room.Location = req.Location
	if req.Capacity > 0 {
		room.Capacity = req.Capacity
	}
	if req.OrganizationID != nil {
		room.OrganizationID = req.OrganizationID
	}

	if err := db.Save(&room).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	ctx.JSON(http.StatusOK, room)
}

// DeleteRoom deletes a meeting room and its bookings
// @Summary Delete meeting room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /rooms/{id} [delete]
func DeleteRoom(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		var bookingIDs []uuid.UUID
		if err := tx.Model(&models.RoomBooking{}).Where("room_id = ?", id).
			Pluck("id", &bookingIDs).Error; err != nil {
			return err
		}
		if len(bookingIDs) > 0 {
			if err := tx.Where("booking_id IN ?", bookingIDs).
				Delete(&models.RoomParticipant{}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_id = ?", id).Delete(&models.RoomBooking{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.MeetingRoom{}, "id = ?", id).Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// GetBookings lists room bookings with date range filtering
// @Summary Get room bookings
// @Tags rooms
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 10)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param filters[room_id] query string false "Filter by room ID"
// @Param filters[user_id] query string false "Filter by organizer ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /bookings [get]
func GetBookings(ctx *gin.Context) {
	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"room_id": "room_id",
		"user_id": "user_id",
	}

	allowedSortFields := map[string]string{
		"start_time": "start_time",
		"created_at": "created_at",
	}

	baseQuery := db.Model(&models.RoomBooking{})
	baseQuery = query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	baseQuery = query.ApplyDateRange(baseQuery, "start_time", params.From, params.To)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bookings"})
		return
	}

	if params.Sort.Field == "" {
		params.Sort.Field = "start_time"
		params.Sort.Order = "asc"
	}
	baseQuery = query.ApplySort(baseQuery, params.Sort, allowedSortFields)
	baseQuery = query.ApplyPagination(baseQuery, params.Page, params.Limit)

	var bookings []models.RoomBooking
	if err := baseQuery.Preload("Room").Find(&bookings).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       bookings,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// CreateBooking books a room and invites participants
// @Summary Create room booking
// @Description Book a meeting room. Overlapping bookings for the same room are rejected.
// @Tags rooms
// @Accept json
// @Produce json
// @Param booking body BookingRequest true "Booking data"
// @Security BearerAuth
// @Success 201 {object} models.RoomBooking
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func CreateBooking(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)

	var req BookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.EndTime.After(req.StartTime) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
		return
	}

	db := database.GetDB()

	var room models.MeetingRoom
	if err := db.Where("id = ?", req.RoomID).First(&room).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var overlapping int64
	if err := db.Model(&models.RoomBooking{}).
		Where("room_id = ? AND start_time < ? AND end_time > ?", req.RoomID, req.EndTime, req.StartTime).
		Count(&overlapping).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room availability"})
		return
	}
	if overlapping > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Room is already booked for this time slot"})
		return
	}

	booking := models.RoomBooking{
		RoomID:         req.RoomID,
		UserID:         userID,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		GoogleMeetLink: req.GoogleMeetLink,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		now := time.Now()
		participants := []models.RoomParticipant{{
			BookingID:   booking.ID,
			UserID:      userID,
			IsOrganizer: true,
			Status:      models.ParticipantJoined,
			JoinedAt:    &now,
		}}
		for _, pid := range req.ParticipantIDs {
			if pid == userID {
				continue
			}
			participants = append(participants, models.RoomParticipant{
				BookingID: booking.ID,
				UserID:    pid,
				Status:    models.ParticipantInvited,
			})
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		log.Printf("❌ Failed to create booking for room %s: %v", req.RoomID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "INSERT", &booking.ID, &userID)

	ctx.JSON(http.StatusCreated, booking)
}

// GetBookingParticipants lists participants of a booking
// @Summary Get booking participants
// @Tags rooms
// @Produce json
// @Param id path string true "Booking ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /bookings/{id}/participants [get]
func GetBookingParticipants(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var participants []models.RoomParticipant
	if err := database.GetDB().Where("booking_id = ?", id).
		Preload("User").Find(&participants).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve participants"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": participants})
}

// RespondToInvite records the authenticated user's answer to a booking invite
// @Summary Respond to booking invite
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param response body ParticipantResponseRequest true "joined or declined"
// @Security BearerAuth
// @Success 200 {object} models.RoomParticipant
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/respond [post]
func RespondToInvite(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req ParticipantResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.ParticipantJoined && req.Status != models.ParticipantDeclined {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status must be joined or declined"})
		return
	}

	db := database.GetDB()
	var participant models.RoomParticipant
	if err := db.Where("booking_id = ? AND user_id = ?", id, userID).
		First(&participant).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		return
	}

	participant.Status = req.Status
	if req.Status == models.ParticipantJoined {
		now := time.Now()
		participant.JoinedAt = &now
	} else {
		participant.JoinedAt = nil
	}

	if err := db.Save(&participant).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invite"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "UPDATE", &id, &userID)

	ctx.JSON(http.StatusOK, participant)
}

// InviteRequest represents request body for inviting a user to a booking
type InviteRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// UpdateBookingRequest represents request body for updating a booking
type UpdateBookingRequest struct {
	Title          string     `json:"title"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	GoogleMeetLink *string    `json:"google_meet_link"`
}

func loadBookingForOrganizer(ctx *gin.Context) (*models.RoomBooking, bool) {
	userID := ctx.MustGet("userID").(uuid.UUID)
	role := ctx.GetString("userRole")

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return nil, false
	}

	var booking models.RoomBooking
	if err := database.GetDB().Where("id = ?", id).First(&booking).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return nil, false
	}

	if booking.UserID != userID && !isReviewerRole(role) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can modify this booking"})
		return nil, false
	}

	return &booking, true
}

// InviteParticipant invites a user to an existing booking
// @Summary Invite booking participant
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param invite body InviteRequest true "User to invite"
// @Security BearerAuth
// @Success 201 {object} models.RoomParticipant
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/participants [post]
func InviteParticipant(ctx *gin.Context) {
	booking, ok := loadBookingForOrganizer(ctx)
	if !ok {
		return
	}

	var req InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var existing int64
	if err := db.Model(&models.RoomParticipant{}).
		Where("booking_id = ? AND user_id = ?", booking.ID, req.UserID).
		Count(&existing).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check participants"})
		return
	}
	if existing > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a participant"})
		return
	}

	participant := models.RoomParticipant{
		BookingID: booking.ID,
		UserID:    req.UserID,
		Status:    models.ParticipantInvited,
	}
	if err := db.Create(&participant).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite participant"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "UPDATE", &booking.ID, &req.UserID)

	ctx.JSON(http.StatusCreated, participant)
}

// RemoveParticipant removes a participant from a booking
// @Summary Remove booking participant
// @Tags rooms
// @Produce json
// @Param id path string true "Booking ID"
// @Param user_id path string true "Participant user ID"
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/participants/{user_id} [delete]
func RemoveParticipant(ctx *gin.Context) {
	booking, ok := loadBookingForOrganizer(ctx)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(ctx.Param("user_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if targetID == booking.UserID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "The organizer cannot be removed"})
		return
	}

	result := database.GetDB().Where("booking_id = ? AND user_id = ?", booking.ID, targetID).
		Delete(&models.RoomParticipant{})
	if result.Error != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove participant"})
		return
	}
	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "UPDATE", &booking.ID, &targetID)

	ctx.Status(http.StatusNoContent)
}

// UpdateBooking updates a booking's title, time slot or meet link
// @Summary Update room booking
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param booking body UpdateBookingRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.RoomBooking
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [put]
func UpdateBooking(ctx *gin.Context) {
	booking, ok := loadBookingForOrganizer(ctx)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	if req.Title != "" {
		booking.Title = req.Title
	}
	if req.GoogleMeetLink != nil {
		booking.GoogleMeetLink = *req.GoogleMeetLink
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}

	if !booking.EndTime.After(booking.StartTime) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
		return
	}

	if req.StartTime != nil || req.EndTime != nil {
		var overlapping int64
		if err := db.Model(&models.RoomBooking{}).
			Where("room_id = ? AND id <> ? AND start_time < ? AND end_time > ?",
				booking.RoomID, booking.ID, booking.EndTime, booking.StartTime).
			Count(&overlapping).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room availability"})
			return
		}
		if overlapping > 0 {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Room is already booked for this time slot"})
			return
		}
	}

	if err := db.Save(booking).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "UPDATE", &booking.ID, &booking.UserID)

	ctx.JSON(http.StatusOK, booking)
}

// DeleteBooking cancels a booking. Only the organizer, admin or hr may cancel.
// @Summary Cancel room booking
// @Tags rooms
// @Produce json
// @Param id path string true "Booking ID"
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [delete]
func DeleteBooking(ctx *gin.Context) {
	userID := ctx.MustGet("userID").(uuid.UUID)
	role := ctx.GetString("userRole")

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	db := database.GetDB()
	var booking models.RoomBooking
	if err := db.Where("id = ?", id).First(&booking).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.UserID != userID && !isReviewerRole(role) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the organizer can cancel this booking"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&models.RoomParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&booking).Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	notifier().PublishChange(notification.EntityRoomBookings, "DELETE", &id, &userID)

	ctx.Status(http.StatusNoContent)
}
