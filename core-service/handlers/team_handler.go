package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/utils/query"
)

// CreateTeamRequest represents request body for creating a team
type CreateTeamRequest struct {
	Name           string     `json:"name" binding:"required"`
	Description    string     `json:"description"`
	LeaderID       *uuid.UUID `json:"leader_id"`
	OrganizationID *uuid.UUID `json:"organization_id"`
}

// UpdateTeamRequest represents request body for updating a team
type UpdateTeamRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LeaderID    *uuid.UUID `json:"leader_id"`
}

// GetTeams retrieves all teams
// @Summary Get all teams
// @Description Get all teams with pagination and search
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /teams [get]
func GetTeams(ctx *gin.Context) {
	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	allowedFilters := map[string]string{
		"organization_id": "organization_id",
		"leader_id":       "leader_id",
	}
	allowedSortFields := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}

	baseQuery := db.Model(&models.Team{}).Preload("Organization")
	filteredQuery := query.ApplyFilters(baseQuery, params.Filters, allowedFilters)
	searchedQuery := query.ApplySearch(filteredQuery, params.Search, []string{"name", "description"})

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var teams []models.Team
	if err := finalQuery.Find(&teams).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve teams"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       teams,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GetTeam retrieves a single team with its members
// @Summary Get team by ID
// @Description Get a team and the profiles assigned to it
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /teams/{id} [get]
func GetTeam(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	db := database.GetDB()
	var team models.Team
	if err := db.Preload("Organization").Where("id = ?", id).First(&team).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	var members []models.Profile
	if err := db.Where("team_id = ?", id).Find(&members).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team members"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"team":    team,
		"members": members,
	})
}

// CreateTeam creates a new team
// @Summary Create team
// @Tags teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team data"
// @Security BearerAuth
// @Success 201 {object} models.Team
// @Failure 400 {object} map[string]string
// @Router /teams [post]
func CreateTeam(ctx *gin.Context) {
	var req CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	team := models.Team{
		Name:           req.Name,
		Description:    req.Description,
		LeaderID:       req.LeaderID,
		OrganizationID: req.OrganizationID,
	}

	if err := db.Create(&team).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	ctx.JSON(http.StatusCreated, team)
}

// UpdateTeam updates a team
// @Summary Update team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Team
// @Failure 404 {object} map[string]string
// @Router /teams/{id} [put]
func UpdateTeam(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req UpdateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var team models.Team
	if err := db.Where("id = ?", id).First(&team).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != "" {
		team.Description = req.Description
	}
	if req.LeaderID != nil {
		team.LeaderID = req.LeaderID
	}

	if err := db.Save(&team).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// DeleteTeam deletes a team and unassigns its members
// @Summary Delete team
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /teams/{id} [delete]
func DeleteTeam(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	db := database.GetDB()

	// Members keep their profiles, only the assignment is cleared
	if err := db.Model(&models.Profile{}).Where("team_id = ?", id).
		Update("team_id", nil).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign team members"})
		return
	}

	if err := db.Delete(&models.Team{}, "id = ?", id).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
