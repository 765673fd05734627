package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/utils/query"
)

// CreateOrganizationRequest represents request body for creating an organization
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateOrganizationRequest represents request body for updating an organization
type UpdateOrganizationRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// GetOrganizations retrieves all organizations
// @Summary Get all organizations
// @Description Get all organizations with pagination and search
// @Tags organizations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /organizations [get]
func GetOrganizations(ctx *gin.Context) {
	db := database.GetDB()
	params := query.ParseQueryParams(ctx)

	allowedSortFields := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}

	baseQuery := db.Model(&models.Organization{})
	searchedQuery := query.ApplySearch(baseQuery, params.Search, []string{"name", "slug"})

	var total int64
	searchedQuery.Count(&total)

	finalQuery := query.ApplySort(searchedQuery, params.Sort, allowedSortFields)
	finalQuery = query.ApplyPagination(finalQuery, params.Page, params.Limit)

	var organizations []models.Organization
	if err := finalQuery.Find(&organizations).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organizations"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       organizations,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GetOrganization retrieves a single organization
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string
// @Router /organizations/{id} [get]
func GetOrganization(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	db := database.GetDB()
	var organization models.Organization
	if err := db.Where("id = ?", id).First(&organization).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	ctx.JSON(http.StatusOK, organization)
}

// CreateOrganization creates a new organization
// @Summary Create organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body CreateOrganizationRequest true "Organization data"
// @Security BearerAuth
// @Success 201 {object} models.Organization
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /organizations [post]
func CreateOrganization(ctx *gin.Context) {
	var req CreateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	var existing models.Organization
	if err := db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Organization slug already in use"})
		return
	}

	organization := models.Organization{
		Name:   req.Name,
		Slug:   slug,
		Status: "ACTIVE",
	}
	if err := db.Create(&organization).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	ctx.JSON(http.StatusCreated, organization)
}

// UpdateOrganization updates an organization
// @Summary Update organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param organization body UpdateOrganizationRequest true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Organization
// @Failure 404 {object} map[string]string
// @Router /organizations/{id} [put]
func UpdateOrganization(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	var req UpdateOrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	var organization models.Organization
	if err := db.Where("id = ?", id).First(&organization).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if req.Name != "" {
		organization.Name = req.Name
	}
	if req.Status != "" {
		organization.Status = req.Status
	}

	if err := db.Save(&organization).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		return
	}

	ctx.JSON(http.StatusOK, organization)
}

// DeleteOrganization deletes an organization
// @Summary Delete organization
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /organizations/{id} [delete]
func DeleteOrganization(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	db := database.GetDB()

	var memberCount int64
	db.Model(&models.Membership{}).Where("organization_id = ?", id).Count(&memberCount)
	if memberCount > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Organization still has members"})
		return
	}

	if err := db.Delete(&models.Organization{}, "id = ?", id).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete organization"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
