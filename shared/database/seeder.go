package database

import (
	"log"
	"time"

	"staffhub-backend/shared/config"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/auth"
	utils "staffhub-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with initial data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	// Seed default organization
	org, orgCreated, err := seedDefaultOrganization()
	if err != nil {
		return err
	}

	// Seed default shifts
	shiftsCreated, err := seedDefaultShifts(org)
	if err != nil {
		return err
	}

	if orgCreated || shiftsCreated > 0 {
		log.Printf("✅ Database seeding completed (org created: %v, %d shifts created)", orgCreated, shiftsCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	// Create bootstrap admin from config
	if err := CreateBootstrapAdminFromConfig(org); err != nil {
		return err
	}

	return nil
}

// seedDefaultOrganization creates the default organization if missing
func seedDefaultOrganization() (*models.Organization, bool, error) {
	cfg := config.GetConfig()

	var org models.Organization
	result := DB.Where("slug = ?", cfg.DefaultOrgSlug).First(&org)
	if result.Error == nil {
		return &org, false, nil
	}

	org = models.Organization{
		Name:   cfg.DefaultOrgName,
		Slug:   cfg.DefaultOrgSlug,
		Status: "ACTIVE",
	}
	if err := DB.Create(&org).Error; err != nil {
		return nil, false, err
	}

	log.Printf("📦 Default organization created: %s", org.Name)
	return &org, true, nil
}

// seedDefaultShifts creates the standard working shifts
func seedDefaultShifts(org *models.Organization) (int, error) {
	shifts := []models.Shift{
		{Name: "Morning", StartTime: "08:00", EndTime: "16:00", OrganizationID: &org.ID},
		{Name: "Evening", StartTime: "16:00", EndTime: "00:00", OrganizationID: &org.ID},
		{Name: "Office Hours", StartTime: "09:00", EndTime: "18:00", OrganizationID: &org.ID},
	}

	created := 0
	for _, shift := range shifts {
		var existing models.Shift
		result := DB.Where("name = ? AND organization_id = ?", shift.Name, org.ID).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&shift).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// CreateBootstrapAdminFromConfig ensures an approved admin account exists so
// the approval workflow has a first actor. The account skips the PENDING
// state deliberately; every other account goes through approval.
func CreateBootstrapAdminFromConfig(org *models.Organization) error {
	cfg := config.GetConfig()

	var identity auth.Identity
	if err := DB.Where("email = ?", cfg.BootstrapAdminEmail).First(&identity).Error; err == nil {
		return nil
	}

	hashed, err := utils.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}

	identity = auth.Identity{
		Email:          cfg.BootstrapAdminEmail,
		PasswordHash:   hashed,
		EmailConfirmed: true,
	}
	if err := DB.Create(&identity).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	profile := models.Profile{
		ID:             identity.ID,
		Email:          identity.Email,
		FullName:       cfg.BootstrapAdminName,
		Status:         models.StatusApproved,
		OrganizationID: &org.ID,
		ApprovedAt:     &now,
		ApprovedBy:     &identity.ID,
	}
	if err := DB.Create(&profile).Error; err != nil {
		return err
	}

	membership := models.Membership{
		UserID:         identity.ID,
		OrganizationID: org.ID,
		Role:           models.RoleAdmin,
		IsPrimary:      true,
	}
	if err := DB.Create(&membership).Error; err != nil {
		return err
	}

	log.Printf("👤 Bootstrap admin created: %s", identity.Email)
	return nil
}
