package controllers

import (
	"errors"
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"gorm.io/gorm"
)

// CreateSampleAdmin creates the admin account from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD if it does not exist yet
func (ctrl *Controller) CreateSampleAdmin() error {
	utils.LogInfo("CreateSampleAdmin called")

	email := strings.ToLower(strings.TrimSpace(ctrl.Config.SeedAdminEmail))
	if email == "" || ctrl.Config.SeedAdminPassword == "" {
		utils.LogDebug("No seed admin configured")
		return nil
	}

	var existing models.User
	err := ctrl.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		utils.LogDebug("Seed admin already exists: %s", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(ctrl.Config.SeedAdminPassword)
	if err != nil {
		utils.LogError("Failed to hash admin password: %v", err)
		return err
	}

	admin := models.User{
		FirstName:   "Admin",
		LastName:    "LearningEdge",
		Email:       email,
		Password:    hashed,
		AccountType: models.AccountTypeAdmin,
		Image:       "https://api.dicebear.com/5.x/initials/svg?seed=Admin",
	}
	if err := ctrl.DB.Create(&admin).Error; err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		return err
	}
	utils.LogInfo("Successfully created sample admin: %s", admin.Email)
	return nil
}

// CreateDefaultCategory creates a default category if none exists
func (ctrl *Controller) CreateDefaultCategory() error {
	var count int64
	if err := ctrl.DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	utils.LogInfo("No categories found, creating default category")
	return ctrl.DB.Create(&models.Category{
		Name:        "General",
		Description: "Default category for courses",
	}).Error
}
