package controllers

import (
	"errors"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryRequest represents the create category request body
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CategoryIDRequest carries a category id in the body
type CategoryIDRequest struct {
	CategoryID uint `json:"categoryId" binding:"required"`
}

func publishedCourses(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.CourseStatusPublished).Order("id ASC")
}

// CreateCategory adds a category (Admin)
func (ctrl *Controller) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "All fields are required", err.Error())
		return
	}

	if valid, msg := utils.ValidateXSS(req.Name); !valid {
		utils.BadRequest(c, "Invalid input", msg)
		return
	}
	if err := utils.ValidateStringLength(req.Name, 2, 50); err != nil {
		utils.BadRequest(c, "Invalid category name", err.Error())
		return
	}

	category := models.Category{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
	}
	if err := ctrl.db(c).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Category already exists", nil)
			return
		}
		utils.LogError("Failed to create category %s: %v", req.Name, err)
		utils.InternalServerError(c, "Error while creating category", nil)
		return
	}

	utils.LogInfo("Category created: %s (ID: %d)", category.Name, category.ID)
	utils.Success(c, "Category created successfully", category)
}

// ShowAllCategories lists every category
func (ctrl *Controller) ShowAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := ctrl.db(c).Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Error while fetching all categories", nil)
		return
	}
	utils.Success(c, "All categories fetched successfully", categories)
}

// CategoryPageDetails returns the published courses of a category, one other
// category with its courses, and the best selling courses overall
func (ctrl *Controller) CategoryPageDetails(c *gin.Context) {
	var req CategoryIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Category ID is required", err.Error())
		return
	}

	db := ctrl.db(c)
	var selected models.Category
	if err := db.Preload("Courses", publishedCourses).First(&selected, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Category not found")
			return
		}
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}
	if len(selected.Courses) == 0 {
		utils.NotFound(c, "No courses found for the selected category.")
		return
	}

	var different *models.Category
	var other models.Category
	err := db.Preload("Courses", publishedCourses).
		Where("id <> ?", selected.ID).
		Order("RANDOM()").
		First(&other).Error
	if err == nil {
		different = &other
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Failed to load other category: %v", err)
	}

	var mostSelling []models.Course
	if err := db.Model(&models.Course{}).
		Select("courses.*, COUNT(enrollments.id) AS sold").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Where("courses.status = ?", models.CourseStatusPublished).
		Group("courses.id").
		Order("sold DESC, courses.id ASC").
		Limit(10).
		Preload("Instructor").
		Find(&mostSelling).Error; err != nil {
		utils.LogError("Failed to load most selling courses: %v", err)
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}

	utils.Success(c, "Category page details fetched successfully", gin.H{
		"selectedCategory":   selected,
		"differentCategory":  different,
		"mostSellingCourses": mostSelling,
	})
}

// DeleteCategory removes an empty category (Admin)
func (ctrl *Controller) DeleteCategory(c *gin.Context) {
	var req CategoryIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Category ID is required", err.Error())
		return
	}

	var count int64
	ctrl.db(c).Model(&models.Course{}).Where("category_id = ?", req.CategoryID).Count(&count)
	if count > 0 {
		utils.Conflict(c, "Category still has courses", nil)
		return
	}

	result := ctrl.db(c).Delete(&models.Category{}, req.CategoryID)
	if result.Error != nil {
		utils.LogError("Failed to delete category %d: %v", req.CategoryID, result.Error)
		utils.InternalServerError(c, "Error while deleting category", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Category not found")
		return
	}

	utils.LogInfo("Category deleted: %d", req.CategoryID)
	utils.Success(c, "Category deleted successfully", nil)
}
