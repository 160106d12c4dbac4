package controllers

import (
	"errors"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RatingRequest represents the create rating request body
type RatingRequest struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Review   string `json:"review"`
}

// CourseIDQuery carries a course id in the query string or body
type CourseIDQuery struct {
	CourseID uint `form:"courseId" json:"courseId"`
}

// CreateRating stores the current student's rating for a course they are
// enrolled in (Student)
func (ctrl *Controller) CreateRating(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Course ID and a rating between 1 and 5 are required", err.Error())
		return
	}
	if valid, msg := utils.ValidateXSS(req.Review); !valid {
		utils.BadRequest(c, "Invalid input", msg)
		return
	}
	if err := utils.ValidateStringLength(req.Review, 0, 2000); err != nil {
		utils.BadRequest(c, "Invalid review", err.Error())
		return
	}

	enrolled, err := ctrl.Enrollment.IsEnrolled(c.Request.Context(), user.ID, req.CourseID)
	if err != nil {
		utils.LogError("Failed to check enrollment of user %d in course %d: %v", user.ID, req.CourseID, err)
		utils.InternalServerError(c, "Error while creating rating", nil)
		return
	}
	if !enrolled {
		utils.Forbidden(c, "Student is not enrolled in this course")
		return
	}

	rating := models.RatingAndReview{
		UserID:   user.ID,
		CourseID: req.CourseID,
		Rating:   req.Rating,
		Review:   utils.SanitizeString(req.Review),
	}
	if err := ctrl.db(c).Create(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "Course already reviewed by user", nil)
			return
		}
		utils.LogError("Failed to create rating for course %d by user %d: %v", req.CourseID, user.ID, err)
		utils.InternalServerError(c, "Error while creating rating", nil)
		return
	}

	utils.LogInfo("User %d rated course %d with %d", user.ID, req.CourseID, req.Rating)
	utils.Created(c, "Rating and review created successfully", rating)
}

// GetAverageRating returns the mean rating of a course, 0 when it has none
func (ctrl *Controller) GetAverageRating(c *gin.Context) {
	var req CourseIDQuery
	_ = c.ShouldBindQuery(&req)
	if req.CourseID == 0 && c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	if req.CourseID == 0 {
		utils.BadRequest(c, "Course ID is required", nil)
		return
	}

	var result struct {
		Average float64
		Count   int64
	}
	if err := ctrl.db(c).Model(&models.RatingAndReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(id) AS count").
		Where("course_id = ?", req.CourseID).
		Scan(&result).Error; err != nil {
		utils.LogError("Failed to compute average rating for course %d: %v", req.CourseID, err)
		utils.InternalServerError(c, "Error while fetching average rating", nil)
		return
	}

	utils.Success(c, "Average rating fetched successfully", gin.H{
		"averageRating": result.Average,
		"count":         result.Count,
	})
}

// GetReviews lists every review, highest rated first
func (ctrl *Controller) GetReviews(c *gin.Context) {
	var reviews []models.RatingAndReview
	err := ctrl.db(c).
		Preload("User").
		Preload("Course", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "course_name")
		}).
		Order("rating DESC, id ASC").
		Find(&reviews).Error
	if err != nil {
		utils.LogError("Failed to fetch reviews: %v", err)
		utils.InternalServerError(c, "Error while fetching reviews", nil)
		return
	}

	utils.LogDebug("Found %d reviews", len(reviews))
	utils.Success(c, "All reviews fetched successfully", reviews)
}
