package controllers

import (
	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/services"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileRequest holds the editable profile fields
type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	DateOfBirth   *string `json:"dateOfBirth"`
	About         *string `json:"about"`
	ContactNumber *string `json:"contactNumber"`
	Gender        *string `json:"gender"`
}

// EnrolledCourse is a course with the caller's progress through it
type EnrolledCourse struct {
	models.Course
	TotalDuration      string  `json:"totalDuration"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// CourseStats summarizes one course on the instructor dashboard
type CourseStats struct {
	ID                    uint   `json:"_id"`
	CourseName            string `json:"courseName"`
	CourseDescription     string `json:"courseDescription"`
	TotalStudentsEnrolled int64  `json:"totalStudentsEnrolled"`
	TotalAmountGenerated  int64  `json:"totalAmountGenerated"`
}

// GetUserDetails returns the current user
func (ctrl *Controller) GetUserDetails(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	utils.Success(c, "User Data fetched successfully", user)
}

// UpdateProfile changes the profile fields present in the body
func (ctrl *Controller) UpdateProfile(c *gin.Context) {
	utils.LogInfo("UpdateProfile called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		if valid, msg := utils.ValidateName(*req.FirstName); !valid {
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
		updates["first_name"] = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		if valid, msg := utils.ValidateName(*req.LastName); !valid {
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
		updates["last_name"] = utils.SanitizeString(*req.LastName)
	}
	if req.ContactNumber != nil && *req.ContactNumber != "" {
		phone, err := utils.FormatPhoneNumber(*req.ContactNumber)
		if err != nil {
			utils.BadRequest(c, "Invalid contact number", err.Error())
			return
		}
		updates["contact_number"] = phone
	}
	if req.DateOfBirth != nil {
		updates["date_of_birth"] = utils.SanitizeString(*req.DateOfBirth)
	}
	if req.About != nil {
		updates["about"] = utils.SanitizeString(*req.About)
	}
	if req.Gender != nil {
		updates["gender"] = utils.SanitizeString(*req.Gender)
	}

	if len(updates) > 0 {
		if err := ctrl.db(c).Model(&user).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update profile of user %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update profile", nil)
			return
		}
	}

	var updated models.User
	if err := ctrl.db(c).First(&updated, user.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile", nil)
		return
	}
	utils.LogInfo("Profile updated for user %d", user.ID)
	utils.Success(c, "Profile updated successfully", updated)
}

// UpdateDisplayPicture replaces the profile image with an upload
func (ctrl *Controller) UpdateDisplayPicture(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("displayPicture")
	if err != nil {
		utils.BadRequest(c, "No file uploaded", "Please select an image file to upload")
		return
	}
	if err := media.ValidateImageFile(file); err != nil {
		utils.BadRequest(c, "Invalid file type", err.Error())
		return
	}

	upload, err := ctrl.Media.Upload(c.Request.Context(), file, ctrl.Config.MediaFolder)
	if err != nil {
		utils.LogError("Failed to upload display picture of user %d: %v", user.ID, err)
		utils.Error(c, 502, "Failed to upload image", nil)
		return
	}
	if user.ImageID != "" {
		if err := ctrl.Media.Delete(c.Request.Context(), media.ResourceImage, user.ImageID); err != nil {
			utils.LogWarn("Failed to delete old display picture %s: %v", user.ImageID, err)
		}
	}

	if err := ctrl.db(c).Model(&user).Updates(map[string]interface{}{
		"image":    upload.URL,
		"image_id": upload.PublicID,
	}).Error; err != nil {
		utils.LogError("Failed to save display picture of user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update image", nil)
		return
	}

	user.Image = upload.URL
	user.ImageID = upload.PublicID
	utils.Success(c, "Image Updated successfully", user)
}

// DeleteAccount removes the current user with their enrollments and progress.
// Ledger entries are kept.
func (ctrl *Controller) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.AccountType == models.AccountTypeInstructor {
		var owned int64
		ctrl.db(c).Model(&models.Course{}).Where("instructor_id = ?", user.ID).Count(&owned)
		if owned > 0 {
			utils.Conflict(c, "Delete your courses before deleting the account", nil)
			return
		}
	}

	err := ctrl.db(c).Transaction(func(tx *gorm.DB) error {
		progressIDs := tx.Model(&models.CourseProgress{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("course_progress_id IN (?)", progressIDs).Delete(&models.CompletedUnit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RatingAndReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		utils.LogError("Failed to delete account %d: %v", user.ID, err)
		utils.InternalServerError(c, "User Cannot be deleted successfully", nil)
		return
	}

	utils.LogInfo("Account deleted: %s (ID: %d)", user.Email, user.ID)
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.Success(c, "User deleted successfully", nil)
}

// GetEnrolledCourses lists the courses of the current user with progress
func (ctrl *Controller) GetEnrolledCourses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	courses, err := ctrl.Enrollment.EnrolledCourses(ctx, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	out := make([]EnrolledCourse, 0, len(courses))
	for _, course := range courses {
		completed := 0
		if progress, err := ctrl.Progress.Get(ctx, course.ID, user.ID); err == nil {
			completed = len(progress.CompletedUnits)
		}
		out = append(out, EnrolledCourse{
			Course:             course,
			TotalDuration:      utils.ConvertSecondsToDuration(course.TotalDurationSeconds()),
			ProgressPercentage: services.Percentage(completed, course.TotalSubSections()),
		})
	}

	utils.Success(c, "Enrolled courses fetched successfully", out)
}

// GetPaymentHistory lists the ledger entries of the current user
func (ctrl *Controller) GetPaymentHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	payments, err := ctrl.Ledger.ListByUser(c.Request.Context(), user.ID, pagination)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, "Payment history fetched successfully", payments, pagination)
}

// InstructorDashboard reports students and income per course of the instructor
func (ctrl *Controller) InstructorDashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var courses []models.Course
	if err := ctrl.db(c).Where("instructor_id = ?", user.ID).Order("id ASC").Find(&courses).Error; err != nil {
		utils.LogError("Failed to load courses of instructor %d: %v", user.ID, err)
		utils.InternalServerError(c, "Server Error", nil)
		return
	}

	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}

	ctx := c.Request.Context()
	students, err := ctrl.Enrollment.StudentCounts(ctx, ids)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	income, err := ctrl.Ledger.IncomeByCourse(ctx, ids)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	stats := make([]CourseStats, 0, len(courses))
	for _, course := range courses {
		stats = append(stats, CourseStats{
			ID:                    course.ID,
			CourseName:            course.CourseName,
			CourseDescription:     course.CourseDescription,
			TotalStudentsEnrolled: students[course.ID],
			TotalAmountGenerated:  income[course.ID],
		})
	}
	utils.Success(c, "Instructor dashboard fetched successfully", stats)
}

// listUsers returns one page of users with the given account type
func (ctrl *Controller) listUsers(c *gin.Context, accountType, message string) {
	pagination := utils.NewPagination(c)
	db := ctrl.db(c).Model(&models.User{}).Where("account_type = ?", accountType).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.LogError("Failed to count %s users: %v", accountType, err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	pagination.SetTotal(total)

	var users []models.User
	if err := pagination.Scope(db.Order("id ASC")).Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch %s users: %v", accountType, err)
		utils.InternalServerError(c, "Failed to fetch users", nil)
		return
	}
	utils.SuccessWithPagination(c, message, users, pagination)
}

// GetAllStudents lists students (Admin)
func (ctrl *Controller) GetAllStudents(c *gin.Context) {
	ctrl.listUsers(c, models.AccountTypeStudent, "All students fetched successfully")
}

// GetAllInstructors lists instructors (Admin)
func (ctrl *Controller) GetAllInstructors(c *gin.Context) {
	ctrl.listUsers(c, models.AccountTypeInstructor, "All instructors fetched successfully")
}
