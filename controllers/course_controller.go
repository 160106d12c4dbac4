package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseIDRequest carries a course id in the body
type CourseIDRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// jsonList validates a JSON array form field, an empty field becomes []
func jsonList(raw string) (datatypes.JSON, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return datatypes.JSON("[]"), nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(normalized), nil
}

// contentPreload orders sections and lessons by creation
func contentPreload(db *gorm.DB) *gorm.DB {
	return db.Preload("Sections", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).Preload("Sections.SubSections", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// loadCourse fetches a course with its instructor, category and content
func (ctrl *Controller) loadCourse(c *gin.Context, courseID uint) (*models.Course, error) {
	var course models.Course
	err := contentPreload(ctrl.db(c)).Preload("Instructor").Preload("Category").First(&course, courseID).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ownedCourse loads a course of the current instructor or writes an error
func (ctrl *Controller) ownedCourse(c *gin.Context, user models.User, courseID uint) (*models.Course, bool) {
	var course models.Course
	if err := ctrl.db(c).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Course not found")
			return nil, false
		}
		utils.InternalServerError(c, "Could not load course", nil)
		return nil, false
	}
	if course.InstructorID != user.ID {
		utils.LogSecurity("User %d tried to modify course %d owned by %d", user.ID, course.ID, course.InstructorID)
		utils.Forbidden(c, "You are not the instructor of this course")
		return nil, false
	}
	return &course, true
}

// CreateCourse creates a course with an uploaded thumbnail (Instructor)
func (ctrl *Controller) CreateCourse(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	courseName := utils.SanitizeString(c.PostForm("courseName"))
	courseDescription := utils.SanitizeString(c.PostForm("courseDescription"))
	whatYouWillLearn := utils.SanitizeString(c.PostForm("whatYouWillLearn"))
	priceRaw := c.PostForm("price")
	categoryID, categoryOK := parseUint(c.PostForm("category"))
	thumbnail, thumbErr := c.FormFile("thumbnailImage")

	if courseName == "" || courseDescription == "" || whatYouWillLearn == "" || priceRaw == "" || !categoryOK || thumbErr != nil {
		utils.BadRequest(c, "All fields are required", nil)
		return
	}

	price, err := strconv.ParseInt(priceRaw, 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid price", "price must be a whole number")
		return
	}
	if err := utils.ValidatePrice(price); err != nil {
		utils.BadRequest(c, "Invalid price", err.Error())
		return
	}

	tag, err := jsonList(c.PostForm("tag"))
	if err != nil {
		utils.BadRequest(c, "Invalid JSON format for tag or instructions", nil)
		return
	}
	instructions, err := jsonList(c.PostForm("instructions"))
	if err != nil {
		utils.BadRequest(c, "Invalid JSON format for tag or instructions", nil)
		return
	}

	status := c.DefaultPostForm("status", models.CourseStatusDraft)
	if status != models.CourseStatusDraft && status != models.CourseStatusPublished {
		status = models.CourseStatusDraft
	}

	var category models.Category
	if err := ctrl.db(c).First(&category, categoryID).Error; err != nil {
		utils.NotFound(c, "Category details not found")
		return
	}

	if err := media.ValidateImageFile(thumbnail); err != nil {
		utils.BadRequest(c, "Invalid thumbnail", err.Error())
		return
	}
	upload, err := ctrl.Media.Upload(c.Request.Context(), thumbnail, ctrl.Config.MediaFolder)
	if err != nil {
		utils.LogError("Failed to upload thumbnail for course %s: %v", courseName, err)
		utils.Error(c, 502, "Failed to upload thumbnail image", nil)
		return
	}

	course := models.Course{
		CourseName:        courseName,
		CourseDescription: courseDescription,
		WhatYouWillLearn:  whatYouWillLearn,
		Price:             price,
		Thumbnail:         upload.URL,
		ThumbnailID:       upload.PublicID,
		Tag:               tag,
		Instructions:      instructions,
		Status:            status,
		InstructorID:      user.ID,
		CategoryID:        category.ID,
	}
	if err := ctrl.db(c).Create(&course).Error; err != nil {
		utils.LogError("Failed to create course %s: %v", courseName, err)
		utils.InternalServerError(c, "Failed to create course in database", nil)
		return
	}

	utils.LogInfo("Course created: %s (ID: %d) by instructor %d", course.CourseName, course.ID, user.ID)
	utils.Created(c, "New course created successfully", course)
}

// GetAllCourses lists published courses
func (ctrl *Controller) GetAllCourses(c *gin.Context) {
	var courses []models.Course
	err := ctrl.db(c).
		Where("status = ?", models.CourseStatusPublished).
		Preload("Instructor").
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		utils.LogError("Failed to fetch courses: %v", err)
		utils.InternalServerError(c, "Error while fetching data of all courses", nil)
		return
	}
	utils.Success(c, "Data for all courses fetched successfully", courses)
}

// GetCourseDetails returns the public view of a course, lesson videos hidden
func (ctrl *Controller) GetCourseDetails(c *gin.Context) {
	var req CourseIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Course ID is required", err.Error())
		return
	}

	course, err := ctrl.loadCourse(c, req.CourseID)
	if err != nil {
		utils.BadRequest(c, "Could not find the course with "+strconv.FormatUint(uint64(req.CourseID), 10), nil)
		return
	}
	for i := range course.Sections {
		for j := range course.Sections[i].SubSections {
			course.Sections[i].SubSections[j].VideoURL = ""
		}
	}

	utils.Success(c, "Fetched course data successfully", gin.H{
		"courseDetails": course,
		"totalDuration": utils.ConvertSecondsToDuration(course.TotalDurationSeconds()),
	})
}

// GetFullCourseDetails returns a course with lesson videos and the caller's
// completed units. Only enrolled students, the owner and admins may see it.
func (ctrl *Controller) GetFullCourseDetails(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CourseIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Course ID is required", err.Error())
		return
	}

	course, err := ctrl.loadCourse(c, req.CourseID)
	if err != nil {
		utils.NotFound(c, "Could not find course with id: "+strconv.FormatUint(uint64(req.CourseID), 10))
		return
	}

	if course.InstructorID != user.ID && user.AccountType != models.AccountTypeAdmin {
		enrolled, err := ctrl.Enrollment.IsEnrolled(c.Request.Context(), user.ID, course.ID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if !enrolled {
			utils.Forbidden(c, "Student is not enrolled in this course")
			return
		}
	}

	completed := []uint{}
	if progress, err := ctrl.Progress.Get(c.Request.Context(), course.ID, user.ID); err == nil {
		completed = progress.UnitIDs()
	}

	utils.Success(c, "Fetched course data successfully", gin.H{
		"courseDetails":  course,
		"totalDuration":  utils.ConvertSecondsToDuration(course.TotalDurationSeconds()),
		"completedUnits": completed,
	})
}

// GetInstructorCourses lists the courses of the current instructor
func (ctrl *Controller) GetInstructorCourses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var courses []models.Course
	if err := contentPreload(ctrl.db(c)).
		Where("instructor_id = ?", user.ID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		utils.LogError("Failed to fetch courses of instructor %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to retrieve instructor courses", nil)
		return
	}
	utils.Success(c, "Courses made by instructor fetched successfully", courses)
}

// EditCourse updates the given fields of a course and optionally its thumbnail
func (ctrl *Controller) EditCourse(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	courseID, ok := parseUint(c.PostForm("courseId"))
	if !ok {
		utils.BadRequest(c, "Course ID is required", nil)
		return
	}
	course, ok := ctrl.ownedCourse(c, user, courseID)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	for field, column := range map[string]string{
		"courseName":        "course_name",
		"courseDescription": "course_description",
		"whatYouWillLearn":  "what_you_will_learn",
	} {
		if value, exists := c.GetPostForm(field); exists {
			updates[column] = utils.SanitizeString(value)
		}
	}
	if raw, exists := c.GetPostForm("price"); exists {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || utils.ValidatePrice(price) != nil {
			utils.BadRequest(c, "Invalid price", nil)
			return
		}
		updates["price"] = price
	}
	if raw, exists := c.GetPostForm("category"); exists {
		categoryID, ok := parseUint(raw)
		if !ok {
			utils.BadRequest(c, "Invalid category", nil)
			return
		}
		var count int64
		ctrl.db(c).Model(&models.Category{}).Where("id = ?", categoryID).Count(&count)
		if count == 0 {
			utils.NotFound(c, "Category details not found")
			return
		}
		updates["category_id"] = categoryID
	}
	if raw, exists := c.GetPostForm("status"); exists {
		if raw != models.CourseStatusDraft && raw != models.CourseStatusPublished {
			utils.BadRequest(c, "Invalid status", nil)
			return
		}
		updates["status"] = raw
	}
	for field, column := range map[string]string{"tag": "tag", "instructions": "instructions"} {
		if raw, exists := c.GetPostForm(field); exists {
			list, err := jsonList(raw)
			if err != nil {
				utils.BadRequest(c, "Invalid JSON format for tag or instructions", nil)
				return
			}
			updates[column] = list
		}
	}

	if thumbnail, err := c.FormFile("thumbnailImage"); err == nil {
		if err := media.ValidateImageFile(thumbnail); err != nil {
			utils.BadRequest(c, "Invalid thumbnail", err.Error())
			return
		}
		upload, err := ctrl.Media.Upload(c.Request.Context(), thumbnail, ctrl.Config.MediaFolder)
		if err != nil {
			utils.LogError("Failed to upload thumbnail for course %d: %v", course.ID, err)
			utils.Error(c, 502, "Failed to upload thumbnail image", nil)
			return
		}
		if err := ctrl.Media.Delete(c.Request.Context(), media.ResourceImage, course.ThumbnailID); err != nil {
			utils.LogWarn("Failed to delete old thumbnail %s: %v", course.ThumbnailID, err)
		}
		updates["thumbnail"] = upload.URL
		updates["thumbnail_id"] = upload.PublicID
	}

	if len(updates) > 0 {
		if err := ctrl.db(c).Model(course).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update course %d: %v", course.ID, err)
			utils.InternalServerError(c, "Error while updating course", nil)
			return
		}
	}

	updated, err := ctrl.loadCourse(c, course.ID)
	if err != nil {
		utils.InternalServerError(c, "Error while updating course", nil)
		return
	}
	utils.LogInfo("Course %d updated by instructor %d", course.ID, user.ID)
	utils.Success(c, "Course updated successfully", updated)
}

// DeleteCourse removes a course with its content, roster and progress. The
// payment ledger is kept.
func (ctrl *Controller) DeleteCourse(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CourseIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Course ID is required", err.Error())
		return
	}
	course, ok := ctrl.ownedCourse(c, user, req.CourseID)
	if !ok {
		return
	}

	var subSections []models.SubSection
	err := ctrl.db(c).Transaction(func(tx *gorm.DB) error {
		sectionIDs := tx.Model(&models.Section{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("section_id IN (?)", sectionIDs).Find(&subSections).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.SubSection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Section{}).Error; err != nil {
			return err
		}
		progressIDs := tx.Model(&models.CourseProgress{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("course_progress_id IN (?)", progressIDs).Delete(&models.CompletedUnit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.RatingAndReview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		utils.LogError("Failed to delete course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Error while deleting course", nil)
		return
	}

	ctx := c.Request.Context()
	for _, sub := range subSections {
		if err := ctrl.Media.Delete(ctx, media.ResourceVideo, sub.VideoID); err != nil {
			utils.LogWarn("Failed to delete video %s: %v", sub.VideoID, err)
		}
	}
	if err := ctrl.Media.Delete(ctx, media.ResourceImage, course.ThumbnailID); err != nil {
		utils.LogWarn("Failed to delete thumbnail %s: %v", course.ThumbnailID, err)
	}

	utils.LogInfo("Course %d deleted by instructor %d", course.ID, user.ID)
	utils.Success(c, "Course deleted successfully", nil)
}
