package controllers

import (
	"errors"
	"math"
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateSectionRequest struct {
	SectionName string `json:"sectionName" binding:"required"`
	CourseID    uint   `json:"courseId" binding:"required"`
}

type UpdateSectionRequest struct {
	SectionName string `json:"sectionName" binding:"required"`
	SectionID   uint   `json:"sectionId" binding:"required"`
	CourseID    uint   `json:"courseId" binding:"required"`
}

type DeleteSectionRequest struct {
	SectionID uint `json:"sectionId" binding:"required"`
	CourseID  uint `json:"courseId" binding:"required"`
}

type DeleteSubSectionRequest struct {
	SubSectionID uint `json:"subSectionId" binding:"required"`
	SectionID    uint `json:"sectionId" binding:"required"`
}

// ownedSection loads a section whose course belongs to the current instructor
func (ctrl *Controller) ownedSection(c *gin.Context, user models.User, sectionID uint) (*models.Section, bool) {
	var section models.Section
	if err := ctrl.db(c).First(&section, sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Section not found")
			return nil, false
		}
		utils.InternalServerError(c, "Could not load section", nil)
		return nil, false
	}
	if _, ok := ctrl.ownedCourse(c, user, section.CourseID); !ok {
		return nil, false
	}
	return &section, true
}

// respondCourse writes the refreshed course content
func (ctrl *Controller) respondCourse(c *gin.Context, message string, courseID uint) {
	course, err := ctrl.loadCourse(c, courseID)
	if err != nil {
		utils.LogError("Failed to reload course %d: %v", courseID, err)
		utils.InternalServerError(c, "Could not load course", nil)
		return
	}
	utils.Success(c, message, course)
}

// CreateSection adds a section to a course (Instructor)
func (ctrl *Controller) CreateSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing required properties", err.Error())
		return
	}
	name := utils.SanitizeString(req.SectionName)
	if name == "" {
		utils.BadRequest(c, "Missing required properties", nil)
		return
	}

	course, ok := ctrl.ownedCourse(c, user, req.CourseID)
	if !ok {
		return
	}

	section := models.Section{SectionName: name, CourseID: course.ID}
	if err := ctrl.db(c).Create(&section).Error; err != nil {
		utils.LogError("Failed to create section for course %d: %v", course.ID, err)
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}

	utils.LogInfo("Section %d created in course %d", section.ID, course.ID)
	ctrl.respondCourse(c, "Section created successfully", course.ID)
}

// UpdateSection renames a section (Instructor)
func (ctrl *Controller) UpdateSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing required properties", err.Error())
		return
	}

	section, ok := ctrl.ownedSection(c, user, req.SectionID)
	if !ok {
		return
	}
	if section.CourseID != req.CourseID {
		utils.NotFound(c, "Section not found")
		return
	}

	name := utils.SanitizeString(req.SectionName)
	if name == "" {
		utils.BadRequest(c, "Missing required properties", nil)
		return
	}
	if err := ctrl.db(c).Model(section).Update("section_name", name).Error; err != nil {
		utils.LogError("Failed to update section %d: %v", section.ID, err)
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}

	ctrl.respondCourse(c, "Section updated", section.CourseID)
}

// DeleteSection removes a section and its subsections (Instructor)
func (ctrl *Controller) DeleteSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req DeleteSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing required properties", err.Error())
		return
	}

	section, ok := ctrl.ownedSection(c, user, req.SectionID)
	if !ok {
		return
	}
	if section.CourseID != req.CourseID {
		utils.NotFound(c, "Section not found")
		return
	}

	var subSections []models.SubSection
	err := ctrl.db(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", section.ID).Find(&subSections).Error; err != nil {
			return err
		}
		unitIDs := tx.Model(&models.SubSection{}).Select("id").Where("section_id = ?", section.ID)
		if err := tx.Where("sub_section_id IN (?)", unitIDs).Delete(&models.CompletedUnit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.SubSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(section).Error
	})
	if err != nil {
		utils.LogError("Failed to delete section %d: %v", section.ID, err)
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}

	for _, sub := range subSections {
		if err := ctrl.Media.Delete(c.Request.Context(), media.ResourceVideo, sub.VideoID); err != nil {
			utils.LogWarn("Failed to delete video %s: %v", sub.VideoID, err)
		}
	}

	utils.LogInfo("Section %d deleted from course %d", section.ID, section.CourseID)
	ctrl.respondCourse(c, "Section deleted", section.CourseID)
}

// CreateSubSection uploads a lesson video and adds it to a section (Instructor)
func (ctrl *Controller) CreateSubSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	sectionID, idOK := parseUint(c.PostForm("sectionId"))
	title := utils.SanitizeString(c.PostForm("title"))
	description := utils.SanitizeString(c.PostForm("description"))
	video, videoErr := c.FormFile("video")
	if !idOK || title == "" || description == "" || videoErr != nil {
		utils.BadRequest(c, "All Fields are Required", nil)
		return
	}

	section, ok := ctrl.ownedSection(c, user, sectionID)
	if !ok {
		return
	}

	if err := media.ValidateVideoFile(video); err != nil {
		utils.BadRequest(c, "Invalid video", err.Error())
		return
	}
	upload, err := ctrl.Media.Upload(c.Request.Context(), video, ctrl.Config.MediaFolder)
	if err != nil {
		utils.LogError("Failed to upload video for section %d: %v", section.ID, err)
		utils.Error(c, 502, "Failed to upload video", nil)
		return
	}

	sub := models.SubSection{
		SectionID:    section.ID,
		Title:        title,
		Description:  description,
		TimeDuration: int(math.Round(upload.Duration)),
		VideoURL:     upload.URL,
		VideoID:      upload.PublicID,
	}
	if err := ctrl.db(c).Create(&sub).Error; err != nil {
		utils.LogError("Failed to create subsection in section %d: %v", section.ID, err)
		utils.InternalServerError(c, "Internal server error", nil)
		return
	}

	utils.LogInfo("SubSection %d created in section %d", sub.ID, section.ID)
	ctrl.respondCourse(c, "SubSection created successfully", section.CourseID)
}

// UpdateSubSection changes lesson text and optionally replaces the video (Instructor)
func (ctrl *Controller) UpdateSubSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	sectionID, sectionOK := parseUint(c.PostForm("sectionId"))
	subSectionID, subOK := parseUint(c.PostForm("subSectionId"))
	if !sectionOK || !subOK {
		utils.BadRequest(c, "Section ID and SubSection ID are required", nil)
		return
	}

	section, ok := ctrl.ownedSection(c, user, sectionID)
	if !ok {
		return
	}

	var sub models.SubSection
	if err := ctrl.db(c).Where("id = ? AND section_id = ?", subSectionID, section.ID).First(&sub).Error; err != nil {
		utils.NotFound(c, "SubSection not found")
		return
	}

	updates := map[string]interface{}{}
	if title, exists := c.GetPostForm("title"); exists && strings.TrimSpace(title) != "" {
		updates["title"] = utils.SanitizeString(title)
	}
	if description, exists := c.GetPostForm("description"); exists {
		updates["description"] = utils.SanitizeString(description)
	}
	if video, err := c.FormFile("video"); err == nil {
		if err := media.ValidateVideoFile(video); err != nil {
			utils.BadRequest(c, "Invalid video", err.Error())
			return
		}
		upload, err := ctrl.Media.Upload(c.Request.Context(), video, ctrl.Config.MediaFolder)
		if err != nil {
			utils.LogError("Failed to upload video for subsection %d: %v", sub.ID, err)
			utils.Error(c, 502, "Failed to upload video", nil)
			return
		}
		if err := ctrl.Media.Delete(c.Request.Context(), media.ResourceVideo, sub.VideoID); err != nil {
			utils.LogWarn("Failed to delete old video %s: %v", sub.VideoID, err)
		}
		updates["video_url"] = upload.URL
		updates["video_id"] = upload.PublicID
		updates["time_duration"] = int(math.Round(upload.Duration))
	}

	if len(updates) > 0 {
		if err := ctrl.db(c).Model(&sub).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update subsection %d: %v", sub.ID, err)
			utils.InternalServerError(c, "An error occurred while updating the section", nil)
			return
		}
	}

	ctrl.respondCourse(c, "Section updated successfully", section.CourseID)
}

// DeleteSubSection removes a lesson and its completion marks (Instructor)
func (ctrl *Controller) DeleteSubSection(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req DeleteSubSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Section ID and SubSection ID are required", err.Error())
		return
	}

	section, ok := ctrl.ownedSection(c, user, req.SectionID)
	if !ok {
		return
	}

	var sub models.SubSection
	if err := ctrl.db(c).Where("id = ? AND section_id = ?", req.SubSectionID, section.ID).First(&sub).Error; err != nil {
		utils.NotFound(c, "SubSection not found")
		return
	}

	err := ctrl.db(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_section_id = ?", sub.ID).Delete(&models.CompletedUnit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sub).Error
	})
	if err != nil {
		utils.LogError("Failed to delete subsection %d: %v", sub.ID, err)
		utils.InternalServerError(c, "An error occurred while deleting the SubSection", nil)
		return
	}
	if err := ctrl.Media.Delete(c.Request.Context(), media.ResourceVideo, sub.VideoID); err != nil {
		utils.LogWarn("Failed to delete video %s: %v", sub.VideoID, err)
	}

	ctrl.respondCourse(c, "SubSection deleted successfully", section.CourseID)
}
