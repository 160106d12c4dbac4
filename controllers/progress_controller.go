package controllers

import (
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

type UpdateProgressRequest struct {
	CourseID     uint `json:"courseId" binding:"required"`
	SubSectionID uint `json:"subsectionId" binding:"required"`
}

// UpdateCourseProgress marks a lesson as completed for the current student
func (ctrl *Controller) UpdateCourseProgress(c *gin.Context) {
	utils.LogInfo("UpdateCourseProgress called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Course ID and SubSection ID are required", err.Error())
		return
	}

	progress, err := ctrl.Progress.MarkCompleted(c.Request.Context(), req.CourseID, user.ID, req.SubSectionID)
	if err != nil {
		utils.LogError("Failed to update progress of user %d in course %d: %v", user.ID, req.CourseID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Course progress updated", progress)
}
