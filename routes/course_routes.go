package routes

import (
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/gin-gonic/gin"
)

// initCourseRoutes registers catalog, authoring and progress routes
func initCourseRoutes(router *gin.RouterGroup, ctrl *controllers.Controller, auth gin.HandlerFunc) {
	course := router.Group("/course")
	{
		// Public catalog
		course.GET("/getAllCourses", ctrl.GetAllCourses)
		course.POST("/getCourseDetails", ctrl.GetCourseDetails)
		course.GET("/showAllCategories", ctrl.ShowAllCategories)
		course.POST("/getCategoryPageDetails", ctrl.CategoryPageDetails)

		course.POST("/getFullCourseDetails", auth, ctrl.GetFullCourseDetails)

		instructor := course.Group("", auth, middleware.IsInstructor())
		{
			instructor.POST("/createCourse", ctrl.CreateCourse)
			instructor.POST("/editCourse", ctrl.EditCourse)
			instructor.DELETE("/deleteCourse", ctrl.DeleteCourse)
			instructor.GET("/getInstructorCourses", ctrl.GetInstructorCourses)

			instructor.POST("/addSection", ctrl.CreateSection)
			instructor.POST("/updateSection", ctrl.UpdateSection)
			instructor.POST("/deleteSection", ctrl.DeleteSection)

			instructor.POST("/addSubSection", ctrl.CreateSubSection)
			instructor.POST("/updateSubSection", ctrl.UpdateSubSection)
			instructor.POST("/deleteSubSection", ctrl.DeleteSubSection)
		}

		course.POST("/updateCourseProgress", auth, middleware.IsStudent(), ctrl.UpdateCourseProgress)

		// Ratings
		course.POST("/createRating", auth, middleware.IsStudent(), ctrl.CreateRating)
		course.GET("/getAverageRating", ctrl.GetAverageRating)
		course.GET("/getReviews", ctrl.GetReviews)

		admin := course.Group("", auth, middleware.IsAdmin())
		{
			admin.POST("/createCategory", ctrl.CreateCategory)
			admin.DELETE("/deleteCategory", ctrl.DeleteCategory)
		}
	}
}
