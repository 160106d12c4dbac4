package routes

import (
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes registers auth, profile and contact routes
func initUserRoutes(router *gin.RouterGroup, ctrl *controllers.Controller, auth gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/sendotp", ctrl.SendOTP)
		authGroup.POST("/signup", ctrl.Signup)
		authGroup.POST("/login", ctrl.Login)
		authGroup.POST("/changepassword", auth, ctrl.ChangePassword)
		authGroup.POST("/reset-password-token", ctrl.ResetPasswordToken)
		authGroup.POST("/reset-password", ctrl.ResetPassword)

		authGroup.GET("/all-students", auth, middleware.IsAdmin(), ctrl.GetAllStudents)
		authGroup.GET("/all-instructors", auth, middleware.IsAdmin(), ctrl.GetAllInstructors)
	}

	profile := router.Group("/profile", auth)
	{
		profile.GET("/getUserDetails", ctrl.GetUserDetails)
		profile.PUT("/updateProfile", ctrl.UpdateProfile)
		profile.PUT("/updateDisplayPicture", ctrl.UpdateDisplayPicture)
		profile.PUT("/updateUserProfileImage", ctrl.UpdateDisplayPicture)
		profile.DELETE("/deleteProfile", ctrl.DeleteAccount)
		profile.GET("/getEnrolledCourses", middleware.IsStudent(), ctrl.GetEnrolledCourses)
		profile.GET("/paymentHistory", ctrl.GetPaymentHistory)
		profile.GET("/getPaymentHistory", ctrl.GetPaymentHistory)
		profile.GET("/receipt/:transactionId", ctrl.DownloadReceipt)
		profile.GET("/instructorDashboard", middleware.IsInstructor(), ctrl.InstructorDashboard)
	}

	reach := router.Group("/reach")
	{
		reach.POST("/contact", ctrl.ContactUs)
	}
}
