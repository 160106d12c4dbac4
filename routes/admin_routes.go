package routes

import (
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes registers admin only routes
func initAdminRoutes(router *gin.RouterGroup, ctrl *controllers.Controller, auth gin.HandlerFunc) {
	admin := router.Group("/admin", auth, middleware.IsAdmin())
	{
		admin.GET("/students", ctrl.GetAllStudents)
		admin.GET("/instructors", ctrl.GetAllInstructors)
		admin.GET("/payments/export", ctrl.ExportPayments)
	}
}
