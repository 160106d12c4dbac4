package routes

import (
	"net/http"

	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(ctrl *controllers.Controller) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware(ctrl.Config.FrontendURL))
	router.Use(utils.SecurityHeadersMiddleware())
	router.MaxMultipartMemory = utils.MaxMultipartMemory

	if !ctrl.Config.CloudinaryEnabled() {
		router.Static(utils.LocalMediaPrefix, ctrl.Config.UploadDir)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Your server is up and running ...",
		})
	})

	auth := middleware.AuthMiddleware(ctrl.DB, ctrl.Config.JWTSecret)

	api := router.Group("/api/v1")
	{
		initUserRoutes(api, ctrl, auth)
		initCourseRoutes(api, ctrl, auth)
		initPaymentRoutes(api, ctrl, auth)
		initAdminRoutes(api, ctrl, auth)
	}

	return router
}
