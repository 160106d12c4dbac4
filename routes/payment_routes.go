package routes

import (
	"github.com/Anantmishra121/learningedgeBackend/controllers"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/gin-gonic/gin"
)

// initPaymentRoutes registers the checkout routes. The simulator is only
// mounted outside production.
func initPaymentRoutes(router *gin.RouterGroup, ctrl *controllers.Controller, auth gin.HandlerFunc) {
	payment := router.Group("/payment", auth, middleware.IsStudent())
	{
		payment.POST("/capturePayment", ctrl.CapturePayment)
		payment.POST("/verifyPayment", ctrl.VerifyPayment)
		payment.POST("/sendPaymentSuccessEmail", ctrl.SendPaymentSuccessEmail)

		if !ctrl.Config.IsProduction() {
			payment.GET("/simulate", ctrl.SimulatePayment)
		}
	}
}
