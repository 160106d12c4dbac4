package controllers

import (
	"github.com/Anantmishra121/learningedgeBackend/payment"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SimulatePayment signs a fake gateway callback for an order so the payment
// flow can be exercised without the hosted checkout. Disabled in production.
func (ctrl *Controller) SimulatePayment(c *gin.Context) {
	if ctrl.Config.IsProduction() {
		utils.NotFound(c, "Route not found")
		return
	}

	orderID := c.Query("order_id")
	if orderID == "" {
		utils.BadRequest(c, "Order ID is required", nil)
		return
	}

	paymentID := "pay_test_" + uuid.NewString()[:8]
	signature := payment.Sign(orderID, paymentID, ctrl.Config.RazorpayKeySecret)

	utils.LogDebug("Simulated payment %s for order %s", paymentID, orderID)
	utils.Success(c, "Payment simulation completed successfully", gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
}
