package controllers

import (
	"net/http"

	"github.com/Anantmishra121/learningedgeBackend/services"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

type CapturePaymentRequest struct {
	CoursesID []uint `json:"coursesId"`
}

// VerifyPaymentRequest is the gateway callback forwarded by the client
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	CoursesID         []uint `json:"coursesId"`
}

type PaymentEmailRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
}

// CapturePayment opens a gateway order for the requested courses (Student)
func (ctrl *Controller) CapturePayment(c *gin.Context) {
	utils.LogInfo("CapturePayment called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Please provide Course ID", err.Error())
		return
	}

	order, err := ctrl.Checkout.CreateOrder(c.Request.Context(), user.ID, req.CoursesID)
	if err != nil {
		utils.LogError("Failed to create order for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order created", gin.H{
		"orderId":  order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"receipt":  order.Receipt,
		"keyId":    ctrl.Checkout.KeyID(),
	})
}

// VerifyPayment authenticates the gateway callback and enrolls the student
func (ctrl *Controller) VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Payment failed, data not found", err.Error())
		return
	}

	result, err := ctrl.Checkout.Verify(c.Request.Context(), services.VerifyRequest{
		UserID:    user.ID,
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		CourseIDs: req.CoursesID,
	})
	if err != nil {
		utils.LogError("Payment verification failed for user %d: %v", user.ID, err)
		utils.RespondError(c, err)
		return
	}

	if !result.Succeeded() {
		utils.LogWarn("Payment %s verified with %d failed enrollments", req.RazorpayPaymentID, len(result.Failed))
		c.JSON(http.StatusOK, utils.StandardResponse{
			Success: false,
			Message: "Payment verified but some courses could not be enrolled",
			Data:    result,
		})
		return
	}

	utils.LogInfo("Payment %s verified for user %d", req.RazorpayPaymentID, user.ID)
	utils.Success(c, "Payment Verified", result)
}

// SendPaymentSuccessEmail mails a payment receipt to the current user
func (ctrl *Controller) SendPaymentSuccessEmail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req PaymentEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentID == "" || req.Amount <= 0 {
		utils.BadRequest(c, "Please provide all the details", nil)
		return
	}

	if err := ctrl.Checkout.SendPaymentSuccessEmail(c.Request.Context(), user.ID, req.OrderID, req.PaymentID, req.Amount); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment success email sent", nil)
}
