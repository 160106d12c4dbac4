package controllers

import (
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

// ResetPasswordRequest represents the reset password request body
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required"`
	OTP             string `json:"otp" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ResetPasswordToken mails a password reset OTP to a registered address
func (ctrl *Controller) ResetPasswordToken(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Email is required", err.Error())
		return
	}
	email := strings.ToLower(utils.SanitizeString(req.Email))

	var count int64
	ctrl.db(c).Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count == 0 {
		utils.LogError("Password reset requested for unknown email: %s", email)
		utils.Unauthorized(c, "Your Email is not registered with us")
		return
	}

	if err := ctrl.createOTP(c, email, models.OTPTypePasswordReset, "Password Reset OTP", notify.PasswordResetOTPEmail); err != nil {
		utils.LogError("Error while sending password reset OTP to %s: %v", email, err)
		utils.InternalServerError(c, "Error while sending OTP for password reset", nil)
		return
	}

	utils.LogInfo("Password reset OTP sent to %s", email)
	utils.Success(c, "OTP sent successfully, please check your email and enter the OTP to reset your password", nil)
}

// ResetPassword sets a new password after validating the reset OTP
func (ctrl *Controller) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "All fields are required...!", err.Error())
		return
	}
	email := strings.ToLower(utils.SanitizeString(req.Email))

	if valid, _ := utils.ValidateConfirmPassword(req.Password, req.ConfirmPassword); !valid {
		utils.BadRequest(c, "Passwords do not match", nil)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	if err := ctrl.latestOTP(c, email, models.OTPTypePasswordReset, req.OTP); err != nil {
		utils.LogSecurity("Password reset failed for %s: %v", email, err)
		utils.RespondError(c, err)
		return
	}

	var user models.User
	if err := ctrl.db(c).Where("email = ?", email).First(&user).Error; err != nil {
		utils.Unauthorized(c, "User not found")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.InternalServerError(c, "Error while resetting password", nil)
		return
	}
	if err := ctrl.db(c).Model(&user).Update("password", hash).Error; err != nil {
		utils.LogError("Failed to reset password for %s: %v", email, err)
		utils.InternalServerError(c, "Error while resetting password", nil)
		return
	}
	ctrl.db(c).Where("email = ?", email).Delete(&models.OTP{})

	utils.LogInfo("Password reset for user %d", user.ID)
	utils.Success(c, "Password reset successfully", nil)
}
