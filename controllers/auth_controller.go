package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SendOTPRequest represents the send otp request body
type SendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	AccountType     string `json:"accountType" binding:"required"`
	ContactNumber   string `json:"contactNumber"`
	OTP             string `json:"otp" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword        string `json:"oldPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"required"`
}

// createOTP stores a fresh code for email and mails it using template
func (ctrl *Controller) createOTP(c *gin.Context, email, otpType, subject string, template func(otp, name string) string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	otp := models.OTP{
		Email:     email,
		Code:      code,
		Type:      otpType,
		ExpiresAt: time.Now().Add(utils.OTPExpiration),
	}
	if err := ctrl.db(c).Create(&otp).Error; err != nil {
		return err
	}

	return ctrl.sendMail(c.Request.Context(), email, subject, template(code, utils.NameFromEmail(email)))
}

// latestOTP validates code against the most recent unexpired OTP of email
func (ctrl *Controller) latestOTP(c *gin.Context, email, otpType, code string) error {
	var otp models.OTP
	err := ctrl.db(c).Where("email = ? AND type = ?", email, otpType).Order("created_at DESC, id DESC").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.BadRequestError("OTP not found in DB, please try again", err)
		}
		return utils.InternalError("Could not load OTP", err)
	}
	if otp.Expired(time.Now()) {
		return utils.BadRequestError("OTP has expired, please request a new one", nil)
	}
	if otp.Code != code {
		return utils.BadRequestError("Invalid OTP", nil)
	}
	return nil
}

// SendOTP mails a signup verification code
func (ctrl *Controller) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Send OTP failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Email is required", err.Error())
		return
	}

	email := strings.ToLower(utils.SanitizeString(req.Email))
	if valid, msg := utils.ValidateEmail(email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	var count int64
	ctrl.db(c).Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		utils.LogError("Send OTP failed - User already registered: %s", email)
		utils.Unauthorized(c, "User is Already Registered")
		return
	}

	if err := ctrl.createOTP(c, email, models.OTPTypeVerification, "OTP Verification Email", notify.OTPVerificationEmail); err != nil {
		utils.LogError("Error while generating OTP for %s: %v", email, err)
		utils.InternalServerError(c, "Error while generating OTP", nil)
		return
	}

	utils.LogInfo("OTP sent to %s", email)
	utils.Success(c, utils.MsgOTPSent, nil)
}

// Signup registers a user after validating the latest OTP
func (ctrl *Controller) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Signup failed - Invalid request format: %v", err)
		utils.BadRequest(c, "All fields are required..!", err.Error())
		return
	}

	req.Email = strings.ToLower(utils.SanitizeString(req.Email))
	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidateName(req.FirstName); !valid {
		utils.BadRequest(c, "Invalid first name", msg)
		return
	}
	if valid, msg := utils.ValidateName(req.LastName); !valid {
		utils.BadRequest(c, "Invalid last name", msg)
		return
	}
	if valid, msg := utils.ValidateConfirmPassword(req.Password, req.ConfirmPassword); !valid {
		utils.BadRequest(c, "Password and confirm password do not match, please try again..!", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if !models.IsValidAccountType(req.AccountType) {
		utils.BadRequest(c, "Invalid account type", nil)
		return
	}
	contact := ""
	if req.ContactNumber != "" {
		valid, formatted := utils.ValidatePhone(req.ContactNumber)
		if !valid {
			utils.BadRequest(c, "Invalid contact number", formatted)
			return
		}
		contact = formatted
	}

	var count int64
	ctrl.db(c).Unscoped().Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		utils.LogError("Signup failed - User already registered: %s", req.Email)
		utils.BadRequest(c, "User registered already, go to Login Page", nil)
		return
	}

	if err := ctrl.latestOTP(c, req.Email, models.OTPTypeVerification, req.OTP); err != nil {
		utils.LogError("Signup failed - OTP check for %s: %v", req.Email, err)
		utils.RespondError(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for %s: %v", req.Email, err)
		utils.InternalServerError(c, "User cannot be registered, please try again..!", nil)
		return
	}

	user := models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      hash,
		AccountType:   req.AccountType,
		ContactNumber: contact,
		Image:         fmt.Sprintf("https://api.dicebear.com/5.x/initials/svg?seed=%s %s", req.FirstName, req.LastName),
	}
	if err := ctrl.db(c).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.BadRequest(c, "User registered already, go to Login Page", nil)
			return
		}
		utils.LogError("Failed to create user %s: %v", req.Email, err)
		utils.InternalServerError(c, "User cannot be registered, please try again..!", nil)
		return
	}
	ctrl.db(c).Where("email = ?", req.Email).Delete(&models.OTP{})

	utils.LogInfo("User registered successfully: %s (%s)", user.Email, user.AccountType)
	utils.Success(c, utils.MsgRegisterSuccess, gin.H{"user": user})
}

// Login checks credentials and issues a JWT, also set as the token cookie
func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "All fields are required", err.Error())
		return
	}

	email := strings.ToLower(utils.SanitizeString(req.Email))
	if valid, msg := utils.ValidateSQLInjection(email); !valid {
		utils.LogSecurity("Login attempt failed - SQL injection attempt detected: %s", email)
		utils.BadRequest(c, "Invalid input", msg)
		return
	}

	var user models.User
	if err := ctrl.db(c).Where("email = ?", email).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", email)
		utils.Unauthorized(c, "You are not registered with us")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogSecurity("Login attempt failed - Invalid password for user: %s", email)
		utils.Unauthorized(c, "Password not matched")
		return
	}

	token, err := utils.GenerateToken(utils.TokenClaims{
		UserID:      user.ID,
		Email:       user.Email,
		AccountType: user.AccountType,
	}, ctrl.Config.JWTSecret)
	if err != nil {
		utils.LogError("Failed to generate JWT token for user: %s", email)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	now := time.Now()
	if err := ctrl.db(c).Model(&user).Update("last_login_at", now).Error; err != nil {
		utils.LogError("Failed to update last login time for user: %s", email)
	}
	user.LastLoginAt = &now

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, int(utils.TokenCookieExpiration.Seconds()), "/", "", ctrl.Config.IsProduction(), true)

	utils.LogInfo("User logged in successfully: %s", email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  user,
	})
}

// ChangePassword replaces the password of the logged in user
func (ctrl *Controller) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "All fields are required", err.Error())
		return
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		utils.LogSecurity("Change password failed - wrong old password for user %d", user.ID)
		utils.Unauthorized(c, "Old password is incorrect")
		return
	}
	if valid, _ := utils.ValidateConfirmPassword(req.NewPassword, req.ConfirmNewPassword); !valid {
		utils.BadRequest(c, "The password and confirm password do not match", nil)
		return
	}
	if valid, msg := utils.ValidatePassword(req.NewPassword); !valid {
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.InternalServerError(c, "Error while changing password", nil)
		return
	}
	if err := ctrl.db(c).Model(&user).Update("password", hash).Error; err != nil {
		utils.LogError("Failed to update password for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Error while changing password", nil)
		return
	}

	if err := ctrl.sendMail(c.Request.Context(), user.Email, "Password for your account has been updated",
		notify.PasswordUpdatedEmail(user.Email, user.FullName())); err != nil {
		utils.InternalServerError(c, "Error occurred while sending email", nil)
		return
	}

	utils.LogInfo("Password changed for user %d", user.ID)
	utils.Success(c, "Password changed successfully", nil)
}
