package controllers

import (
	"strings"

	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
)

// ContactRequest is a message from the contact form
type ContactRequest struct {
	FirstName   string `json:"firstname" binding:"required"`
	LastName    string `json:"lastname"`
	Email       string `json:"email" binding:"required"`
	PhoneNo     string `json:"phoneNo"`
	CountryCode string `json:"countrycode"`
	Message     string `json:"message" binding:"required"`
}

// ContactUs forwards a contact form message to the site inbox and confirms
// receipt to the sender
func (ctrl *Controller) ContactUs(c *gin.Context) {
	utils.LogInfo("ContactUs called")

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "All fields are required", err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if valid, msg := utils.ValidateEmail(email); !valid {
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	msg := notify.ContactMessage{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       email,
		PhoneNo:     strings.TrimSpace(req.PhoneNo),
		CountryCode: strings.TrimSpace(req.CountryCode),
		Message:     strings.TrimSpace(req.Message),
	}

	ctx := c.Request.Context()
	if err := ctrl.sendMail(ctx, ctrl.Config.AdminEmail, "New contact form submission", notify.ContactAdminEmail(msg)); err != nil {
		utils.InternalServerError(c, "Something went wrong...", nil)
		return
	}
	if err := ctrl.sendMail(ctx, email, "Your message has been received", notify.ContactConfirmationEmail(msg)); err != nil {
		utils.LogWarn("Contact confirmation to %s not sent: %v", email, err)
	}

	utils.Success(c, "Email send successfully", nil)
}
