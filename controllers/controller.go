package controllers

import (
	"context"
	"strconv"

	"github.com/Anantmishra121/learningedgeBackend/config"
	"github.com/Anantmishra121/learningedgeBackend/media"
	"github.com/Anantmishra121/learningedgeBackend/middleware"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/notify"
	"github.com/Anantmishra121/learningedgeBackend/services"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller holds the dependencies shared by every handler
type Controller struct {
	DB         *gorm.DB
	Config     *config.Config
	Checkout   *services.CheckoutService
	Ledger     *services.LedgerRecorder
	Enrollment *services.EnrollmentEngine
	Progress   *services.ProgressTracker
	Notifier   notify.Notifier
	Media      media.Store
}

// currentUser returns the authenticated user or writes a 401
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
	}
	return user, ok
}

// db returns the database bound to the request context
func (ctrl *Controller) db(c *gin.Context) *gorm.DB {
	return ctrl.DB.WithContext(c.Request.Context())
}

// sendMail delivers one message and logs failures
func (ctrl *Controller) sendMail(ctx context.Context, to, subject, body string) error {
	nctx, cancel := context.WithTimeout(ctx, ctrl.Config.OutboundTimeout)
	defer cancel()

	id, err := ctrl.Notifier.Send(nctx, to, subject, body)
	if err != nil {
		utils.LogError("Failed to send %q to %s: %v", subject, to, err)
		return err
	}
	utils.LogDebug("Sent %q to %s, message id %s", subject, to, id)
	return nil
}

// parseUint reads a positive id from a form value or string
func parseUint(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
