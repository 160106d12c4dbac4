package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const dateLayout = "2006-01-02"

// parseRange reads the optional from and to query dates. to is inclusive.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return from, to, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return from, to, false
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, false
	}
	return from, to, true
}

// ExportPayments downloads the payment ledger as an Excel sheet (Admin)
func (ctrl *Controller) ExportPayments(c *gin.Context) {
	utils.LogInfo("ExportPayments called")

	from, to, ok := parseRange(c)
	if !ok {
		utils.BadRequest(c, "Invalid date range", "Dates must be YYYY-MM-DD with from before to")
		return
	}

	payments, err := ctrl.Ledger.ListAll(c.Request.Context(), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogDebug("Retrieved %d ledger entries for export", len(payments))

	names := ctrl.courseNames(c, payments)
	emails := map[uint]string{}
	userIDs := make([]uint, 0, len(payments))
	for _, p := range payments {
		userIDs = append(userIDs, p.UserID)
	}
	if len(userIDs) > 0 {
		var users []models.User
		if err := ctrl.db(c).Unscoped().Select("id", "email").Where("id IN ?", userIDs).Find(&users).Error; err == nil {
			for _, u := range users {
				emails[u.ID] = u.Email
			}
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", nil)
		return
	}

	title := sheet.AddRow()
	title.AddCell().SetString("LEARNINGEDGE - Payment Ledger")
	period := sheet.AddRow()
	period.AddCell().SetString("Period: " + rangeLabel(from, to))
	sheet.AddRow()

	headers := []string{"Transaction ID", "Order ID", "Date", "User ID", "User Email", "Course ID", "Course", "Amount", "Status", "Method"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetString(h)
	}

	var total int64
	for _, p := range payments {
		row := sheet.AddRow()
		row.AddCell().SetString(p.TransactionID)
		row.AddCell().SetString(p.GatewayOrderID)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetInt(int(p.UserID))
		row.AddCell().SetString(emails[p.UserID])
		row.AddCell().SetInt(int(p.CourseID))
		row.AddCell().SetString(names[p.CourseID])
		row.AddCell().SetInt(int(p.Amount))
		row.AddCell().SetString(p.Status)
		row.AddCell().SetString(p.PaymentMethod)
		if p.Status == models.PaymentStatusCompleted {
			total += p.Amount
		}
	}

	sheet.AddRow()
	totalRow := sheet.AddRow()
	totalRow.AddCell().SetString("Total (" + ctrl.Checkout.Currency() + ")")
	totalRow.AddCell().SetInt(int(total))

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to generate Excel file", nil)
		return
	}

	filename := "payments-" + time.Now().Format("20060102") + ".xlsx"
	utils.LogInfo("Payment ledger exported with %d rows", len(payments))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func rangeLabel(from, to time.Time) string {
	start, end := "beginning", "now"
	if !from.IsZero() {
		start = from.Format(dateLayout)
	}
	if !to.IsZero() {
		end = to.AddDate(0, 0, -1).Format(dateLayout)
	}
	return start + " to " + end
}
