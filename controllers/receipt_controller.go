package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// courseNames maps course ids to names, soft deleted courses included
func (ctrl *Controller) courseNames(c *gin.Context, payments []models.Payment) map[uint]string {
	ids := make([]uint, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.CourseID)
	}

	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	var courses []models.Course
	if err := ctrl.db(c).Unscoped().Select("id", "course_name").Where("id IN ?", ids).Find(&courses).Error; err != nil {
		utils.LogWarn("Failed to load course names: %v", err)
		return names
	}
	for _, course := range courses {
		names[course.ID] = course.CourseName
	}
	return names
}

// DownloadReceipt renders the ledger entries of one transaction as a PDF
func (ctrl *Controller) DownloadReceipt(c *gin.Context) {
	utils.LogInfo("Starting receipt download process")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactionID := c.Param("transactionId")
	payments, err := ctrl.Ledger.FindByTransaction(c.Request.Context(), user.ID, transactionID)
	if err != nil {
		utils.LogError("Receipt not available for transaction %s, user %d: %v", transactionID, user.ID, err)
		utils.RespondError(c, err)
		return
	}
	names := ctrl.courseNames(c, payments)
	currency := ctrl.Checkout.Currency()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "LearningEdge")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Transaction ID: "+transactionID)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Order ID: "+payments[0].GatewayOrderID)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Date: "+payments[0].CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(100, 8, "Payment Method: "+payments[0].PaymentMethod)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.FullName())
	pdf.Ln(6)
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(100, 8, "Course", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Amount ("+currency+")", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)

	var total int64
	for _, p := range payments {
		name := names[p.CourseID]
		if name == "" {
			name = "Course #" + strconv.FormatUint(uint64(p.CourseID), 10)
		}
		pdf.CellFormat(100, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, p.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d.00", p.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += p.Amount
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(130, 10, "Total Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, fmt.Sprintf("%d.00", total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for learning with LearningEdge!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render receipt for transaction %s: %v", transactionID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	utils.LogInfo("Receipt generated for transaction %s", transactionID)
	c.Header("Content-Disposition", "attachment; filename=receipt-"+transactionID+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
