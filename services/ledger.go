package services

import (
	"context"
	"errors"
	"time"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"gorm.io/gorm"
)

// LedgerRecorder persists one payment record per course per transaction
type LedgerRecorder struct {
	db *gorm.DB
}

// NewLedgerRecorder creates a recorder on db
func NewLedgerRecorder(db *gorm.DB) *LedgerRecorder {
	return &LedgerRecorder{db: db}
}

// Record writes a Completed entry for every course in one transaction, each
// carrying the course's current price. Nothing is written if any course is
// missing or the transaction was already recorded.
func (l *LedgerRecorder) Record(ctx context.Context, userID uint, courseIDs []uint, orderID, paymentID string) ([]models.Payment, error) {
	var payments []models.Payment

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Payment{}).Where("transaction_id = ?", paymentID).Count(&existing).Error; err != nil {
			return utils.InternalError("Could not check payment records", err)
		}
		if existing > 0 {
			return utils.ConflictError("Payment already processed", ErrPaymentReplayed)
		}

		payments = make([]models.Payment, 0, len(courseIDs))
		for _, courseID := range courseIDs {
			var course models.Course
			if err := tx.Select("id", "price").First(&course, courseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFoundError("Could not find the course", ErrCourseNotFound)
				}
				return utils.InternalError("Could not load course", err)
			}
			payments = append(payments, models.Payment{
				UserID:           userID,
				CourseID:         course.ID,
				TransactionID:    paymentID,
				Amount:           course.Price,
				Status:           models.PaymentStatusCompleted,
				PaymentMethod:    models.PaymentMethodRazorpay,
				GatewayOrderID:   orderID,
				GatewayPaymentID: paymentID,
			})
		}

		if err := tx.Create(&payments).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ConflictError("Payment already processed", ErrPaymentReplayed)
			}
			return utils.InternalError("Could not record payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Recorded %d payment entries for user %d, transaction %s", len(payments), userID, paymentID)
	return payments, nil
}

// ListByUser returns the payment history of userID, newest first
func (l *LedgerRecorder) ListByUser(ctx context.Context, userID uint, p *utils.Pagination) ([]models.Payment, error) {
	db := l.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, utils.InternalError("Could not count payments", err)
	}
	p.SetTotal(total)

	var payments []models.Payment
	if err := p.Scope(db.Order("created_at DESC, id DESC")).Find(&payments).Error; err != nil {
		return nil, utils.InternalError("Could not load payment history", err)
	}
	return payments, nil
}

// FindByTransaction returns the entries of one transaction owned by userID
func (l *LedgerRecorder) FindByTransaction(ctx context.Context, userID uint, transactionID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND transaction_id = ?", userID, transactionID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, utils.InternalError("Could not load payment", err)
	}
	if len(payments) == 0 {
		return nil, utils.NotFoundError("Payment not found", gorm.ErrRecordNotFound)
	}
	return payments, nil
}

// ListAll returns every entry created in [from, to). Zero bounds are open.
func (l *LedgerRecorder) ListAll(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	db := l.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at < ?", to)
	}

	var payments []models.Payment
	if err := db.Find(&payments).Error; err != nil {
		return nil, utils.InternalError("Could not load payments", err)
	}
	return payments, nil
}

// IncomeByCourse sums the completed amounts per course id
func (l *LedgerRecorder) IncomeByCourse(ctx context.Context, courseIDs []uint) (map[uint]int64, error) {
	income := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return income, nil
	}

	var rows []struct {
		CourseID uint
		Total    int64
	}
	err := l.db.WithContext(ctx).Model(&models.Payment{}).
		Select("course_id, SUM(amount) AS total").
		Where("course_id IN ? AND status = ?", courseIDs, models.PaymentStatusCompleted).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.InternalError("Could not compute income", err)
	}
	for _, row := range rows {
		income[row.CourseID] = row.Total
	}
	return income, nil
}
