package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Payment status constants
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

const PaymentMethodRazorpay = "Razorpay"

// ErrPaymentImmutable is returned when code tries to update a ledger entry
var ErrPaymentImmutable = errors.New("payment records cannot be modified")

// Payment is an immutable ledger entry, one per course per transaction.
// Amount is the course price in whole currency units at verification time.
type Payment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"userId" gorm:"not null;index"`
	CourseID         uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_payment_course_txn"`
	TransactionID    string    `json:"transactionId" gorm:"not null;uniqueIndex:idx_payment_course_txn;index"`
	Amount           int64     `json:"amount" gorm:"not null"`
	Status           string    `json:"status" gorm:"not null"`
	PaymentMethod    string    `json:"paymentMethod"`
	GatewayOrderID   string    `json:"gatewayOrderId" gorm:"index"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BeforeUpdate hook rejects any mutation of a recorded payment
func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	return ErrPaymentImmutable
}
