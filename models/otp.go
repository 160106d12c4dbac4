package models

import "time"

// OTP types
const (
	OTPTypeVerification  = "verification"
	OTPTypePasswordReset = "passwordReset"
)

// OTP is a one-time password mailed to an address before signup
type OTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"not null;index"`
	Code      string    `json:"-" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null;default:'verification'"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code can no longer be used at t
func (o OTP) Expired(t time.Time) bool {
	return t.After(o.ExpiresAt)
}
