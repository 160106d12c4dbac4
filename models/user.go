package models

import (
	"time"

	"gorm.io/gorm"
)

// Account types
const (
	AccountTypeStudent    = "Student"
	AccountTypeInstructor = "Instructor"
	AccountTypeAdmin      = "Admin"
)

// User represents a learner, instructor or administrator
type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	FirstName     string         `json:"firstName" gorm:"not null"`
	LastName      string         `json:"lastName" gorm:"not null"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	Password      string         `json:"-"`
	AccountType   string         `json:"accountType" gorm:"not null;default:'Student'"`
	ContactNumber string         `json:"contactNumber"`
	Image         string         `json:"image"`
	ImageID       string         `json:"-"`
	Gender        string         `json:"gender"`
	DateOfBirth   string         `json:"dateOfBirth"`
	About         string         `json:"about"`
	LastLoginAt   *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName returns the display name of the user
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsValidAccountType reports whether t is one of the supported account types
func IsValidAccountType(t string) bool {
	switch t {
	case AccountTypeStudent, AccountTypeInstructor, AccountTypeAdmin:
		return true
	}
	return false
}
