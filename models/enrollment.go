package models

import "time"

// Enrollment is the single row backing both a course's roster and a user's
// enrolled courses, so the two views cannot diverge.
type Enrollment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"userId" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_enrollment_user_course;index"`
	CourseProgressID *uint     `json:"courseProgressId"`
	CreatedAt        time.Time `json:"createdAt"`
}
