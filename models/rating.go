package models

import "time"

// RatingAndReview is one student's score for a course. A student may rate a
// course once.
type RatingAndReview struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_rating_user_course"`
	CourseID  uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_rating_user_course;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review    string    `json:"review"`
	User      *User     `json:"user,omitempty"`
	Course    *Course   `json:"course,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
