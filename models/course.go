package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course status constants
const (
	CourseStatusDraft     = "Draft"
	CourseStatusPublished = "Published"
)

// Course is a purchasable unit of content. Price is in whole currency units.
type Course struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	CourseName        string         `json:"courseName" gorm:"not null"`
	CourseDescription string         `json:"courseDescription"`
	WhatYouWillLearn  string         `json:"whatYouWillLearn"`
	Price             int64          `json:"price" gorm:"not null;check:price >= 0"`
	Thumbnail         string         `json:"thumbnail"`
	ThumbnailID       string         `json:"-"`
	Tag               datatypes.JSON `json:"tag"`
	Instructions      datatypes.JSON `json:"instructions"`
	Status            string         `json:"status" gorm:"not null;default:'Draft'"`
	InstructorID      uint           `json:"instructorId" gorm:"not null;index"`
	Instructor        *User          `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	CategoryID        uint           `json:"categoryId" gorm:"not null;index"`
	Category          *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Sections          []Section      `json:"courseContent,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TotalDurationSeconds sums the duration of every loaded subsection
func (c Course) TotalDurationSeconds() int {
	total := 0
	for _, section := range c.Sections {
		for _, sub := range section.SubSections {
			total += sub.TimeDuration
		}
	}
	return total
}

// TotalSubSections counts the loaded subsections
func (c Course) TotalSubSections() int {
	total := 0
	for _, section := range c.Sections {
		total += len(section.SubSections)
	}
	return total
}

// StringList decodes a JSON array column into a string slice
func StringList(raw datatypes.JSON) []string {
	var out []string
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}

// Section groups subsections inside a course
type Section struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	SectionName string       `json:"sectionName" gorm:"not null"`
	CourseID    uint         `json:"courseId" gorm:"not null;index"`
	SubSections []SubSection `json:"subSection,omitempty" gorm:"foreignKey:SectionID"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SubSection is a single lesson video. Its ID is the unit tracked by course progress.
type SubSection struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SectionID    uint      `json:"sectionId" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"not null"`
	TimeDuration int       `json:"timeDuration"` // seconds
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	VideoID      string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
