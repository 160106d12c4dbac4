package models

import (
	"encoding/json"
	"time"
)

// CourseProgress tracks the completed units of one user in one course
type CourseProgress struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	CourseID       uint            `json:"courseId" gorm:"not null;uniqueIndex:idx_progress_course_user"`
	UserID         uint            `json:"userId" gorm:"not null;uniqueIndex:idx_progress_course_user"`
	CompletedUnits []CompletedUnit `json:"-" gorm:"foreignKey:CourseProgressID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CompletedUnit records one subsection finished by the learner
type CompletedUnit struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	CourseProgressID uint      `json:"courseProgressId" gorm:"not null;uniqueIndex:idx_completed_unit"`
	SubSectionID     uint      `json:"subSectionId" gorm:"not null;uniqueIndex:idx_completed_unit"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UnitIDs returns the completed subsection ids in completion order
func (p CourseProgress) UnitIDs() []uint {
	ids := make([]uint, 0, len(p.CompletedUnits))
	for _, unit := range p.CompletedUnits {
		ids = append(ids, unit.SubSectionID)
	}
	return ids
}

// HasUnit reports whether the subsection is already completed
func (p CourseProgress) HasUnit(subSectionID uint) bool {
	for _, unit := range p.CompletedUnits {
		if unit.SubSectionID == subSectionID {
			return true
		}
	}
	return false
}

// MarshalJSON exposes completed units as a flat id list
func (p CourseProgress) MarshalJSON() ([]byte, error) {
	type alias CourseProgress
	return json.Marshal(struct {
		alias
		CompletedUnits []uint `json:"completedUnits"`
	}{
		alias:          alias(p),
		CompletedUnits: p.UnitIDs(),
	})
}
