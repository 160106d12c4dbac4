package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"gorm.io/gorm"
)

// ProgressTracker stores the completed units of a user in a course
type ProgressTracker struct {
	db *gorm.DB
}

// NewProgressTracker creates a tracker on db
func NewProgressTracker(db *gorm.DB) *ProgressTracker {
	return &ProgressTracker{db: db}
}

// Initialize creates an empty progress record. A second call for the same
// pair fails with ErrAlreadyExists.
func (t *ProgressTracker) Initialize(ctx context.Context, courseID, userID uint) (*models.CourseProgress, error) {
	return t.initialize(t.db.WithContext(ctx), courseID, userID)
}

func (t *ProgressTracker) initialize(tx *gorm.DB, courseID, userID uint) (*models.CourseProgress, error) {
	var count int64
	if err := tx.Model(&models.CourseProgress{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return nil, utils.InternalError("Could not check course progress", err)
	}
	if count > 0 {
		return nil, utils.ConflictError("Course progress already exists", ErrAlreadyExists)
	}

	progress := &models.CourseProgress{CourseID: courseID, UserID: userID}
	if err := tx.Create(progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("Course progress already exists", fmt.Errorf("%w: %w", ErrAlreadyExists, err))
		}
		return nil, utils.InternalError("Could not create course progress", err)
	}
	return progress, nil
}

// Get loads the progress record with its completed units
func (t *ProgressTracker) Get(ctx context.Context, courseID, userID uint) (*models.CourseProgress, error) {
	return t.get(t.db.WithContext(ctx), courseID, userID)
}

func (t *ProgressTracker) get(tx *gorm.DB, courseID, userID uint) (*models.CourseProgress, error) {
	var progress models.CourseProgress
	err := tx.Preload("CompletedUnits", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("course_id = ? AND user_id = ?", courseID, userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Course Progress Does Not Exist", ErrProgressNotFound)
		}
		return nil, utils.InternalError("Could not load course progress", err)
	}
	return &progress, nil
}

// MarkCompleted adds unitID to the completed set. The unit must be a
// subsection of the course and must not already be completed.
func (t *ProgressTracker) MarkCompleted(ctx context.Context, courseID, userID, unitID uint) (*models.CourseProgress, error) {
	db := t.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.SubSection{}).
		Joins("JOIN sections ON sections.id = sub_sections.section_id").
		Where("sub_sections.id = ? AND sections.course_id = ?", unitID, courseID).
		Count(&count).Error; err != nil {
		return nil, utils.InternalError("Could not load subsection", err)
	}
	if count == 0 {
		return nil, utils.NotFoundError("Invalid SubSection", ErrUnitNotFound)
	}

	progress, err := t.get(db, courseID, userID)
	if err != nil {
		return nil, err
	}
	if progress.HasUnit(unitID) {
		return nil, utils.ConflictError("Subsection already completed", ErrAlreadyCompleted)
	}

	unit := models.CompletedUnit{CourseProgressID: progress.ID, SubSectionID: unitID}
	if err := db.Create(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("Subsection already completed", ErrAlreadyCompleted)
		}
		return nil, utils.InternalError("Could not update course progress", err)
	}
	progress.CompletedUnits = append(progress.CompletedUnits, unit)

	utils.LogInfo("User %d completed subsection %d of course %d", userID, unitID, courseID)
	return progress, nil
}

// Percentage returns completed/total as a percentage rounded to two decimals
func Percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
