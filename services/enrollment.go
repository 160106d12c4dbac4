package services

import (
	"context"
	"errors"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"gorm.io/gorm"
)

// EnrollmentResult is the outcome of enrolling one user in one course
type EnrollmentResult struct {
	Course          *models.Course
	Enrollment      *models.Enrollment
	Progress        *models.CourseProgress
	AlreadyEnrolled bool
}

// EnrollmentEngine adds users to course rosters and starts their progress tracking
type EnrollmentEngine struct {
	db       *gorm.DB
	progress *ProgressTracker
}

// NewEnrollmentEngine creates an engine that initializes progress through tracker
func NewEnrollmentEngine(db *gorm.DB, tracker *ProgressTracker) *EnrollmentEngine {
	return &EnrollmentEngine{db: db, progress: tracker}
}

// Enroll adds userID to courseID in a single transaction. Enrolling twice
// converges on the existing edge and reports AlreadyEnrolled.
func (e *EnrollmentEngine) Enroll(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error) {
	result, err := e.enroll(ctx, userID, courseID)
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent verification committed first, re-read its rows
		utils.LogWarn("Concurrent enrollment detected for user %d in course %d", userID, courseID)
		result, err = e.enroll(ctx, userID, courseID)
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ConflictError("Student is already enrolled", ErrAlreadyEnrolled)
		}
	}
	return result, err
}

func (e *EnrollmentEngine) enroll(ctx context.Context, userID, courseID uint) (*EnrollmentResult, error) {
	result := &EnrollmentResult{}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("Course not found", ErrCourseNotFound)
			}
			return utils.InternalError("Could not load course", err)
		}
		result.Course = &course

		var existing models.Enrollment
		found := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Limit(1).Find(&existing)
		if found.Error != nil {
			return utils.InternalError("Could not check enrollment", found.Error)
		}
		if found.RowsAffected > 0 {
			result.Enrollment = &existing
			result.AlreadyEnrolled = true
			if existing.CourseProgressID != nil {
				if progress, err := e.progress.get(tx, courseID, userID); err == nil {
					result.Progress = progress
				}
			}
			return nil
		}

		progress, err := e.progress.initialize(tx, courseID, userID)
		if err != nil {
			if !errors.Is(err, ErrAlreadyExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			// progress survived an earlier unenrollment, reuse it
			if progress, err = e.progress.get(tx, courseID, userID); err != nil {
				return err
			}
		}
		result.Progress = progress

		enrollment := models.Enrollment{
			UserID:           userID,
			CourseID:         courseID,
			CourseProgressID: &progress.ID,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return utils.InternalError("Could not enroll student", err)
		}
		result.Enrollment = &enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyEnrolled {
		utils.LogInfo("User %d enrolled in course %d", userID, courseID)
	}
	return result, nil
}

// IsEnrolled reports whether userID is on the roster of courseID
func (e *EnrollmentEngine) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, utils.InternalError("Could not check enrollment", err)
	}
	return count > 0, nil
}

// Roster lists the students enrolled in courseID
func (e *EnrollmentEngine) Roster(ctx context.Context, courseID uint) ([]models.User, error) {
	var users []models.User
	err := e.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("enrollments.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, utils.InternalError("Could not load enrolled students", err)
	}
	return users, nil
}

// EnrolledCourses lists the courses of userID with their content loaded
func (e *EnrollmentEngine) EnrolledCourses(ctx context.Context, userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := e.db.WithContext(ctx).
		Preload("Sections.SubSections").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, utils.InternalError("Could not load enrolled courses", err)
	}
	return courses, nil
}

// StudentCounts returns the number of enrolled students per course id
func (e *EnrollmentEngine) StudentCounts(ctx context.Context, courseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uint
		Total    int64
	}
	err := e.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, utils.InternalError("Could not count enrolled students", err)
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}
