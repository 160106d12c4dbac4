package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Anantmishra121/learningedgeBackend/config"
	"github.com/Anantmishra121/learningedgeBackend/models"
	"github.com/Anantmishra121/learningedgeBackend/utils"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps every statement on the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestUser creates a user of the given account type
func CreateTestUser(t *testing.T, db *gorm.DB, email, accountType string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("Test@1234")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		Password:    hash,
		AccountType: accountType,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Description: name + " courses"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return category
}

// CreateTestCourse creates a published course with one section of units lessons
func CreateTestCourse(t *testing.T, db *gorm.DB, instructorID, categoryID uint, name string, price int64, units int) *models.Course {
	t.Helper()

	course := &models.Course{
		CourseName:        name,
		CourseDescription: name + " description",
		Price:             price,
		Tag:               datatypes.JSON(`["go"]`),
		Instructions:      datatypes.JSON(`[]`),
		Status:            models.CourseStatusPublished,
		InstructorID:      instructorID,
		CategoryID:        categoryID,
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}

	section := models.Section{SectionName: "Introduction", CourseID: course.ID}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("Failed to create test section: %v", err)
	}
	for i := 0; i < units; i++ {
		sub := models.SubSection{
			SectionID:    section.ID,
			Title:        fmt.Sprintf("Lesson %d", i+1),
			TimeDuration: 60,
			VideoURL:     fmt.Sprintf("https://cdn.example.com/%s/%d.mp4", name, i+1),
		}
		if err := db.Create(&sub).Error; err != nil {
			t.Fatalf("Failed to create test subsection: %v", err)
		}
		section.SubSections = append(section.SubSections, sub)
	}
	course.Sections = []models.Section{section}
	return course
}
