package config

import (
	"fmt"

	"github.com/Anantmishra121/learningedgeBackend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the postgres connection and migrates the schema
func InitDB(config *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// Migrate creates or updates every table used by the application
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.Category{},
		&models.Course{},
		&models.Section{},
		&models.SubSection{},
		&models.CourseProgress{},
		&models.CompletedUnit{},
		&models.Enrollment{},
		&models.Payment{},
		&models.RatingAndReview{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
