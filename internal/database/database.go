package database

import (
	"strings"

	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init opens postgres for postgres URLs and SQLite for anything else, then
// migrates the schema.
func Init(databaseURL string, production bool) (*gorm.DB, error) {
	level := gormlogger.Info
	if production {
		level = gormlogger.Silent
	}

	db, err := Open(databaseURL, gormlogger.Default.LogMode(level))
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Open(databaseURL string, log gormlogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: log}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		logger.Info("Connecting to PostgreSQL")
		return gorm.Open(postgres.Open(databaseURL), cfg)
	}

	logger.Info("Using SQLite database: " + databaseURL)
	db, err := gorm.Open(sqlite.Open(databaseURL), cfg)
	if err != nil {
		return nil, err
	}
	// cascades rely on foreign keys being enforced
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates tables parents first so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.College{},
		&models.Hostel{},
		&models.Review{},
	)
}
