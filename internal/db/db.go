package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/workshop-scheduler/internal/config"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the tables and the constraints that keep CONFIRMED
// appointments of one workshop from overlapping, even under concurrent writers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Workshop{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	for _, stmt := range guardStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate booking guards: %w", err)
		}
	}

	return nil
}

var guardStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$ BEGIN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_time_order CHECK (start_time < end_time);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,
	`DO $$ BEGIN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_confirmed_no_overlap
			EXCLUDE USING gist (
				workshop_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (state = 'CONFIRMED');
	EXCEPTION WHEN duplicate_object OR duplicate_table THEN NULL;
	END $$`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + httperr.ConfirmedStartIndex + `
		ON appointments (workshop_id, start_time)
		WHERE state = 'CONFIRMED'`,
}
