package infra

import (
	"fmt"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Unique-index violations must surface as gorm.ErrDuplicatedKey so the
		// stamp and join paths can detect lost races.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by the integration test suite
// against throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Business{},
		&model.BusinessStaff{},
		&model.LoyaltyProgram{},
		&model.Membership{},
		&model.ScanToken{},
		&model.StampEvent{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// express: partial indexes used by the hot paths of the scan protocol.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Live-token lookup used by supersede/consume; only issued rows matter.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_scan_tokens_live') THEN
		    CREATE INDEX idx_scan_tokens_live
		        ON scan_tokens (membership_id)
		        WHERE status = 'issued';
		  END IF;
		END $$`,
		// Cooldown check: latest event per (business, customer).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stamp_events_cooldown') THEN
		    CREATE INDEX idx_stamp_events_cooldown
		        ON stamp_events (business_id, customer_user_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
