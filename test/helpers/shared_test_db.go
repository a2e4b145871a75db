package helpers

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
)

// SharedTestDB is the singleton database instance used across all integration tests
var SharedTestDB *gorm.DB

// InitializeSharedTestDB creates and migrates the shared test database
// Called once in TestMain before running any tests
func InitializeSharedTestDB() error {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get shared test database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&persistence.WorldSnapshotModel{},
		&persistence.TransactionModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate shared test database: %w", err)
	}

	SharedTestDB = db
	return nil
}

// TruncateAllTables clears all data from all tables
// Called before each scenario to ensure test isolation
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}

	tables := []string{
		"transactions",
		"world_snapshots",
	}

	for _, table := range tables {
		if err := SharedTestDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return nil
}

// CloseSharedTestDB closes the shared database connection
// Called in TestMain after all tests complete
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}

	sqlDB, err := SharedTestDB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
