package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/infrastructure/config"
)

// NewConnection opens the snapshot/transaction store described by cfg
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}

	switch cfg.Type {
	case "postgres":
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	case "sqlite":
		// A single connection keeps an in-memory database alive and
		// serializes writers on a file database.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		dsn := cfg.URL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		}
		return postgres.Open(dsn), nil

	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects and migrates in one step
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewTestConnection creates a migrated in-memory SQLite database for testing
func NewTestConnection() (*gorm.DB, error) {
	return Open(&config.DatabaseConfig{
		Type: "sqlite",
		Path: ":memory:",
	})
}

// AutoMigrate creates or updates the world_snapshots and transactions tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.WorldSnapshotModel{},
		&persistence.TransactionModel{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
