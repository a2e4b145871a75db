package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
)

// TestRepositories holds all real repository instances for integration tests
type TestRepositories struct {
	DB           *gorm.DB
	Snapshots    *persistence.GormSnapshotRepository
	Transactions *persistence.GormTransactionRepository
}

// NewTestRepositories creates all real repository instances using shared test DB
func NewTestRepositories() *TestRepositories {
	return NewTestRepositoriesFor(SharedTestDB)
}

// NewTestRepositoriesFor creates repositories on a specific database
func NewTestRepositoriesFor(db *gorm.DB) *TestRepositories {
	return &TestRepositories{
		DB:           db,
		Snapshots:    persistence.NewGormSnapshotRepository(db),
		Transactions: persistence.NewGormTransactionRepository(db),
	}
}
