package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/test/helpers"
)

func settledTrade(t *testing.T, fleetID string, at float64, profit int) *ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(ledger.Entry{
		Timestamp:     at,
		Type:          ledger.TransactionTypeTradeSettled,
		CorporationID: "argon_federation",
		FleetID:       fleetID,
		WareID:        "energy_cells",
		Quantity:      profit / 5,
		BuyPrice:      10,
		SellPrice:     15,
		Amount:        profit,
		BalanceBefore: 10000,
		Description:   "energy_cells A -> B",
	})
	require.NoError(t, err)
	return tx
}

func TestTransactionRepository_CreateAndFindByID(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	ctx := context.Background()
	tx := settledTrade(t, "trader-1", 16, 1800)

	// Act
	err := repo.Create(ctx, "reference", tx)
	require.NoError(t, err)
	found, err := repo.FindByID(ctx, tx.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, tx.ID(), found.ID())
	assert.Equal(t, tx.Entry(), found.Entry())
	assert.Equal(t, 11800, found.BalanceAfter())
	assert.Equal(t, ledger.TransactionTypeTradeSettled, found.TransactionType())
}

func TestTransactionRepository_FindByIDNotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)

	_, err := repo.FindByID(context.Background(), ledger.NewTransactionID())

	var notFound *ledger.ErrTransactionNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestTransactionRepository_FindFiltersAndOrders(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	ctx := context.Background()

	grant, err := ledger.NewTransaction(ledger.Entry{
		Timestamp:     5,
		Type:          ledger.TransactionTypeCreditAdjustment,
		CorporationID: "argon_federation",
		Amount:        -2500,
		BalanceBefore: 10000,
		Description:   "station upkeep",
	})
	require.NoError(t, err)

	batch := []*ledger.Transaction{
		settledTrade(t, "trader-1", 10, 1800),
		settledTrade(t, "trader-2", 20, 500),
		grant,
	}
	require.NoError(t, repo.CreateBatch(ctx, "reference", batch))
	require.NoError(t, repo.Create(ctx, "other", settledTrade(t, "trader-1", 30, 900)))

	settled := ledger.TransactionTypeTradeSettled
	since := 15.0

	// Act
	all, err := repo.Find(ctx, "reference", persistence.TransactionQuery{})
	require.NoError(t, err)
	trades, err := repo.Find(ctx, "reference", persistence.TransactionQuery{TransactionType: &settled})
	require.NoError(t, err)
	recent, err := repo.Find(ctx, "reference", persistence.TransactionQuery{Since: &since})
	require.NoError(t, err)
	byFleet, err := repo.Find(ctx, "reference", persistence.TransactionQuery{FleetID: "trader-1"})
	require.NoError(t, err)
	paged, err := repo.Find(ctx, "reference", persistence.TransactionQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, 20.0, all[0].Timestamp())
	assert.Equal(t, 10.0, all[1].Timestamp())
	assert.Equal(t, 5.0, all[2].Timestamp())

	assert.Len(t, trades, 2)
	require.Len(t, recent, 1)
	assert.Equal(t, "trader-2", recent[0].FleetID())
	require.Len(t, byFleet, 1)
	assert.Equal(t, 1800, byFleet[0].Amount())
	require.Len(t, paged, 1)
	assert.Equal(t, 10.0, paged[0].Timestamp())
}

func TestTransactionRepository_SumAmount(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.CreateBatch(ctx, "reference", []*ledger.Transaction{
		settledTrade(t, "trader-1", 10, 1800),
		settledTrade(t, "trader-2", 20, 500),
	}))
	settled := ledger.TransactionTypeTradeSettled

	// Act
	total, err := repo.SumAmount(ctx, "reference", persistence.TransactionQuery{TransactionType: &settled})
	require.NoError(t, err)
	empty, err := repo.SumAmount(ctx, "missing", persistence.TransactionQuery{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2300, total)
	assert.Equal(t, 0, empty)
}

func TestTransactionRepository_CreateBatchEmpty(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormTransactionRepository(db)

	assert.NoError(t, repo.CreateBatch(context.Background(), "reference", nil))
}
