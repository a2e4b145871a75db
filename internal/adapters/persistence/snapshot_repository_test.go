package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/test/helpers"
)

func referenceSnapshot(t *testing.T, ticks int) *simulation.Snapshot {
	t.Helper()
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	engine := simulation.NewEngine()
	for i := 0; i < ticks; i++ {
		engine.Tick(w, 1)
	}
	return w.Snapshot()
}

func TestSnapshotRepository_SaveAndRestore(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db)
	ctx := context.Background()
	snap := referenceSnapshot(t, 1)

	// Act
	id, err := repo.Save(ctx, "reference", snap)
	require.NoError(t, err)
	loaded, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	w, err := simulation.Restore(loaded)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.0, w.ElapsedSeconds)
	f, ok := w.Fleet("trader-1")
	require.True(t, ok)
	assert.Equal(t, 8, f.Queue.Len())
	require.NotNil(t, f.CurrentOrder)
	assert.Equal(t, 360, f.CurrentOrder.BuyQty())
}

func TestSnapshotRepository_SaveRejectsNil(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db)

	_, err := repo.Save(context.Background(), "reference", nil)

	assert.Error(t, err)
}

func TestSnapshotRepository_LatestAndList(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db)
	ctx := context.Background()
	_, err := repo.Save(ctx, "reference", referenceSnapshot(t, 1))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "reference", referenceSnapshot(t, 3))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "other", referenceSnapshot(t, 2))
	require.NoError(t, err)

	// Act
	latest, err := repo.Latest(ctx, "reference")
	require.NoError(t, err)
	own, err := repo.List(ctx, "reference", 0)
	require.NoError(t, err)
	all, err := repo.List(ctx, "", 2)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 3.0, latest.ElapsedSeconds)

	require.Len(t, own, 2)
	assert.Equal(t, 3.0, own[0].ElapsedSeconds)
	assert.Equal(t, 2, own[0].StationCount)
	assert.Equal(t, 1, own[0].FleetCount)

	require.Len(t, all, 2)
	assert.Equal(t, "other", all[0].Name)
}

func TestSnapshotRepository_NotFound(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	assert.True(t, errors.Is(err, persistence.ErrSnapshotNotFound))

	_, err = repo.Latest(ctx, "reference")
	assert.True(t, errors.Is(err, persistence.ErrSnapshotNotFound))
}

func TestSnapshotRepository_Prune(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSnapshotRepository(db)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		_, err := repo.Save(ctx, "reference", referenceSnapshot(t, i))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, "other", referenceSnapshot(t, 1))
	require.NoError(t, err)

	// Act
	removed, err := repo.Prune(ctx, "reference", 2)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(2), removed)
	kept, err := repo.List(ctx, "reference", 0)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 4.0, kept[0].ElapsedSeconds)
	assert.Equal(t, 3.0, kept[1].ElapsedSeconds)

	others, err := repo.List(ctx, "other", 0)
	require.NoError(t, err)
	assert.Len(t, others, 1)

	removed, err = repo.Prune(ctx, "reference", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}
