package trading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

type market struct {
	catalog  *catalog.Catalog
	stations []*station.Station
	prices   trading.SectorPrices
}

func newMarket(t *testing.T) *market {
	t.Helper()
	cells, err := catalog.NewWare("energy_cells", "Energy Cells", catalog.CategoryPrimary, 12, 1)
	require.NoError(t, err)
	ore, err := catalog.NewWare("ore", "Ore", catalog.CategoryPrimary, 50, 10)
	require.NoError(t, err)
	cat, err := catalog.New([]*catalog.Ware{cells, ore}, nil)
	require.NoError(t, err)

	return &market{catalog: cat, prices: make(trading.SectorPrices)}
}

func (m *market) station(t *testing.T, id, sector string, stock map[string]int) *station.Station {
	t.Helper()
	st, err := station.NewStation(id, id, "", sector)
	require.NoError(t, err)
	for wareID, units := range stock {
		st.Inventory.Set(wareID, units)
	}
	m.stations = append(m.stations, st)
	return st
}

func idleFleet(t *testing.T, id string, capacity int) *fleet.Fleet {
	t.Helper()
	f, err := fleet.Spawn(fleet.SpawnConfig{
		ID:           id,
		Capacity:     capacity,
		HomeSectorID: "alpha",
		Position:     shared.NewPosition(0, 0, 0),
	})
	require.NoError(t, err)
	return f
}

func TestAssign_ReferenceTrade(t *testing.T) {
	// Arrange
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 600})
	m.station(t, "B", "beta", map[string]int{"energy_cells": 0})
	m.prices.Set("alpha", "energy_cells", 10)
	m.prices.Set("beta", "energy_cells", 15)
	f := idleFleet(t, "trader-1", 500)
	matcher := trading.NewMatcher(trading.DefaultThresholds())

	// Act
	assignments := matcher.Assign(m.stations, m.catalog, m.prices, []*fleet.Fleet{f}, 5)

	// Assert
	require.Len(t, assignments, 1)
	order := assignments[0].Order
	assert.Equal(t, "energy_cells", order.WareID())
	assert.Equal(t, 360, order.BuyQty())
	assert.Equal(t, 360, order.SellQty())
	assert.Equal(t, 1800, order.ExpectedProfit())
	assert.Equal(t, 8, f.Queue.Len())
	assert.Equal(t, fleet.StateInTransit, f.State)
	assert.Equal(t, "A", f.TargetStationID)
	assert.Equal(t, "alpha", f.DestinationSectorID)
	assert.Equal(t, 5.0, f.StateStartTime)
}

func TestFindBest_PriceFallbacks(t *testing.T) {
	// Arrange: no listed price at the seller, so base price 50 applies;
	// no listed price at the buyer means no margin
	m := newMarket(t)
	m.station(t, "mine", "belt", map[string]int{"ore": 100})
	m.station(t, "smelter", "forge", nil)
	matcher := trading.NewMatcher(trading.DefaultThresholds())

	// Act
	_, found := matcher.FindBest(m.stations, m.catalog, m.prices)

	// Assert
	assert.False(t, found)

	// Act: the buyer lists a higher price
	m.prices.Set("forge", "ore", 70)
	best, found := matcher.FindBest(m.stations, m.catalog, m.prices)

	// Assert
	require.True(t, found)
	assert.Equal(t, 50, best.BuyPrice)
	assert.Equal(t, 20, best.ProfitPerUnit)
	assert.Equal(t, 60, best.Amount)
}

func TestFindBest_ThresholdsFilterCandidates(t *testing.T) {
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 49})
	m.station(t, "B", "beta", map[string]int{"energy_cells": 200})
	m.prices.Set("alpha", "energy_cells", 10)
	m.prices.Set("beta", "energy_cells", 15)
	matcher := trading.NewMatcher(trading.DefaultThresholds())

	_, found := matcher.FindBest(m.stations, m.catalog, m.prices)
	assert.False(t, found, "seller below surplus floor and buyer at need ceiling")

	m.stations[0].Inventory.Set("energy_cells", 50)
	m.stations[1].Inventory.Set("energy_cells", 199)
	best, found := matcher.FindBest(m.stations, m.catalog, m.prices)
	require.True(t, found)
	assert.Equal(t, 30, best.Amount)
}

func TestFindBest_CapsPlannedAmount(t *testing.T) {
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 5000})
	m.station(t, "B", "beta", nil)
	m.prices.Set("alpha", "energy_cells", 10)
	m.prices.Set("beta", "energy_cells", 11)

	best, found := trading.NewMatcher(trading.DefaultThresholds()).FindBest(m.stations, m.catalog, m.prices)

	require.True(t, found)
	assert.Equal(t, 800, best.Amount)
}

func TestFindBest_PicksHighestScoreAndKeepsFirstOnTies(t *testing.T) {
	// Arrange: B and C pay the same for energy cells, and ore to B scores
	// the same 1800 as well
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 600, "ore": 100})
	m.station(t, "B", "beta", nil)
	m.station(t, "C", "gamma", nil)
	m.prices.Set("alpha", "energy_cells", 10)
	m.prices.Set("beta", "energy_cells", 15)
	m.prices.Set("gamma", "energy_cells", 15)
	m.prices.Set("alpha", "ore", 50)
	m.prices.Set("beta", "ore", 80)

	// Act
	best, found := trading.NewMatcher(trading.DefaultThresholds()).FindBest(m.stations, m.catalog, m.prices)

	// Assert: the first candidate found is kept
	require.True(t, found)
	assert.Equal(t, "energy_cells", best.Ware.ID())
	assert.Equal(t, "B", best.To.ID)
	assert.Equal(t, 1800, best.Score())
}

func TestAssign_SkipsBusyFleets(t *testing.T) {
	// Arrange
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 600})
	m.station(t, "B", "beta", nil)
	m.prices.Set("alpha", "energy_cells", 10)
	m.prices.Set("beta", "energy_cells", 15)

	loaded := idleFleet(t, "loaded", 500)
	loaded.Cargo.Add("energy_cells", 1)
	queued := idleFleet(t, "queued", 500)
	queued.Queue.Enqueue(fleet.NewUndock("queued", "A", 0))
	moving := idleFleet(t, "moving", 500)
	moving.State = fleet.StateInTransit
	matcher := trading.NewMatcher(trading.DefaultThresholds())

	// Act
	assignments := matcher.Assign(m.stations, m.catalog, m.prices, []*fleet.Fleet{loaded, queued, moving}, 0)

	// Assert
	assert.Empty(t, assignments)
	assert.Equal(t, 1, queued.Queue.Len())
	assert.Nil(t, loaded.CurrentOrder)
}

func TestAssign_ClampsToCapacityWithMinimumBatch(t *testing.T) {
	// Arrange: ore has unit volume 10
	m := newMarket(t)
	m.station(t, "mine", "belt", map[string]int{"ore": 1000})
	m.station(t, "smelter", "forge", nil)
	m.prices.Set("belt", "ore", 50)
	m.prices.Set("forge", "ore", 60)
	hauler := idleFleet(t, "hauler", 2000)
	shuttle := idleFleet(t, "shuttle", 40)
	matcher := trading.NewMatcher(trading.DefaultThresholds())

	// Act
	assignments := matcher.Assign(m.stations, m.catalog, m.prices, []*fleet.Fleet{hauler, shuttle}, 0)

	// Assert
	require.Len(t, assignments, 2)
	assert.Equal(t, 200, assignments[0].Order.BuyQty())
	assert.Equal(t, 10, assignments[1].Order.BuyQty())
}

func TestAssign_NoCandidateLeavesFleetIdle(t *testing.T) {
	m := newMarket(t)
	m.station(t, "A", "alpha", map[string]int{"energy_cells": 600})
	m.station(t, "B", "beta", nil)
	m.prices.Set("alpha", "energy_cells", 15)
	m.prices.Set("beta", "energy_cells", 10)
	f := idleFleet(t, "trader-1", 500)

	assignments := trading.NewMatcher(trading.DefaultThresholds()).Assign(m.stations, m.catalog, m.prices, []*fleet.Fleet{f}, 0)

	assert.Empty(t, assignments)
	assert.Equal(t, fleet.StateIdle, f.State)
	assert.True(t, f.Queue.IsEmpty())
}
