package simulation_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/test/helpers"
)

// recordingMetrics captures what the engine reports
type recordingMetrics struct {
	ticks     int
	assigned  int
	completed int
	profit    int
	batches   int
	drops     []string
}

func (m *recordingMetrics) RecordTick(float64) { m.ticks++ }
func (m *recordingMetrics) RecordProduction(_, _ string, batches, _ int) {
	m.batches += batches
}
func (m *recordingMetrics) RecordStarvedStations(int)            {}
func (m *recordingMetrics) RecordTradeAssigned(string, int, int) { m.assigned++ }
func (m *recordingMetrics) RecordTradeCompleted(_ string, _ int, profit int) {
	m.completed++
	m.profit += profit
}
func (m *recordingMetrics) RecordReportDropped(reason string) { m.drops = append(m.drops, reason) }

func report(t events.ReportType, fleetID string, at float64) events.Report {
	return events.Report{Type: t, FleetID: fleetID, Timestamp: at}
}

func TestNewWorld_SeedsStationsFromRecipes(t *testing.T) {
	// Arrange & Act
	w, err := helpers.NewWorldFixture().
		Ware("energy_cells", 16, 1).
		Ware("wheat", 30, 2).
		CappedRecipe("wheat_farm", "wheat", 60, 10, 500, catalog.RecipeInput{WareID: "energy_cells", AmountPerCycle: 20}).
		Station("farm-1", "wheat_farm", "home_of_light", nil).
		Station("farm-2", "wheat_farm", "home_of_light", map[string]int{"energy_cells": 0}).
		Build()

	// Assert
	require.NoError(t, err)
	farm1, ok := w.Station("farm-1")
	require.True(t, ok)
	assert.Equal(t, 200, farm1.Inventory.Get("wheat"))
	assert.Equal(t, 60, farm1.Inventory.Get("energy_cells"))

	farm2, _ := w.Station("farm-2")
	assert.Equal(t, 0, farm2.Inventory.Get("energy_cells"))
	assert.Equal(t, 200, farm2.Inventory.Get("wheat"))
}

func TestNewWorld_AttachesFleetsToOwners(t *testing.T) {
	w, err := helpers.NewWorldFixture().
		Ware("ore", 50, 10).
		Corporation("nova", 0).
		Fleet("nova-1", "nova", "belt", 100).
		Fleet("free-1", "", "belt", 100).
		Build()

	require.NoError(t, err)
	nova, ok := w.Corporation("nova")
	require.True(t, ok)
	assert.Equal(t, []string{"nova-1"}, nova.FleetIDs)
	assert.Len(t, w.Fleets(), 2)
}

func TestNewWorld_RejectsBadReferences(t *testing.T) {
	_, err := helpers.NewWorldFixture().
		Ware("ore", 50, 10).
		Fleet("nova-1", "nova", "belt", 100).
		Build()
	var unknown *shared.UnknownReferenceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nova", unknown.ID)

	_, err = helpers.NewWorldFixture().
		Ware("ore", 50, 10).
		Station("S", "", "belt", nil).
		Station("S", "", "belt", nil).
		Build()
	var dup *shared.DuplicateIDError
	require.True(t, errors.As(err, &dup))

	_, err = helpers.NewWorldFixture().
		Corporation("nova", 0, "missing-station").
		Build()
	require.True(t, errors.As(err, &unknown))
}

func TestTick_IgnoresInvalidSteps(t *testing.T) {
	// Arrange
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	metrics := &recordingMetrics{}
	engine := simulation.NewEngine(simulation.WithMetrics(metrics))

	// Act
	for _, delta := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		engine.Tick(w, delta)
	}

	// Assert
	assert.Equal(t, 0.0, w.ElapsedSeconds)
	assert.Equal(t, 0, metrics.ticks)
	f, _ := w.Fleet("trader-1")
	assert.Equal(t, fleet.StateIdle, f.State)
}

func TestTick_ProducesThenAssigns(t *testing.T) {
	// Arrange: the station only has enough cells to export after one cycle
	w, err := helpers.NewWorldFixture().
		Ware("energy_cells", 16, 1).
		Recipe("solar_power_plant", "energy_cells", 60, 100).
		Station("spp-1", "solar_power_plant", "argon_prime", map[string]int{"energy_cells": 0}).
		Station("farm-1", "", "home_of_light", nil).
		Fleet("trader-1", "", "argon_prime", 500).
		Price("argon_prime", "energy_cells", 16).
		Price("home_of_light", "energy_cells", 21).
		Build()
	require.NoError(t, err)
	metrics := &recordingMetrics{}
	engine := simulation.NewEngine(simulation.WithMetrics(metrics))

	// Act
	engine.Tick(w, 30)
	f, _ := w.Fleet("trader-1")
	assert.Equal(t, fleet.StateIdle, f.State)
	engine.Tick(w, 30)

	// Assert
	assert.Equal(t, 1, metrics.batches)
	assert.Equal(t, 1, metrics.assigned)
	require.NotNil(t, f.CurrentOrder)
	assert.Equal(t, 60, f.CurrentOrder.BuyQty())
	assert.Equal(t, 300, f.CurrentOrder.ExpectedProfit())
	assert.Equal(t, 60.0, w.ElapsedSeconds)
}

func TestHandleReport_ClampsLoadToStationStock(t *testing.T) {
	// Arrange
	w, err := helpers.NewWorldFixture().
		Ware("ore", 50, 10).
		Station("S", "", "belt", map[string]int{"ore": 120}).
		Fleet("miner-1", "", "belt", 20000).
		Build()
	require.NoError(t, err)
	engine := simulation.NewEngine()

	// Act
	engine.HandleReport(w, events.Report{
		Type:      events.ReportCargoLoaded,
		FleetID:   "miner-1",
		StationID: "S",
		WareID:    "ore",
		Amount:    1000,
	})

	// Assert
	st, _ := w.Station("S")
	f, _ := w.Fleet("miner-1")
	assert.Equal(t, 0, st.Inventory.Get("ore"))
	assert.Equal(t, 120, f.Cargo.Get("ore"))
}

func TestHandleReport_RoundTripConservesGoodsAndSettles(t *testing.T) {
	// Arrange
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	metrics := &recordingMetrics{}
	engine := simulation.NewEngine(simulation.WithMetrics(metrics))
	engine.Tick(w, 1)

	f, _ := w.Fleet("trader-1")
	require.Equal(t, 8, f.Queue.Len())

	steps := []events.Report{
		{Type: events.ReportArrivedAtStation, StationID: "A", SectorID: "alpha"},
		{Type: events.ReportDocked, StationID: "A", SectorID: "alpha"},
		{Type: events.ReportCargoLoaded, StationID: "A", WareID: "energy_cells", Amount: 360},
		{Type: events.ReportEnteredSector, SectorID: "beta"},
		{Type: events.ReportArrivedAtStation, StationID: "B", SectorID: "beta"},
		{Type: events.ReportDocked, StationID: "B", SectorID: "beta"},
		{Type: events.ReportCargoUnloaded, StationID: "B", WareID: "energy_cells", Amount: 360},
	}
	wantQueue := []int{7, 6, 5, 4, 3, 2, 0}
	wantState := []fleet.State{
		fleet.StateDocking, fleet.StateDocking, fleet.StateInTransit, fleet.StateInTransit,
		fleet.StateDocking, fleet.StateDocking, fleet.StateIdle,
	}

	// Act & Assert
	for i, r := range steps {
		r.FleetID = "trader-1"
		r.Timestamp = float64(10 + i)
		engine.HandleReport(w, r)

		assert.Equal(t, 600, w.TotalUnits("energy_cells"), "after %s", r.Type)
		assert.Equal(t, wantQueue[i], f.Queue.Len(), "queue after %s", r.Type)
		assert.Equal(t, wantState[i], f.State, "state after %s", r.Type)
	}

	a, _ := w.Station("A")
	b, _ := w.Station("B")
	corp, _ := w.Corporation("argon_federation")
	assert.Equal(t, 240, a.Inventory.Get("energy_cells"))
	assert.Equal(t, 360, b.Inventory.Get("energy_cells"))
	assert.Equal(t, "beta", f.CurrentSectorID)
	assert.Nil(t, f.CurrentOrder)
	assert.Equal(t, 1800, f.TotalProfit)
	assert.Equal(t, 1, f.TripsCompleted)
	assert.Equal(t, 11800, corp.Credits)
	assert.Equal(t, 1, metrics.completed)
	assert.Equal(t, 1800, metrics.profit)

	entries := w.Ledger()
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TransactionTypeTradeSettled, entries[0].TransactionType())
	assert.Equal(t, 10000, entries[0].BalanceBefore())
	assert.Equal(t, 11800, entries[0].BalanceAfter())
	assert.Equal(t, 16.0, entries[0].Timestamp())
}

func TestHandleReport_ShortDeliverySettlesWhatArrived(t *testing.T) {
	// Arrange: the station only had 100 cells left when the fleet loaded
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	engine := simulation.NewEngine()
	engine.Tick(w, 1)
	a, _ := w.Station("A")
	a.Inventory.Set("energy_cells", 100)

	// Act
	engine.HandleReport(w, events.Report{Type: events.ReportCargoLoaded, FleetID: "trader-1", StationID: "A", WareID: "energy_cells", Amount: 360})
	engine.HandleReport(w, events.Report{Type: events.ReportCargoUnloaded, FleetID: "trader-1", StationID: "B", WareID: "energy_cells", Amount: 360})

	// Assert
	f, _ := w.Fleet("trader-1")
	b, _ := w.Station("B")
	assert.Equal(t, 100, b.Inventory.Get("energy_cells"))
	assert.Equal(t, 500, f.TotalProfit)
	assert.True(t, f.IsEligibleForTrade())
}

func TestHandleReport_DropsUnknownFleetsAndTypes(t *testing.T) {
	// Arrange
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	metrics := &recordingMetrics{}
	engine := simulation.NewEngine(simulation.WithMetrics(metrics))

	// Act
	engine.HandleReport(w, report(events.ReportDocked, "ghost", 1))
	engine.HandleReport(w, report(events.ReportType("warped"), "trader-1", 2))
	engine.HandleReport(w, report(events.ReportCargoLoaded, "trader-1", 3))

	// Assert
	assert.Equal(t, []string{"unknown_fleet", "unknown_type", "load_missing_station_or_ware"}, metrics.drops)
	assert.Equal(t, 600, w.TotalUnits("energy_cells"))
	f, _ := w.Fleet("trader-1")
	assert.Equal(t, 3.0, f.StateStartTime)
}

func TestHandleReport_UnknownTypeStillRefreshesFleet(t *testing.T) {
	// Arrange
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	engine := simulation.NewEngine()
	pos := shared.NewPosition(4, 5, 6)

	// Act
	engine.HandleReport(w, events.Report{Type: events.ReportType("warped"), FleetID: "trader-1", SectorID: "beta", Position: &pos, Timestamp: 42})

	// Assert
	f, _ := w.Fleet("trader-1")
	assert.Equal(t, "beta", f.CurrentSectorID)
	assert.Equal(t, pos, f.Position)
	assert.Equal(t, 42.0, f.StateStartTime)
	assert.Equal(t, fleet.StateIdle, f.State)
	assert.Equal(t, 0, f.Queue.Len())
}

func TestHandleReport_DockedCompletesPendingGoto(t *testing.T) {
	// Arrange: the arrival report was lost
	w, err := helpers.TwoStationTradeWorld()
	require.NoError(t, err)
	engine := simulation.NewEngine()
	engine.Tick(w, 1)

	// Act
	engine.HandleReport(w, events.Report{Type: events.ReportDocked, FleetID: "trader-1", StationID: "A"})

	// Assert
	f, _ := w.Fleet("trader-1")
	assert.Equal(t, 6, f.Queue.Len())
	assert.Equal(t, fleet.CommandLoadCargo, f.Queue.Current().Kind())
}
