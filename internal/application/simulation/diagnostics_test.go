package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/test/helpers"
)

func TestStalledFleets_ListsQuietFleetsMidTrip(t *testing.T) {
	// Arrange
	w, err := helpers.NewWorldFixture().
		Ware("energy_cells", 12, 1).
		Station("A", "", "alpha", map[string]int{"energy_cells": 600}).
		Station("B", "", "beta", nil).
		Fleet("trader-1", "", "alpha", 500).
		Fleet("trader-2", "", "alpha", 500).
		Fleet("trader-3", "", "alpha", 500).
		Price("alpha", "energy_cells", 10).
		Price("beta", "energy_cells", 15).
		Build()
	require.NoError(t, err)
	engine := simulation.NewEngine()
	engine.Tick(w, 10)
	engine.Tick(w, 290)
	// report timestamps run on the reporting side's clock
	engine.HandleReport(w, events.Report{Type: events.ReportArrivedAtStation, FleetID: "trader-2", StationID: "A", Timestamp: 86400})
	engine.HandleReport(w, events.Report{Type: events.ReportCargoUnloaded, FleetID: "trader-3", StationID: "B", Timestamp: 86410})

	// Act
	stalled := w.StalledFleets(700, 600)

	// Assert: trader-2 was heard from at 300 and trader-3 is idle again
	require.Len(t, stalled, 1)
	assert.Equal(t, "trader-1", stalled[0].FleetID)
	assert.Equal(t, fleet.StateInTransit, stalled[0].State)
	assert.Equal(t, 10.0, stalled[0].StalledSince)
	assert.Equal(t, fleet.CommandGotoStation, stalled[0].PendingCommand)
	assert.Equal(t, 8, stalled[0].PendingCount)

	trader2, _ := w.Fleet("trader-2")
	assert.Equal(t, 86400.0, trader2.StateStartTime)
	assert.Equal(t, 300.0, trader2.LastContactAt)

	all := w.StalledFleets(2000, 600)
	require.Len(t, all, 2)
	assert.Equal(t, "trader-1", all[0].FleetID)
	assert.Equal(t, "trader-2", all[1].FleetID)
}

func TestStarvedStations(t *testing.T) {
	w, err := helpers.NewWorldFixture().
		Ware("energy_cells", 16, 1).
		Ware("wheat", 30, 1).
		Recipe("wheat_farm", "wheat", 60, 10, catalog.RecipeInput{WareID: "energy_cells", AmountPerCycle: 5}).
		Station("farm-1", "wheat_farm", "home_of_light", map[string]int{"energy_cells": 0}).
		Station("farm-2", "wheat_farm", "home_of_light", nil).
		Build()
	require.NoError(t, err)

	simulation.NewEngine().Tick(w, 60)

	assert.Equal(t, []string{"farm-1"}, w.StarvedStations())
}
