package helpers

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/corporation"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

// WorldFixture assembles small worlds for tests. Every method records the
// first error it hits and Build reports it, so steps can chain calls freely.
//
// Stations added with an empty recipe id are inert: they never produce and
// are not seeded, which keeps their inventory exactly as given.
type WorldFixture struct {
	wares    []*catalog.Ware
	recipes  []*catalog.Recipe
	stations []*station.Station
	corps    []*corporation.Corporation
	fleets   []fleet.SpawnConfig
	prices   trading.SectorPrices
	err      error
}

// NewWorldFixture creates an empty fixture
func NewWorldFixture() *WorldFixture {
	return &WorldFixture{prices: make(trading.SectorPrices)}
}

// Ware declares a primary ware
func (f *WorldFixture) Ware(id string, basePrice, unitVolume int) *WorldFixture {
	w, err := catalog.NewWare(id, id, catalog.CategoryPrimary, basePrice, unitVolume)
	if err != nil {
		f.fail(err)
		return f
	}
	f.wares = append(f.wares, w)
	return f
}

// Recipe declares a recipe with no storage cap
func (f *WorldFixture) Recipe(id, productID string, cycleTimeSec float64, batchSize int, inputs ...catalog.RecipeInput) *WorldFixture {
	return f.CappedRecipe(id, productID, cycleTimeSec, batchSize, 0, inputs...)
}

// CappedRecipe declares a recipe whose product stock is capped
func (f *WorldFixture) CappedRecipe(id, productID string, cycleTimeSec float64, batchSize, storageCap int, inputs ...catalog.RecipeInput) *WorldFixture {
	r, err := catalog.NewRecipe(id, productID, inputs, cycleTimeSec, batchSize, storageCap)
	if err != nil {
		f.fail(err)
		return f
	}
	f.recipes = append(f.recipes, r)
	return f
}

// Station adds a station holding exactly the given inventory
func (f *WorldFixture) Station(id, recipeID, sectorID string, inventory map[string]int) *WorldFixture {
	st, err := station.NewStation(id, id, recipeID, sectorID)
	if err != nil {
		f.fail(err)
		return f
	}
	for wareID, units := range inventory {
		st.Inventory.Set(wareID, units)
	}
	f.stations = append(f.stations, st)
	return f
}

// Corporation adds a corporation owning the given stations
func (f *WorldFixture) Corporation(id string, credits int, stationIDs ...string) *WorldFixture {
	c, err := corporation.NewCorporation(id, id, "argon", credits)
	if err != nil {
		f.fail(err)
		return f
	}
	for _, stationID := range stationIDs {
		c.AttachStation(stationID)
	}
	f.corps = append(f.corps, c)
	return f
}

// Fleet adds a fleet spawned in its home sector
func (f *WorldFixture) Fleet(id, ownerID, homeSectorID string, capacity int) *WorldFixture {
	f.fleets = append(f.fleets, fleet.SpawnConfig{
		ID:           id,
		OwnerID:      ownerID,
		ShipType:     "freighter",
		Capacity:     capacity,
		Speed:        100,
		HomeSectorID: homeSectorID,
		Position:     shared.NewPosition(0, 0, 0),
	})
	return f
}

// Price lists a ware price in a sector
func (f *WorldFixture) Price(sectorID, wareID string, price int) *WorldFixture {
	f.prices.Set(sectorID, wareID, price)
	return f
}

// Build creates the world
func (f *WorldFixture) Build() (*simulation.World, error) {
	if f.err != nil {
		return nil, f.err
	}

	cat, err := catalog.New(f.wares, f.recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}

	return simulation.NewWorld(simulation.WorldSeed{
		Catalog:      cat,
		Stations:     f.stations,
		Corporations: f.corps,
		Fleets:       f.fleets,
		Prices:       f.prices,
	})
}

func (f *WorldFixture) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// TwoStationTradeWorld is the reference trade setup: station A in sector
// alpha exports 600 energy cells priced at 10, station B in sector beta holds
// none and pays 15, and one fleet of capacity 500 waits idle.
func TwoStationTradeWorld() (*simulation.World, error) {
	return NewWorldFixture().
		Ware("energy_cells", 12, 1).
		Station("A", "", "alpha", map[string]int{"energy_cells": 600}).
		Station("B", "", "beta", map[string]int{"energy_cells": 0}).
		Corporation("argon_federation", 10000, "A", "B").
		Fleet("trader-1", "argon_federation", "alpha", 500).
		Price("alpha", "energy_cells", 10).
		Price("beta", "energy_cells", 15).
		Build()
}
