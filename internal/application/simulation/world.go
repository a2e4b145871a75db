package simulation

import (
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/corporation"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

// World is the complete mutable state of one simulation. There is no global
// state: every Engine call receives the World it operates on, so independent
// worlds (tests, parallel sessions) can coexist.
//
// A World is not safe for concurrent use. Callers serialize Tick and
// HandleReport on the same World (see Runner).
type World struct {
	Catalog        *catalog.Catalog
	Prices         trading.SectorPrices
	ElapsedSeconds float64

	stations     []*station.Station
	stationIndex map[string]*station.Station

	corporations []*corporation.Corporation
	corpIndex    map[string]*corporation.Corporation

	fleets     []*fleet.Fleet
	fleetIndex map[string]*fleet.Fleet

	ledger []*ledger.Transaction
}

// WorldSeed is everything consumed once at world-init
type WorldSeed struct {
	Catalog      *catalog.Catalog
	Stations     []*station.Station
	Corporations []*corporation.Corporation
	Fleets       []fleet.SpawnConfig
	Prices       trading.SectorPrices
}

// NewWorld builds a world from its seed. Stations with a resolvable recipe
// get their starting stock (wares already present are kept as given); one
// fleet is spawned per spawn config and attached to its owner.
//
// Unknown references in the seed are reported as errors here. Once built, the
// world never errors: bad runtime references are dropped.
func NewWorld(seed WorldSeed) (*World, error) {
	if seed.Catalog == nil {
		return nil, shared.NewValidationError("catalog", "required")
	}

	for _, st := range seed.Stations {
		if recipe, ok := seed.Catalog.Recipe(st.RecipeID); ok {
			st.SeedInventory(recipe)
		}
	}

	fleets := make([]*fleet.Fleet, 0, len(seed.Fleets))
	for _, cfg := range seed.Fleets {
		f, err := fleet.Spawn(cfg)
		if err != nil {
			return nil, err
		}
		fleets = append(fleets, f)
	}

	w, err := assemble(seed.Catalog, seed.Stations, seed.Corporations, fleets, seed.Prices)
	if err != nil {
		return nil, err
	}

	for _, f := range w.fleets {
		if f.OwnerID == "" {
			continue
		}
		owner, ok := w.corpIndex[f.OwnerID]
		if !ok {
			return nil, shared.NewUnknownReferenceError("corporation", f.OwnerID)
		}
		owner.AttachFleet(f.ID)
	}

	return w, nil
}

// assemble indexes entities and checks cross references
func assemble(
	cat *catalog.Catalog,
	stations []*station.Station,
	corps []*corporation.Corporation,
	fleets []*fleet.Fleet,
	prices trading.SectorPrices,
) (*World, error) {
	if prices == nil {
		prices = make(trading.SectorPrices)
	}

	w := &World{
		Catalog:      cat,
		Prices:       prices,
		stationIndex: make(map[string]*station.Station, len(stations)),
		corpIndex:    make(map[string]*corporation.Corporation, len(corps)),
		fleetIndex:   make(map[string]*fleet.Fleet, len(fleets)),
	}

	for _, st := range stations {
		if _, exists := w.stationIndex[st.ID]; exists {
			return nil, shared.NewDuplicateIDError("station", st.ID)
		}
		w.stationIndex[st.ID] = st
		w.stations = append(w.stations, st)
	}

	for _, c := range corps {
		if _, exists := w.corpIndex[c.ID]; exists {
			return nil, shared.NewDuplicateIDError("corporation", c.ID)
		}
		for _, stationID := range c.StationIDs {
			if _, ok := w.stationIndex[stationID]; !ok {
				return nil, shared.NewUnknownReferenceError("station", stationID)
			}
		}
		w.corpIndex[c.ID] = c
		w.corporations = append(w.corporations, c)
	}

	for _, f := range fleets {
		if _, exists := w.fleetIndex[f.ID]; exists {
			return nil, shared.NewDuplicateIDError("fleet", f.ID)
		}
		w.fleetIndex[f.ID] = f
		w.fleets = append(w.fleets, f)
	}

	return w, nil
}

// Station looks up a station by id
func (w *World) Station(id string) (*station.Station, bool) {
	st, ok := w.stationIndex[id]
	return st, ok
}

// Stations returns stations in registration order
func (w *World) Stations() []*station.Station {
	out := make([]*station.Station, len(w.stations))
	copy(out, w.stations)
	return out
}

// Fleet looks up a fleet by id
func (w *World) Fleet(id string) (*fleet.Fleet, bool) {
	f, ok := w.fleetIndex[id]
	return f, ok
}

// Fleets returns fleets in registration order
func (w *World) Fleets() []*fleet.Fleet {
	out := make([]*fleet.Fleet, len(w.fleets))
	copy(out, w.fleets)
	return out
}

// Corporation looks up a corporation by id
func (w *World) Corporation(id string) (*corporation.Corporation, bool) {
	c, ok := w.corpIndex[id]
	return c, ok
}

// Corporations returns corporations in registration order
func (w *World) Corporations() []*corporation.Corporation {
	out := make([]*corporation.Corporation, len(w.corporations))
	copy(out, w.corporations)
	return out
}

// Ledger returns all recorded transactions, oldest first
func (w *World) Ledger() []*ledger.Transaction {
	out := make([]*ledger.Transaction, len(w.ledger))
	copy(out, w.ledger)
	return out
}

// LedgerSince returns transactions recorded after the first n
func (w *World) LedgerSince(n int) []*ledger.Transaction {
	if n < 0 {
		n = 0
	}
	if n >= len(w.ledger) {
		return nil
	}
	out := make([]*ledger.Transaction, len(w.ledger)-n)
	copy(out, w.ledger[n:])
	return out
}

// TotalUnits sums a ware across all station inventories and fleet holds
func (w *World) TotalUnits(wareID string) int {
	total := 0
	for _, st := range w.stations {
		total += st.Inventory.Get(wareID)
	}
	for _, f := range w.fleets {
		total += f.Cargo.Get(wareID)
	}
	return total
}

func (w *World) record(t *ledger.Transaction) {
	w.ledger = append(w.ledger, t)
}
