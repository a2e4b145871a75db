package station

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

const (
	// seedProductShare is the share of the product storage cap stocked at world-init
	seedProductShare = 0.4
	// seedInputCycles is how many cycles of each input are stocked at world-init
	seedInputCycles = 3
	// seedInputFloor is the minimum starting stock of each input
	seedInputFloor = 50
)

// Station is a production site and its ledger: inventory, thresholds and
// production progress.
//
// Invariants:
// - Inventory quantities are never negative
// - ProductionProgress is only reduced by whole completed cycles
//
// A station is created at world-init and never destroyed. Only the production
// scheduler and the event reconciler mutate Inventory and ProductionProgress.
type Station struct {
	ID                 string
	Name               string
	RecipeID           string
	SectorID           string
	Inventory          shared.Inventory
	ReorderLevel       map[string]int
	ReserveLevel       map[string]int
	ProductionProgress float64
}

// NewStation creates an empty station
func NewStation(id, name, recipeID, sectorID string) (*Station, error) {
	if id == "" {
		return nil, shared.NewValidationError("station.id", "cannot be empty")
	}
	if sectorID == "" {
		return nil, shared.NewValidationError("station.sector_id", fmt.Sprintf("cannot be empty for %s", id))
	}
	if name == "" {
		name = id
	}

	return &Station{
		ID:           id,
		Name:         name,
		RecipeID:     recipeID,
		SectorID:     sectorID,
		Inventory:    shared.NewInventory(),
		ReorderLevel: make(map[string]int),
		ReserveLevel: make(map[string]int),
	}, nil
}

// SeedInventory stocks a fresh station from its recipe: the product at 40% of
// its storage cap and every input at max(3 cycles, 50). Thresholds default to
// the same seeding levels. Wares already present in the inventory are kept.
func (s *Station) SeedInventory(recipe *catalog.Recipe) {
	if recipe == nil {
		return
	}

	product := recipe.ProductID()
	if _, seeded := s.Inventory[product]; !seeded {
		s.Inventory.Set(product, int(float64(recipe.ProductStorageCap())*seedProductShare))
	}
	if _, ok := s.ReserveLevel[product]; !ok {
		s.ReserveLevel[product] = int(float64(recipe.ProductStorageCap()) * seedProductShare)
	}

	for _, in := range recipe.Inputs() {
		level := in.AmountPerCycle * seedInputCycles
		if level < seedInputFloor {
			level = seedInputFloor
		}
		if _, seeded := s.Inventory[in.WareID]; !seeded {
			s.Inventory.Set(in.WareID, level)
		}
		if _, ok := s.ReorderLevel[in.WareID]; !ok {
			s.ReorderLevel[in.WareID] = level
		}
	}
}

// IsStarved reports whether the station has a full cycle of backlog but
// cannot run it for lack of inputs
func (s *Station) IsStarved(recipe *catalog.Recipe) bool {
	if recipe == nil {
		return false
	}
	return s.ProductionProgress >= recipe.CycleTimeSec() && !recipe.InputsAvailable(s.Inventory)
}

// Receive adds delivered goods to the inventory
func (s *Station) Receive(wareID string, units int) {
	s.Inventory.Add(wareID, units)
}

// Release removes up to units of a ware and returns how many left the station
func (s *Station) Release(wareID string, units int) int {
	return s.Inventory.Remove(wareID, units)
}

func (s *Station) String() string {
	return fmt.Sprintf("Station(%s@%s)", s.ID, s.SectorID)
}
