package production

import (
	"math"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

// Output is what one station produced during an Advance call
type Output struct {
	StationID string
	WareID    string
	Batches   int
	Units     int
}

// Result summarises one Advance call
type Result struct {
	Outputs []Output
	// Starved lists stations holding at least one full cycle of backlog that
	// could not run for lack of inputs
	Starved []string
}

// TotalBatches sums completed cycles across stations
func (r Result) TotalBatches() int {
	total := 0
	for _, o := range r.Outputs {
		total += o.Batches
	}
	return total
}

// Scheduler advances station production cycles by elapsed simulated time.
//
// This is a domain service with no infrastructure dependencies and no state
// of its own; all progress lives on the stations.
type Scheduler struct{}

// NewScheduler creates a scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Advance credits deltaSeconds to every station with a resolvable recipe and
// runs as many whole cycles as the accumulated progress and inputs allow.
//
// A cycle is atomic: all inputs are deducted and the batch is added, or
// nothing happens. When inputs run short the loop stops without consuming
// progress, so the backlog is honoured once inputs arrive. Stations whose
// recipe cannot be resolved are inert. A zero step adds no time but still
// retries any backlog, which lets a station that just received inputs run.
func (s *Scheduler) Advance(stations []*station.Station, cat *catalog.Catalog, deltaSeconds float64) Result {
	var result Result
	if deltaSeconds < 0 || math.IsNaN(deltaSeconds) || math.IsInf(deltaSeconds, 0) {
		return result
	}

	for _, st := range stations {
		recipe, ok := cat.Recipe(st.RecipeID)
		if !ok {
			continue
		}

		st.ProductionProgress += deltaSeconds

		batches, units := s.runCycles(st, recipe)
		if batches > 0 {
			result.Outputs = append(result.Outputs, Output{
				StationID: st.ID,
				WareID:    recipe.ProductID(),
				Batches:   batches,
				Units:     units,
			})
		}
		if st.IsStarved(recipe) {
			result.Starved = append(result.Starved, st.ID)
		}
	}

	return result
}

// runCycles executes whole cycles until progress or inputs run out
func (s *Scheduler) runCycles(st *station.Station, recipe *catalog.Recipe) (batches, units int) {
	for st.ProductionProgress >= recipe.CycleTimeSec() {
		if !recipe.InputsAvailable(st.Inventory) {
			break
		}

		for _, in := range recipe.Inputs() {
			st.Inventory.Remove(in.WareID, in.AmountPerCycle)
		}
		units += addClamped(st, recipe)
		st.ProductionProgress -= recipe.CycleTimeSec()
		batches++
	}
	return batches, units
}

// addClamped adds one batch of product, never exceeding the storage cap.
// A cap of zero means unbounded.
func addClamped(st *station.Station, recipe *catalog.Recipe) int {
	product := recipe.ProductID()
	added := recipe.BatchSize()
	if limit := recipe.ProductStorageCap(); limit > 0 {
		room := limit - st.Inventory.Get(product)
		if room < 0 {
			room = 0
		}
		if added > room {
			added = room
		}
	}
	st.Inventory.Add(product, added)
	return added
}
