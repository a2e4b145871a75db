package simulation

import (
	"sort"

	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
)

// StalledFleet describes a fleet that has not been heard from for a while
// although it is mid-trip
type StalledFleet struct {
	FleetID        string
	State          fleet.State
	StalledSince   float64
	PendingCommand fleet.CommandKind
	PendingCount   int
}

// StalledFleets lists non-idle fleets whose last report (or assignment) was
// received at least threshold simulated seconds before now, longest-stalled
// first. now is on the world clock (ElapsedSeconds).
//
// This is a read-only diagnostic. The core never times out or retries a
// trip: a fleet that stops receiving reports keeps its last state until the
// outside world reports again.
func (w *World) StalledFleets(now, threshold float64) []StalledFleet {
	var stalled []StalledFleet
	for _, f := range w.fleets {
		if f.State == fleet.StateIdle {
			continue
		}
		if now-f.LastContactAt < threshold {
			continue
		}

		entry := StalledFleet{
			FleetID:      f.ID,
			State:        f.State,
			StalledSince: f.LastContactAt,
			PendingCount: f.Queue.Len(),
		}
		if head := f.Queue.Current(); head != nil {
			entry.PendingCommand = head.Kind()
		}
		stalled = append(stalled, entry)
	}

	sort.SliceStable(stalled, func(i, j int) bool {
		return stalled[i].StalledSince < stalled[j].StalledSince
	})
	return stalled
}

// StarvedStations lists stations holding a full cycle of backlog they cannot
// run for lack of inputs
func (w *World) StarvedStations() []string {
	var starved []string
	for _, st := range w.stations {
		recipe, ok := w.Catalog.Recipe(st.RecipeID)
		if ok && st.IsStarved(recipe) {
			starved = append(starved, st.ID)
		}
	}
	return starved
}
