package fleet

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// State is a fleet's coarse activity as known to the core
type State string

const (
	StateIdle      State = "idle"
	StateInTransit State = "in-transit"
	StateDocking   State = "docking"
)

var validStates = map[State]bool{
	StateIdle:      true,
	StateInTransit: true,
	StateDocking:   true,
}

// IsValid checks if the state is one of the known states
func (s State) IsValid() bool {
	return validStates[s]
}

// Fleet is an NPC trading ship group.
//
// State machine:
//   - idle -> BeginTrip() -> in-transit
//   - in-transit -> MarkDocking() -> docking
//   - docking -> MarkLoaded() -> in-transit
//   - docking/in-transit -> FinishTrip() -> idle (queue and order cleared)
//   - any -> MarkEnteredSector() -> in-transit
//
// Transitions are driven by reconciled reports, not validated against the
// current state: the outside world is authoritative about where a ship is.
type Fleet struct {
	ID                  string
	OwnerID             string
	ShipType            string
	Capacity            int
	Speed               float64
	HomeSectorID        string
	CurrentSectorID     string
	DestinationSectorID string
	TargetStationID     string
	Position            shared.Position
	State               State
	StateStartTime      float64
	// LastContactAt is the world's simulated time when the fleet was last
	// assigned or heard from. Report timestamps come from the reporting side
	// and are not compared against it.
	LastContactAt  float64
	Queue          *CommandQueue
	CurrentOrder   *TradeOrder
	Cargo          shared.Inventory
	Credits        int
	TotalProfit    int
	TripsCompleted int
}

// SpawnConfig describes one fleet created at world-init
type SpawnConfig struct {
	ID           string
	OwnerID      string
	ShipType     string
	Capacity     int
	Speed        float64
	HomeSectorID string
	Position     shared.Position
	Credits      int
}

// Spawn creates an idle, empty fleet in its home sector
func Spawn(cfg SpawnConfig) (*Fleet, error) {
	if cfg.ID == "" {
		return nil, shared.NewValidationError("fleet.id", "cannot be empty")
	}
	if cfg.Capacity <= 0 {
		return nil, shared.NewValidationError("fleet.capacity", fmt.Sprintf("must be positive for %s", cfg.ID))
	}
	if cfg.HomeSectorID == "" {
		return nil, shared.NewValidationError("fleet.home_sector_id", fmt.Sprintf("cannot be empty for %s", cfg.ID))
	}

	return &Fleet{
		ID:              cfg.ID,
		OwnerID:         cfg.OwnerID,
		ShipType:        cfg.ShipType,
		Capacity:        cfg.Capacity,
		Speed:           cfg.Speed,
		HomeSectorID:    cfg.HomeSectorID,
		CurrentSectorID: cfg.HomeSectorID,
		Position:        cfg.Position,
		State:           StateIdle,
		Queue:           NewCommandQueue(),
		Cargo:           shared.NewInventory(),
		Credits:         cfg.Credits,
	}, nil
}

// IsEligibleForTrade reports whether the fleet may take a new order: idle,
// nothing queued and an empty hold. A fleet still en route or holding goods
// is never reassigned.
func (f *Fleet) IsEligibleForTrade() bool {
	return f.State == StateIdle && f.Queue.IsEmpty() && f.Cargo.IsEmpty()
}

// BeginTrip attaches an order and its command sequence and sets off toward
// the pickup station
func (f *Fleet) BeginTrip(order *TradeOrder, cmds []Command, at float64) {
	f.CurrentOrder = order
	f.Queue.Enqueue(cmds...)
	f.State = StateInTransit
	f.StateStartTime = at
	f.LastContactAt = at
	f.DestinationSectorID = order.BuySectorID()
	f.TargetStationID = order.BuyStationID()
}

// Observe records what a report says about where the fleet is. at is the
// report's own timestamp; receivedAt is the world's simulated time.
func (f *Fleet) Observe(sectorID string, position *shared.Position, at, receivedAt float64) {
	if sectorID != "" {
		f.CurrentSectorID = sectorID
	}
	if position != nil {
		f.Position = *position
	}
	f.StateStartTime = at
	f.LastContactAt = receivedAt
}

// MarkDocking moves the fleet into docking
func (f *Fleet) MarkDocking() {
	f.State = StateDocking
}

// MarkLoaded records goods taken aboard and heads for the next leg. Once
// loaded, the delivery station becomes the target.
func (f *Fleet) MarkLoaded(wareID string, units int) {
	f.Cargo.Add(wareID, units)
	f.State = StateInTransit
	if f.CurrentOrder != nil {
		f.DestinationSectorID = f.CurrentOrder.SellSectorID()
		f.TargetStationID = f.CurrentOrder.SellStationID()
	}
}

// FinishTrip ends the round trip: idle, no queue, no order
func (f *Fleet) FinishTrip() {
	f.State = StateIdle
	f.Queue.Clear()
	f.CurrentOrder = nil
	f.DestinationSectorID = ""
	f.TargetStationID = ""
}

// MarkEnteredSector re-affirms the fleet is mid-route in a new sector
func (f *Fleet) MarkEnteredSector(sectorID string) {
	if sectorID != "" {
		f.CurrentSectorID = sectorID
	}
	f.State = StateInTransit
}

// SettleTrip books a finished round trip and its realised profit
func (f *Fleet) SettleTrip(amount int) {
	f.Credits += amount
	f.TotalProfit += amount
	f.TripsCompleted++
}

func (f *Fleet) String() string {
	return fmt.Sprintf("Fleet(%s, %s, queue=%d, cargo=%d)", f.ID, f.State, f.Queue.Len(), f.Cargo.Total())
}
