package corporation

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// Corporation is ownership bookkeeping for stations and fleets. Its AIState
// belongs to the external autopilot and is carried without interpretation.
type Corporation struct {
	ID         string
	Name       string
	Race       string
	StationIDs []string
	FleetIDs   []string
	Credits    int
	AIState    map[string]interface{}
}

// NewCorporation creates a corporation with no holdings
func NewCorporation(id, name, race string, credits int) (*Corporation, error) {
	if id == "" {
		return nil, shared.NewValidationError("corporation.id", "cannot be empty")
	}
	if name == "" {
		name = id
	}
	return &Corporation{
		ID:      id,
		Name:    name,
		Race:    race,
		Credits: credits,
		AIState: make(map[string]interface{}),
	}, nil
}

// OwnsStation checks station ownership
func (c *Corporation) OwnsStation(stationID string) bool {
	return contains(c.StationIDs, stationID)
}

// OwnsFleet checks fleet ownership
func (c *Corporation) OwnsFleet(fleetID string) bool {
	return contains(c.FleetIDs, fleetID)
}

// AttachStation records a station as owned; repeated calls are harmless
func (c *Corporation) AttachStation(stationID string) {
	if !c.OwnsStation(stationID) {
		c.StationIDs = append(c.StationIDs, stationID)
	}
}

// AttachFleet records a fleet as owned; repeated calls are harmless
func (c *Corporation) AttachFleet(fleetID string) {
	if !c.OwnsFleet(fleetID) {
		c.FleetIDs = append(c.FleetIDs, fleetID)
	}
}

// AdjustCredits applies a signed credit delta and returns the new balance
func (c *Corporation) AdjustCredits(delta int) int {
	c.Credits += delta
	return c.Credits
}

func (c *Corporation) String() string {
	return fmt.Sprintf("Corporation(%s, stations=%d, fleets=%d)", c.ID, len(c.StationIDs), len(c.FleetIDs))
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
