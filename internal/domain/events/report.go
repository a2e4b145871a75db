package events

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

// ReportType names what the outside world observed about a fleet
type ReportType string

const (
	ReportArrivedAtStation ReportType = "arrived-at-station"
	ReportDocked           ReportType = "docked"
	ReportCargoLoaded      ReportType = "cargo-loaded"
	ReportCargoUnloaded    ReportType = "cargo-unloaded"
	ReportEnteredSector    ReportType = "entered-sector"
)

var knownReportTypes = map[ReportType]bool{
	ReportArrivedAtStation: true,
	ReportDocked:           true,
	ReportCargoLoaded:      true,
	ReportCargoUnloaded:    true,
	ReportEnteredSector:    true,
}

// IsKnown checks if the type is one the reconciler acts on
func (t ReportType) IsKnown() bool {
	return knownReportTypes[t]
}

// Report is a ship event produced by the world simulation (movement, docking,
// cargo transfer). Optional fields are zero when absent: empty ids, nil
// position, non-positive amount.
//
// Timestamp is in seconds on the reporting side's clock. It is stored as the
// fleet's state start time only; stall detection uses the world's own
// simulated time at receipt.
type Report struct {
	Type      ReportType       `json:"type"`
	FleetID   string           `json:"fleet_id"`
	Timestamp float64          `json:"timestamp"`
	SectorID  string           `json:"sector_id,omitempty"`
	Position  *shared.Position `json:"position,omitempty"`
	StationID string           `json:"station_id,omitempty"`
	WareID    string           `json:"ware_id,omitempty"`
	Amount    int              `json:"amount,omitempty"`
}

// HasTransfer checks if the report carries a usable ware and amount
func (r Report) HasTransfer() bool {
	return r.WareID != "" && r.Amount > 0
}

func (r Report) String() string {
	return fmt.Sprintf("Report{%s fleet=%s t=%.1f}", r.Type, r.FleetID, r.Timestamp)
}
