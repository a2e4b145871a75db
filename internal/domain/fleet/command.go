package fleet

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/pkg/utils"
)

// CommandKind tags the five ship command variants
type CommandKind string

const (
	CommandGotoStation CommandKind = "goto-station"
	CommandDock        CommandKind = "dock"
	CommandLoadCargo   CommandKind = "load-cargo"
	CommandUnloadCargo CommandKind = "unload-cargo"
	CommandUndock      CommandKind = "undock"
)

// Command is one atomic step of a fleet's queue. The set of implementations
// is closed: only the five structs in this file satisfy it.
type Command interface {
	ID() string
	Kind() CommandKind
	CreatedAt() float64
	StationID() string
	isCommand()
}

// commandBase carries the fields every variant shares
type commandBase struct {
	id        string
	createdAt float64
}

func (c commandBase) ID() string         { return c.id }
func (c commandBase) CreatedAt() float64 { return c.createdAt }

func newBase(kind CommandKind, fleetID string, at float64) commandBase {
	return commandBase{id: utils.GenerateCommandID(string(kind), fleetID), createdAt: at}
}

// GotoStation moves the fleet to a station in a sector
type GotoStation struct {
	commandBase
	TargetStationID string
	TargetSectorID  string
}

func (GotoStation) Kind() CommandKind   { return CommandGotoStation }
func (c GotoStation) StationID() string { return c.TargetStationID }
func (GotoStation) isCommand()          {}

// Dock docks at the target station
type Dock struct {
	commandBase
	TargetStationID string
}

func (Dock) Kind() CommandKind   { return CommandDock }
func (c Dock) StationID() string { return c.TargetStationID }
func (Dock) isCommand()          {}

// LoadCargo takes goods from the docked station into the hold
type LoadCargo struct {
	commandBase
	TargetStationID string
	WareID          string
	Amount          int
}

func (LoadCargo) Kind() CommandKind   { return CommandLoadCargo }
func (c LoadCargo) StationID() string { return c.TargetStationID }
func (LoadCargo) isCommand()          {}

// UnloadCargo delivers goods from the hold to the docked station
type UnloadCargo struct {
	commandBase
	TargetStationID string
	WareID          string
	Amount          int
}

func (UnloadCargo) Kind() CommandKind   { return CommandUnloadCargo }
func (c UnloadCargo) StationID() string { return c.TargetStationID }
func (UnloadCargo) isCommand()          {}

// Undock leaves the target station
type Undock struct {
	commandBase
	TargetStationID string
}

func (Undock) Kind() CommandKind   { return CommandUndock }
func (c Undock) StationID() string { return c.TargetStationID }
func (Undock) isCommand()          {}

// NewGotoStation creates a goto-station command
func NewGotoStation(fleetID, stationID, sectorID string, at float64) GotoStation {
	return GotoStation{commandBase: newBase(CommandGotoStation, fleetID, at), TargetStationID: stationID, TargetSectorID: sectorID}
}

// NewDock creates a dock command
func NewDock(fleetID, stationID string, at float64) Dock {
	return Dock{commandBase: newBase(CommandDock, fleetID, at), TargetStationID: stationID}
}

// NewLoadCargo creates a load-cargo command
func NewLoadCargo(fleetID, stationID, wareID string, amount int, at float64) LoadCargo {
	return LoadCargo{commandBase: newBase(CommandLoadCargo, fleetID, at), TargetStationID: stationID, WareID: wareID, Amount: amount}
}

// NewUnloadCargo creates an unload-cargo command
func NewUnloadCargo(fleetID, stationID, wareID string, amount int, at float64) UnloadCargo {
	return UnloadCargo{commandBase: newBase(CommandUnloadCargo, fleetID, at), TargetStationID: stationID, WareID: wareID, Amount: amount}
}

// NewUndock creates an undock command
func NewUndock(fleetID, stationID string, at float64) Undock {
	return Undock{commandBase: newBase(CommandUndock, fleetID, at), TargetStationID: stationID}
}

// RestoreCommand rebuilds a command from persisted fields, keeping its id
func RestoreCommand(kind CommandKind, id string, createdAt float64, stationID, sectorID, wareID string, amount int) (Command, error) {
	base := commandBase{id: id, createdAt: createdAt}
	switch kind {
	case CommandGotoStation:
		return GotoStation{commandBase: base, TargetStationID: stationID, TargetSectorID: sectorID}, nil
	case CommandDock:
		return Dock{commandBase: base, TargetStationID: stationID}, nil
	case CommandLoadCargo:
		return LoadCargo{commandBase: base, TargetStationID: stationID, WareID: wareID, Amount: amount}, nil
	case CommandUnloadCargo:
		return UnloadCargo{commandBase: base, TargetStationID: stationID, WareID: wareID, Amount: amount}, nil
	case CommandUndock:
		return Undock{commandBase: base, TargetStationID: stationID}, nil
	default:
		return nil, fmt.Errorf("unknown command kind: %s", kind)
	}
}

// TradeRoundTrip builds the fixed eight-step sequence for one trade order:
// goto, dock, load, undock at the seller, then goto, dock, unload, undock at
// the buyer.
func TradeRoundTrip(fleetID string, order *TradeOrder, at float64) []Command {
	return []Command{
		NewGotoStation(fleetID, order.BuyStationID(), order.BuySectorID(), at),
		NewDock(fleetID, order.BuyStationID(), at),
		NewLoadCargo(fleetID, order.BuyStationID(), order.WareID(), order.BuyQty(), at),
		NewUndock(fleetID, order.BuyStationID(), at),
		NewGotoStation(fleetID, order.SellStationID(), order.SellSectorID(), at),
		NewDock(fleetID, order.SellStationID(), at),
		NewUnloadCargo(fleetID, order.SellStationID(), order.WareID(), order.SellQty(), at),
		NewUndock(fleetID, order.SellStationID(), at),
	}
}
