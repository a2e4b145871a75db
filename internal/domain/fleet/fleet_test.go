package fleet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
)

func newOrder(t *testing.T) *fleet.TradeOrder {
	t.Helper()
	order, err := fleet.NewTradeOrder(fleet.TradeOrderParams{
		WareID:        "energy_cells",
		WareName:      "Energy Cells",
		BuyStationID:  "A",
		BuySectorID:   "alpha",
		SellStationID: "B",
		SellSectorID:  "beta",
		BuyPrice:      10,
		SellPrice:     15,
		Quantity:      360,
	})
	require.NoError(t, err)
	return order
}

func newFleet(t *testing.T) *fleet.Fleet {
	t.Helper()
	f, err := fleet.Spawn(fleet.SpawnConfig{
		ID:           "ARG-TRADER-3",
		OwnerID:      "argon_federation",
		Capacity:     500,
		HomeSectorID: "alpha",
		Position:     shared.NewPosition(1, 2, 3),
	})
	require.NoError(t, err)
	return f
}

func TestNewTradeOrder_ExpectedProfit(t *testing.T) {
	order := newOrder(t)

	assert.Equal(t, 360, order.BuyQty())
	assert.Equal(t, 360, order.SellQty())
	assert.Equal(t, 5, order.ProfitPerUnit())
	assert.Equal(t, 1800, order.ExpectedProfit())
}

func TestNewTradeOrder_Validation(t *testing.T) {
	_, err := fleet.NewTradeOrder(fleet.TradeOrderParams{WareID: "ore", BuyStationID: "A", SellStationID: "A", Quantity: 10})
	assert.Error(t, err)

	_, err = fleet.NewTradeOrder(fleet.TradeOrderParams{WareID: "ore", BuyStationID: "A", SellStationID: "B"})
	assert.Error(t, err)
}

func TestTradeRoundTrip_EightSteps(t *testing.T) {
	// Arrange
	order := newOrder(t)

	// Act
	cmds := fleet.TradeRoundTrip("ARG-TRADER-3", order, 42)

	// Assert
	require.Len(t, cmds, 8)
	wantKinds := []fleet.CommandKind{
		fleet.CommandGotoStation, fleet.CommandDock, fleet.CommandLoadCargo, fleet.CommandUndock,
		fleet.CommandGotoStation, fleet.CommandDock, fleet.CommandUnloadCargo, fleet.CommandUndock,
	}
	for i, cmd := range cmds {
		assert.Equal(t, wantKinds[i], cmd.Kind(), "command %d", i)
		assert.Equal(t, 42.0, cmd.CreatedAt())
		assert.True(t, strings.HasPrefix(cmd.ID(), string(cmd.Kind())+"-TRADER-3-"), cmd.ID())
	}
	assert.Equal(t, "A", cmds[0].StationID())
	assert.Equal(t, "B", cmds[7].StationID())

	load, ok := cmds[2].(fleet.LoadCargo)
	require.True(t, ok)
	assert.Equal(t, 360, load.Amount)
	goTo, ok := cmds[4].(fleet.GotoStation)
	require.True(t, ok)
	assert.Equal(t, "beta", goTo.TargetSectorID)
}

func TestCommandQueue_CompletesOnlyMatchingHead(t *testing.T) {
	// Arrange
	q := fleet.NewCommandQueue()
	q.Enqueue(fleet.NewGotoStation("f", "A", "alpha", 0), fleet.NewDock("f", "A", 0))

	// Act & Assert
	assert.False(t, q.CompleteHead(fleet.CommandDock), "dock is not the head")
	assert.Equal(t, 2, q.Len())

	assert.True(t, q.CompleteHead(fleet.CommandGotoStation))
	assert.Equal(t, fleet.CommandDock, q.Current().Kind())

	assert.True(t, q.CompleteHead(fleet.CommandDock))
	assert.True(t, q.IsEmpty())
	assert.Nil(t, q.Current())
	assert.False(t, q.CompleteHead(fleet.CommandDock))
}

func TestCommandQueue_CommandsIsACopy(t *testing.T) {
	q := fleet.NewCommandQueue()
	q.Enqueue(fleet.NewUndock("f", "A", 0))

	cmds := q.Commands()
	cmds[0] = nil

	assert.NotNil(t, q.Current())
	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestRestoreCommand_KeepsID(t *testing.T) {
	cmd, err := fleet.RestoreCommand(fleet.CommandUnloadCargo, "unload-cargo-x-1", 12.5, "B", "", "ore", 40)
	require.NoError(t, err)

	unload, ok := cmd.(fleet.UnloadCargo)
	require.True(t, ok)
	assert.Equal(t, "unload-cargo-x-1", unload.ID())
	assert.Equal(t, 12.5, unload.CreatedAt())
	assert.Equal(t, "ore", unload.WareID)
	assert.Equal(t, 40, unload.Amount)

	_, err = fleet.RestoreCommand(fleet.CommandKind("warp"), "x", 0, "", "", "", 0)
	assert.Error(t, err)
}

func TestFleet_RoundTripStateMachine(t *testing.T) {
	// Arrange
	f := newFleet(t)
	order := newOrder(t)
	require.True(t, f.IsEligibleForTrade())

	// Act: assignment
	f.BeginTrip(order, fleet.TradeRoundTrip(f.ID, order, 10), 10)

	// Assert
	assert.Equal(t, fleet.StateInTransit, f.State)
	assert.Equal(t, "A", f.TargetStationID)
	assert.Equal(t, "alpha", f.DestinationSectorID)
	assert.False(t, f.IsEligibleForTrade())

	// Act: docked and loaded
	f.MarkDocking()
	assert.Equal(t, fleet.StateDocking, f.State)
	f.MarkLoaded("energy_cells", 360)

	// Assert: heading for the buyer
	assert.Equal(t, fleet.StateInTransit, f.State)
	assert.Equal(t, "B", f.TargetStationID)
	assert.Equal(t, "beta", f.DestinationSectorID)
	assert.Equal(t, 360, f.Cargo.Get("energy_cells"))

	// Act: delivered
	f.Cargo.Remove("energy_cells", 360)
	f.SettleTrip(1800)
	f.FinishTrip()

	// Assert
	assert.Equal(t, fleet.StateIdle, f.State)
	assert.Nil(t, f.CurrentOrder)
	assert.True(t, f.Queue.IsEmpty())
	assert.Equal(t, 1800, f.TotalProfit)
	assert.Equal(t, 1, f.TripsCompleted)
	assert.True(t, f.IsEligibleForTrade())
}

func TestFleet_CargoBlocksEligibility(t *testing.T) {
	f := newFleet(t)
	f.Cargo.Add("ore", 1)

	assert.False(t, f.IsEligibleForTrade())
}

func TestFleet_Observe(t *testing.T) {
	f := newFleet(t)
	pos := shared.NewPosition(9, 9, 9)

	f.Observe("beta", &pos, 77, 12)
	assert.Equal(t, "beta", f.CurrentSectorID)
	assert.Equal(t, pos, f.Position)
	assert.Equal(t, 77.0, f.StateStartTime)
	assert.Equal(t, 12.0, f.LastContactAt)

	f.Observe("", nil, 80, 13)
	assert.Equal(t, "beta", f.CurrentSectorID)
	assert.Equal(t, pos, f.Position)
}

func TestSpawn_Validation(t *testing.T) {
	_, err := fleet.Spawn(fleet.SpawnConfig{ID: "f", HomeSectorID: "alpha"})
	assert.Error(t, err)

	_, err = fleet.Spawn(fleet.SpawnConfig{ID: "f", Capacity: 10})
	assert.Error(t, err)

	assert.True(t, fleet.StateDocking.IsValid())
	assert.False(t, fleet.State("warping").IsValid())
}
