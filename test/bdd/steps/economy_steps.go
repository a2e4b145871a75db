package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/npc-economy/internal/adapters/persistence"
	"github.com/andrescamacho/npc-economy/internal/application/simulation"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/test/helpers"
)

// economyContext drives a whole world through the engine entry points:
// ticks, ship reports and persistence of the results
type economyContext struct {
	fixture *helpers.WorldFixture
	world   *simulation.World
	engine  *simulation.Engine
	repos   *helpers.TestRepositories
	err     error
}

func (ec *economyContext) reset() {
	ec.fixture = helpers.NewWorldFixture()
	ec.world = nil
	ec.engine = simulation.NewEngine()
	ec.repos = nil
	ec.err = nil
}

// ensureWorld builds the world from the fixture on first use
func (ec *economyContext) ensureWorld() (*simulation.World, error) {
	if ec.world != nil {
		return ec.world, nil
	}
	w, err := ec.fixture.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build world: %w", err)
	}
	ec.world = w
	return w, nil
}

func (ec *economyContext) fleet(id string) (*fleet.Fleet, error) {
	w, err := ec.ensureWorld()
	if err != nil {
		return nil, err
	}
	f, ok := w.Fleet(id)
	if !ok {
		return nil, fmt.Errorf("fleet %s not found", id)
	}
	return f, nil
}

func (ec *economyContext) repositories() *helpers.TestRepositories {
	if ec.repos == nil {
		ec.repos = helpers.NewTestRepositories()
	}
	return ec.repos
}

// Given steps

func (ec *economyContext) theWareWithBasePriceAndUnitVolume(wareID string, basePrice, unitVolume int) error {
	ec.fixture.Ware(wareID, basePrice, unitVolume)
	return nil
}

func (ec *economyContext) theStations(table *godog.Table) error {
	inventories := make(map[string]map[string]int)
	sectors := make(map[string]string)
	var order []string

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		id := getCellValueFromTable(table, row, "id")
		if _, seen := sectors[id]; !seen {
			order = append(order, id)
			inventories[id] = make(map[string]int)
		}
		sectors[id] = getCellValueFromTable(table, row, "sector")

		if wareID := getCellValueFromTable(table, row, "ware"); wareID != "" {
			amount, err := getIntCell(table, row, "amount")
			if err != nil {
				return err
			}
			inventories[id][wareID] = amount
		}
	}

	for _, id := range order {
		ec.fixture.Station(id, "", sectors[id], inventories[id])
	}
	return nil
}

func (ec *economyContext) thePriceOfInSectorIs(wareID, sectorID string, price int) error {
	ec.fixture.Price(sectorID, wareID, price)
	return nil
}

func (ec *economyContext) theCorporationWithCredits(id string, credits int) error {
	ec.fixture.Corporation(id, credits)
	return nil
}

func (ec *economyContext) anIdleFleetOwnedByInSectorWithCapacity(id, ownerID, sectorID string, capacity int) error {
	ec.fixture.Fleet(id, ownerID, sectorID, capacity)
	return nil
}

func (ec *economyContext) anIdleFleetInSectorWithCapacity(id, sectorID string, capacity int) error {
	ec.fixture.Fleet(id, "", sectorID, capacity)
	return nil
}

func (ec *economyContext) theFleetAlreadyCarries(id string, amount int, wareID string) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	f.Cargo.Add(wareID, amount)
	return nil
}

// When steps

func (ec *economyContext) theSimulationTicksSeconds(seconds int) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	ec.engine.Tick(w, float64(seconds))
	return nil
}

func (ec *economyContext) theFleetReports(id string, table *godog.Table) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		amount, err := getIntCell(table, row, "amount")
		if err != nil {
			return err
		}
		ec.engine.HandleReport(w, events.Report{
			Type:      events.ReportType(getCellValueFromTable(table, row, "type")),
			FleetID:   id,
			Timestamp: w.ElapsedSeconds,
			SectorID:  getCellValueFromTable(table, row, "sector"),
			StationID: getCellValueFromTable(table, row, "station"),
			WareID:    getCellValueFromTable(table, row, "ware"),
			Amount:    amount,
		})
	}
	return nil
}

// theFleetCompletesItsAssignedRoundTrip plays back the reports an honest
// world would send for the fleet's current order
func (ec *economyContext) theFleetCompletesItsAssignedRoundTrip(id string) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	order := f.CurrentOrder
	if order == nil {
		return fmt.Errorf("fleet %s has no current order", id)
	}

	at := ec.world.ElapsedSeconds
	reports := []events.Report{
		{Type: events.ReportArrivedAtStation, SectorID: order.BuySectorID(), StationID: order.BuyStationID()},
		{Type: events.ReportDocked, SectorID: order.BuySectorID(), StationID: order.BuyStationID()},
		{Type: events.ReportCargoLoaded, StationID: order.BuyStationID(), WareID: order.WareID(), Amount: order.BuyQty()},
		{Type: events.ReportEnteredSector, SectorID: order.SellSectorID()},
		{Type: events.ReportArrivedAtStation, SectorID: order.SellSectorID(), StationID: order.SellStationID()},
		{Type: events.ReportDocked, SectorID: order.SellSectorID(), StationID: order.SellStationID()},
		{Type: events.ReportCargoUnloaded, StationID: order.SellStationID(), WareID: order.WareID(), Amount: order.SellQty()},
	}
	for i, r := range reports {
		r.FleetID = id
		r.Timestamp = at + float64(i+1)
		ec.engine.HandleReport(ec.world, r)
	}
	return nil
}

func (ec *economyContext) theWorldLedgerIsPersistedAs(name string) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	return ec.repositories().Transactions.CreateBatch(context.Background(), name, w.Ledger())
}

func (ec *economyContext) theWorldIsSavedAsSnapshot(name string) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	_, err = ec.repositories().Snapshots.Save(context.Background(), name, w.Snapshot())
	return err
}

func (ec *economyContext) theLatestSnapshotOfIsRestored(name string) error {
	snap, err := ec.repositories().Snapshots.Latest(context.Background(), name)
	if err != nil {
		return err
	}
	restored, err := simulation.Restore(snap)
	if err != nil {
		return err
	}
	ec.world = restored
	return nil
}

// Then steps

func (ec *economyContext) theFleetShouldBe(id, state string) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	if string(f.State) != state {
		return fmt.Errorf("expected fleet %s to be %s, got %s", id, state, f.State)
	}
	return nil
}

func (ec *economyContext) theFleetShouldHaveQueuedCommands(id string, expected int) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	if got := f.Queue.Len(); got != expected {
		return fmt.Errorf("expected %d queued commands for %s, got %d", expected, id, got)
	}
	return nil
}

func (ec *economyContext) theQueuedCommandsOfShouldBe(id string, table *godog.Table) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}

	cmds := f.Queue.Commands()
	if len(cmds) != len(table.Rows)-1 {
		return fmt.Errorf("expected %d queued commands, got %d", len(table.Rows)-1, len(cmds))
	}
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		cmd := cmds[i-1]
		kind := getCellValueFromTable(table, row, "kind")
		stationID := getCellValueFromTable(table, row, "station")
		if string(cmd.Kind()) != kind || cmd.StationID() != stationID {
			return fmt.Errorf("command %d: expected %s at %s, got %s at %s", i, kind, stationID, cmd.Kind(), cmd.StationID())
		}
	}
	return nil
}

func (ec *economyContext) theFleetCurrentOrderShouldMove(id string, qty int, wareID, from, to string, profit int) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	o := f.CurrentOrder
	if o == nil {
		return fmt.Errorf("fleet %s has no current order", id)
	}
	if o.WareID() != wareID || o.BuyStationID() != from || o.SellStationID() != to {
		return fmt.Errorf("expected order %s %s->%s, got %s", wareID, from, to, o)
	}
	if o.BuyQty() != qty || o.SellQty() != qty {
		return fmt.Errorf("expected quantity %d, got buy=%d sell=%d", qty, o.BuyQty(), o.SellQty())
	}
	if o.ExpectedProfit() != profit {
		return fmt.Errorf("expected profit %d, got %d", profit, o.ExpectedProfit())
	}
	return nil
}

func (ec *economyContext) theFleetShouldHaveNoCurrentOrder(id string) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	if f.CurrentOrder != nil {
		return fmt.Errorf("expected fleet %s to have no order, got %s", id, f.CurrentOrder)
	}
	return nil
}

func (ec *economyContext) theFleetShouldHold(id string, expected int, wareID string) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	if got := f.Cargo.Get(wareID); got != expected {
		return fmt.Errorf("expected fleet %s to hold %d %s, got %d", id, expected, wareID, got)
	}
	return nil
}

func (ec *economyContext) stationShouldHold(id string, expected int, wareID string) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	st, ok := w.Station(id)
	if !ok {
		return fmt.Errorf("station %s not found", id)
	}
	if got := st.Inventory.Get(wareID); got != expected {
		return fmt.Errorf("expected station %s to hold %d %s, got %d", id, expected, wareID, got)
	}
	return nil
}

func (ec *economyContext) theTotalAcrossTheWorldShouldBe(wareID string, expected int) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	if got := w.TotalUnits(wareID); got != expected {
		return fmt.Errorf("expected %d %s in the world, got %d", expected, wareID, got)
	}
	return nil
}

func (ec *economyContext) theCorporationShouldHaveCredits(id string, expected int) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	c, ok := w.Corporation(id)
	if !ok {
		return fmt.Errorf("corporation %s not found", id)
	}
	if c.Credits != expected {
		return fmt.Errorf("expected %s to have %d credits, got %d", id, expected, c.Credits)
	}
	return nil
}

func (ec *economyContext) theFleetShouldHaveCompletedTrips(id string, expected int) error {
	f, err := ec.fleet(id)
	if err != nil {
		return err
	}
	if f.TripsCompleted != expected {
		return fmt.Errorf("expected %d completed trips, got %d", expected, f.TripsCompleted)
	}
	return nil
}

func (ec *economyContext) theLedgerShouldContainSettlementsTotalling(count, total int) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	found, sum := 0, 0
	for _, t := range w.Ledger() {
		if t.TransactionType() == ledger.TransactionTypeTradeSettled {
			found++
			sum += t.Amount()
		}
	}
	if found != count || sum != total {
		return fmt.Errorf("expected %d settlements totalling %d, got %d totalling %d", count, total, found, sum)
	}
	return nil
}

func (ec *economyContext) thePersistedLedgerOfShouldHoldTransactionsTotalling(name string, count, total int) error {
	ctx := context.Background()
	repo := ec.repositories().Transactions

	txs, err := repo.Find(ctx, name, persistence.TransactionQuery{})
	if err != nil {
		return err
	}
	sum, err := repo.SumAmount(ctx, name, persistence.TransactionQuery{})
	if err != nil {
		return err
	}
	if len(txs) != count || sum != total {
		return fmt.Errorf("expected %d persisted transactions totalling %d, got %d totalling %d", count, total, len(txs), sum)
	}
	return nil
}

func (ec *economyContext) fleetsShouldBeStalledAfterSeconds(count int, seconds int) error {
	w, err := ec.ensureWorld()
	if err != nil {
		return err
	}
	stalled := w.StalledFleets(w.ElapsedSeconds+float64(seconds), float64(seconds))
	if len(stalled) != count {
		return fmt.Errorf("expected %d stalled fleets, got %d", count, len(stalled))
	}
	return nil
}

func InitializeEconomyScenario(ctx *godog.ScenarioContext) {
	ec := &economyContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		if helpers.SharedTestDB != nil {
			if err := helpers.TruncateAllTables(); err != nil {
				return ctx, err
			}
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the ware "([^"]*)" with base price (\d+) and unit volume (\d+)$`, ec.theWareWithBasePriceAndUnitVolume)
	ctx.Step(`^the stations:$`, ec.theStations)
	ctx.Step(`^the price of "([^"]*)" in sector "([^"]*)" is (\d+)$`, ec.thePriceOfInSectorIs)
	ctx.Step(`^the corporation "([^"]*)" with (\d+) credits$`, ec.theCorporationWithCredits)
	ctx.Step(`^an idle fleet "([^"]*)" owned by "([^"]*)" in sector "([^"]*)" with capacity (\d+)$`, ec.anIdleFleetOwnedByInSectorWithCapacity)
	ctx.Step(`^an idle fleet "([^"]*)" in sector "([^"]*)" with capacity (\d+)$`, ec.anIdleFleetInSectorWithCapacity)
	ctx.Step(`^the fleet "([^"]*)" already carries (\d+) "([^"]*)"$`, ec.theFleetAlreadyCarries)

	// When steps
	ctx.Step(`^the simulation ticks (\d+) seconds?$`, ec.theSimulationTicksSeconds)
	ctx.Step(`^the fleet "([^"]*)" reports:$`, ec.theFleetReports)
	ctx.Step(`^the fleet "([^"]*)" completes its assigned round trip$`, ec.theFleetCompletesItsAssignedRoundTrip)
	ctx.Step(`^the world ledger is persisted as "([^"]*)"$`, ec.theWorldLedgerIsPersistedAs)
	ctx.Step(`^the world is saved as snapshot "([^"]*)"$`, ec.theWorldIsSavedAsSnapshot)
	ctx.Step(`^the latest snapshot of "([^"]*)" is restored$`, ec.theLatestSnapshotOfIsRestored)

	// Then steps
	ctx.Step(`^the fleet "([^"]*)" should be "([^"]*)"$`, ec.theFleetShouldBe)
	ctx.Step(`^the fleet "([^"]*)" should have (\d+) queued commands?$`, ec.theFleetShouldHaveQueuedCommands)
	ctx.Step(`^the queued commands of "([^"]*)" should be:$`, ec.theQueuedCommandsOfShouldBe)
	ctx.Step(`^the fleet "([^"]*)" current order should move (\d+) "([^"]*)" from "([^"]*)" to "([^"]*)" for an expected profit of (\d+)$`, ec.theFleetCurrentOrderShouldMove)
	ctx.Step(`^the fleet "([^"]*)" should have no current order$`, ec.theFleetShouldHaveNoCurrentOrder)
	ctx.Step(`^the fleet "([^"]*)" should hold (\d+) "([^"]*)"$`, ec.theFleetShouldHold)
	ctx.Step(`^station "([^"]*)" should hold (\d+) "([^"]*)"$`, ec.stationShouldHold)
	ctx.Step(`^the total of "([^"]*)" across the world should be (\d+)$`, ec.theTotalAcrossTheWorldShouldBe)
	ctx.Step(`^the corporation "([^"]*)" should have (\d+) credits$`, ec.theCorporationShouldHaveCredits)
	ctx.Step(`^the fleet "([^"]*)" should have completed (\d+) trips?$`, ec.theFleetShouldHaveCompletedTrips)
	ctx.Step(`^the ledger should contain (\d+) trade settlements? totalling (\d+) credits$`, ec.theLedgerShouldContainSettlementsTotalling)
	ctx.Step(`^the persisted ledger of "([^"]*)" should hold (\d+) transactions? totalling (\d+) credits$`, ec.thePersistedLedgerOfShouldHoldTransactionsTotalling)
	ctx.Step(`^(\d+) fleets? should be stalled after (\d+) silent seconds$`, ec.fleetsShouldBeStalledAfterSeconds)
}
