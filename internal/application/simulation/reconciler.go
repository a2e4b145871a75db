package simulation

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/domain/events"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
)

// HandleReport applies one externally observed ship event to the world.
//
// Every cargo transfer is clamped to what the source actually holds, so stale
// or duplicated reports can never drive a quantity negative. Reports for
// unknown fleets, and unrecognized report types, are dropped.
//
// Queue discipline: a command leaves the queue only when a report completes
// it at the head. A movement report (arrival, docking, sector entry) also
// completes a pending undock at the head, since the ship has left the station.
func (e *Engine) HandleReport(w *World, r events.Report) {
	f, ok := w.fleetIndex[r.FleetID]
	if !ok {
		e.drop(r, "unknown_fleet")
		return
	}

	f.Observe(r.SectorID, r.Position, r.Timestamp, w.ElapsedSeconds)

	switch r.Type {
	case events.ReportArrivedAtStation:
		f.Queue.CompleteHead(fleet.CommandUndock)
		f.Queue.CompleteHead(fleet.CommandGotoStation)
		f.MarkDocking()

	case events.ReportDocked:
		f.Queue.CompleteHead(fleet.CommandUndock)
		f.Queue.CompleteHead(fleet.CommandGotoStation)
		f.Queue.CompleteHead(fleet.CommandDock)
		f.MarkDocking()

	case events.ReportCargoLoaded:
		e.applyLoad(w, f, r)

	case events.ReportCargoUnloaded:
		e.applyUnload(w, f, r)

	case events.ReportEnteredSector:
		f.Queue.CompleteHead(fleet.CommandUndock)
		f.MarkEnteredSector(r.SectorID)

	default:
		e.drop(r, "unknown_type")
	}
}

// applyLoad moves goods from the station into the hold, at most what the
// station holds
func (e *Engine) applyLoad(w *World, f *fleet.Fleet, r events.Report) {
	loaded := 0
	if st, ok := w.stationIndex[r.StationID]; ok && r.HasTransfer() {
		loaded = st.Release(r.WareID, r.Amount)
		if loaded < r.Amount {
			e.logger.Log(common.LevelDebug, "Load clamped to station stock", map[string]interface{}{
				"fleet_id":   f.ID,
				"station_id": st.ID,
				"ware_id":    r.WareID,
				"requested":  r.Amount,
				"loaded":     loaded,
			})
		}
	} else {
		e.drop(r, "load_missing_station_or_ware")
	}

	f.MarkLoaded(r.WareID, loaded)
	f.Queue.CompleteHead(fleet.CommandLoadCargo)
}

// applyUnload delivers goods from the hold to the station, at most what the
// hold carries, then settles and closes the round trip
func (e *Engine) applyUnload(w *World, f *fleet.Fleet, r events.Report) {
	delivered := 0
	if st, ok := w.stationIndex[r.StationID]; ok && r.HasTransfer() {
		delivered = f.Cargo.Remove(r.WareID, r.Amount)
		st.Receive(r.WareID, delivered)
	} else {
		e.drop(r, "unload_missing_station_or_ware")
	}

	if order := f.CurrentOrder; order != nil {
		e.settle(w, f, order, r.WareID, delivered, r.Timestamp)
	}
	f.FinishTrip()
}

// settle books realised profit for a completed trip against the fleet and its
// owner, and records it in the ledger
func (e *Engine) settle(w *World, f *fleet.Fleet, order *fleet.TradeOrder, wareID string, delivered int, at float64) {
	profit := 0
	if wareID == order.WareID() && delivered > 0 {
		profit = order.ProfitPerUnit() * delivered
	}

	balanceBefore := f.Credits
	owner, hasOwner := w.corpIndex[f.OwnerID]
	if hasOwner {
		balanceBefore = owner.Credits
	}

	f.SettleTrip(profit)
	if hasOwner {
		owner.AdjustCredits(profit)
	}

	e.metrics.RecordTradeCompleted(order.WareID(), delivered, profit)
	e.logger.Log(common.LevelInfo, "Trade completed", map[string]interface{}{
		"fleet_id":  f.ID,
		"ware_id":   order.WareID(),
		"delivered": delivered,
		"planned":   order.SellQty(),
		"profit":    profit,
	})

	if profit == 0 {
		return
	}

	corporationID := ""
	if hasOwner {
		corporationID = owner.ID
	}
	t, err := ledger.NewTransaction(ledger.Entry{
		Timestamp:     at,
		Type:          ledger.TransactionTypeTradeSettled,
		CorporationID: corporationID,
		FleetID:       f.ID,
		WareID:        order.WareID(),
		Quantity:      delivered,
		BuyPrice:      order.BuyPrice(),
		SellPrice:     order.SellPrice(),
		Amount:        profit,
		BalanceBefore: balanceBefore,
		Description:   fmt.Sprintf("%s %s -> %s", order.WareID(), order.BuyStationID(), order.SellStationID()),
	})
	if err != nil {
		e.logger.Log(common.LevelWarn, "Failed to record trade settlement", map[string]interface{}{
			"fleet_id": f.ID,
			"error":    err.Error(),
		})
		return
	}
	w.record(t)
}

func (e *Engine) drop(r events.Report, reason string) {
	e.metrics.RecordReportDropped(reason)
	e.logger.Log(common.LevelDebug, "Report dropped", map[string]interface{}{
		"reason":   reason,
		"type":     string(r.Type),
		"fleet_id": r.FleetID,
	})
}
