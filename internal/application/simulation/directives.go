package simulation

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
)

// Directives are mutations ordered from outside the core (the corporate
// autopilot, admin tools). They are applied as given; unknown ids are ignored
// and reported through the returned bool.

// SetReorderLevel changes a station's reorder threshold for a ware
func (w *World) SetReorderLevel(stationID, wareID string, level int) bool {
	st, ok := w.stationIndex[stationID]
	if !ok || level < 0 {
		return false
	}
	st.ReorderLevel[wareID] = level
	return true
}

// SetReserveLevel changes a station's reserve threshold for an output ware
func (w *World) SetReserveLevel(stationID, wareID string, level int) bool {
	st, ok := w.stationIndex[stationID]
	if !ok || level < 0 {
		return false
	}
	st.ReserveLevel[wareID] = level
	return true
}

// SetSectorPrice lists the price of a ware in a sector
func (w *World) SetSectorPrice(sectorID, wareID string, price int) bool {
	if _, ok := w.Catalog.Ware(wareID); !ok || sectorID == "" || price < 0 {
		return false
	}
	w.Prices.Set(sectorID, wareID, price)
	return true
}

// AdjustCredits applies a signed credit change to a corporation and records it
func (w *World) AdjustCredits(corporationID string, delta int, reason string) bool {
	c, ok := w.corpIndex[corporationID]
	if !ok || delta == 0 {
		return false
	}

	t, err := ledger.NewTransaction(ledger.Entry{
		Timestamp:     w.ElapsedSeconds,
		Type:          ledger.TransactionTypeCreditAdjustment,
		CorporationID: c.ID,
		Amount:        delta,
		BalanceBefore: c.Credits,
		Description:   fmt.Sprintf("credit adjustment: %s", reason),
	})
	if err != nil {
		return false
	}

	c.AdjustCredits(delta)
	w.record(t)
	return true
}

// SetAIState replaces a corporation's opaque autopilot state
func (w *World) SetAIState(corporationID string, state map[string]interface{}) bool {
	c, ok := w.corpIndex[corporationID]
	if !ok {
		return false
	}
	if state == nil {
		state = make(map[string]interface{})
	}
	c.AIState = state
	return true
}
