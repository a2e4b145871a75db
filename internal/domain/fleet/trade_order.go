package fleet

import (
	"errors"
	"fmt"
)

// TradeOrder is the plan for one round trip: buy a ware at one station and
// deliver it to another. It is attached to a fleet as its current order from
// assignment until the delivery is reconciled.
//
// Price terminology (from the fleet's perspective):
//   - BuyPrice: what the fleet pays per unit at the pickup station
//   - SellPrice: what the fleet receives per unit at the delivery station
type TradeOrder struct {
	wareID          string
	wareName        string
	buyStationID    string
	buyStationName  string
	buySectorID     string
	sellStationID   string
	sellStationName string
	sellSectorID    string
	buyPrice        int
	sellPrice       int
	buyQty          int
	sellQty         int
	expectedProfit  int
}

// TradeOrderParams groups the inputs of NewTradeOrder
type TradeOrderParams struct {
	WareID          string
	WareName        string
	BuyStationID    string
	BuyStationName  string
	BuySectorID     string
	SellStationID   string
	SellStationName string
	SellSectorID    string
	BuyPrice        int
	SellPrice       int
	Quantity        int
}

// NewTradeOrder creates an order; expected profit is (sell - buy) × quantity
func NewTradeOrder(p TradeOrderParams) (*TradeOrder, error) {
	if p.WareID == "" {
		return nil, errors.New("ware id required")
	}
	if p.BuyStationID == "" || p.SellStationID == "" {
		return nil, errors.New("buy and sell stations required")
	}
	if p.BuyStationID == p.SellStationID {
		return nil, fmt.Errorf("buy and sell station must differ (%s)", p.BuyStationID)
	}
	if p.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	return &TradeOrder{
		wareID:          p.WareID,
		wareName:        p.WareName,
		buyStationID:    p.BuyStationID,
		buyStationName:  p.BuyStationName,
		buySectorID:     p.BuySectorID,
		sellStationID:   p.SellStationID,
		sellStationName: p.SellStationName,
		sellSectorID:    p.SellSectorID,
		buyPrice:        p.BuyPrice,
		sellPrice:       p.SellPrice,
		buyQty:          p.Quantity,
		sellQty:         p.Quantity,
		expectedProfit:  (p.SellPrice - p.BuyPrice) * p.Quantity,
	}, nil
}

func (o *TradeOrder) WareID() string          { return o.wareID }
func (o *TradeOrder) WareName() string        { return o.wareName }
func (o *TradeOrder) BuyStationID() string    { return o.buyStationID }
func (o *TradeOrder) BuyStationName() string  { return o.buyStationName }
func (o *TradeOrder) BuySectorID() string     { return o.buySectorID }
func (o *TradeOrder) SellStationID() string   { return o.sellStationID }
func (o *TradeOrder) SellStationName() string { return o.sellStationName }
func (o *TradeOrder) SellSectorID() string    { return o.sellSectorID }
func (o *TradeOrder) BuyPrice() int           { return o.buyPrice }
func (o *TradeOrder) SellPrice() int          { return o.sellPrice }
func (o *TradeOrder) BuyQty() int             { return o.buyQty }
func (o *TradeOrder) SellQty() int            { return o.sellQty }
func (o *TradeOrder) ExpectedProfit() int     { return o.expectedProfit }

// ProfitPerUnit is the margin earned on each delivered unit
func (o *TradeOrder) ProfitPerUnit() int {
	return o.sellPrice - o.buyPrice
}

// Params returns the inputs needed to rebuild this order
func (o *TradeOrder) Params() TradeOrderParams {
	return TradeOrderParams{
		WareID:          o.wareID,
		WareName:        o.wareName,
		BuyStationID:    o.buyStationID,
		BuyStationName:  o.buyStationName,
		BuySectorID:     o.buySectorID,
		SellStationID:   o.sellStationID,
		SellStationName: o.sellStationName,
		SellSectorID:    o.sellSectorID,
		BuyPrice:        o.buyPrice,
		SellPrice:       o.sellPrice,
		Quantity:        o.buyQty,
	}
}

// Description returns a human-readable summary for display
func (o *TradeOrder) Description() string {
	return fmt.Sprintf("%d × %s: %s → %s (+%d)", o.buyQty, o.wareName, o.buyStationName, o.sellStationName, o.expectedProfit)
}

func (o *TradeOrder) String() string {
	return fmt.Sprintf("TradeOrder{ware=%s, %s->%s, qty=%d, profit=%d}",
		o.wareID, o.buyStationID, o.sellStationID, o.buyQty, o.expectedProfit)
}
