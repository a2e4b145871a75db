package trading

import (
	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
)

// Assignment records an order handed to a fleet
type Assignment struct {
	FleetID string
	Order   *fleet.TradeOrder
}

// Matcher discovers the most profitable cross-station transfer and hands it
// to idle fleets.
//
// The search is a full scan of every ordered station pair and every ware
// (O(stations² × wares)) and keeps a single global best. Entity counts are
// bounded (tens of stations), so no per-ware index is kept.
type Matcher struct {
	thresholds Thresholds
}

// NewMatcher creates a matcher with the given tuning
func NewMatcher(thresholds Thresholds) *Matcher {
	return &Matcher{thresholds: thresholds}
}

// Thresholds returns the matcher's tuning
func (m *Matcher) Thresholds() Thresholds {
	return m.thresholds
}

// FindBest scans all (from, to, ware) triples and returns the candidate with
// the highest profitPerUnit × amount.
//
// Pricing:
//   - buyPrice = prices[from.sector][ware], falling back to the ware's base price
//   - sellPrice = prices[to.sector][ware], falling back to buyPrice
//
// Ties keep the first candidate found in station and catalog order.
func (m *Matcher) FindBest(stations []*station.Station, cat *catalog.Catalog, prices SectorPrices) (*Candidate, bool) {
	var best *Candidate

	wares := cat.Wares()
	for _, from := range stations {
		for _, ware := range wares {
			held := from.Inventory.Get(ware.ID())
			if held <= 0 || held < m.thresholds.SurplusFloor {
				continue
			}

			amount := m.plannedAmount(held)
			if amount <= 0 {
				continue
			}

			buyPrice, ok := prices.Price(from.SectorID, ware.ID())
			if !ok {
				buyPrice = ware.BasePrice()
			}

			for _, to := range stations {
				if to.ID == from.ID {
					continue
				}
				if to.Inventory.Get(ware.ID()) >= m.thresholds.NeedCeiling {
					continue
				}

				sellPrice, ok := prices.Price(to.SectorID, ware.ID())
				if !ok {
					sellPrice = buyPrice
				}
				profit := sellPrice - buyPrice
				if profit <= 0 {
					continue
				}

				cand := &Candidate{
					Ware:          ware,
					From:          from,
					To:            to,
					BuyPrice:      buyPrice,
					SellPrice:     sellPrice,
					ProfitPerUnit: profit,
					Amount:        amount,
				}
				if best == nil || cand.Score() > best.Score() {
					best = cand
				}
			}
		}
	}

	return best, best != nil
}

// plannedAmount sizes a trip from the seller's holding
func (m *Matcher) plannedAmount(held int) int {
	amount := int(float64(held) * m.thresholds.ExportFraction)
	if amount > m.thresholds.MaxTransfer {
		amount = m.thresholds.MaxTransfer
	}
	return amount
}

// Assign hands the best global candidate to every eligible fleet, in the
// order given. A fleet is eligible only when idle with an empty queue and an
// empty hold; busy fleets are skipped, never reassigned.
//
// The trip amount is min(planned, units fitting the fleet's capacity),
// floored at MinBatch. Each assignment enqueues the eight-step round trip and
// sets the fleet in transit toward the pickup station. Fleets left without a
// profitable candidate stay idle.
func (m *Matcher) Assign(
	stations []*station.Station,
	cat *catalog.Catalog,
	prices SectorPrices,
	fleets []*fleet.Fleet,
	now float64,
) []Assignment {
	var assignments []Assignment

	for _, f := range fleets {
		if !f.IsEligibleForTrade() {
			continue
		}

		best, ok := m.FindBest(stations, cat, prices)
		if !ok {
			continue
		}

		order, err := fleet.NewTradeOrder(fleet.TradeOrderParams{
			WareID:          best.Ware.ID(),
			WareName:        best.Ware.Name(),
			BuyStationID:    best.From.ID,
			BuyStationName:  best.From.Name,
			BuySectorID:     best.From.SectorID,
			SellStationID:   best.To.ID,
			SellStationName: best.To.Name,
			SellSectorID:    best.To.SectorID,
			BuyPrice:        best.BuyPrice,
			SellPrice:       best.SellPrice,
			Quantity:        m.tripAmount(best, f),
		})
		if err != nil {
			continue
		}

		f.BeginTrip(order, fleet.TradeRoundTrip(f.ID, order, now), now)
		assignments = append(assignments, Assignment{FleetID: f.ID, Order: order})
	}

	return assignments
}

// tripAmount clamps a candidate's planned amount to what the fleet can carry
func (m *Matcher) tripAmount(best *Candidate, f *fleet.Fleet) int {
	amount := best.Amount
	if fits := best.Ware.UnitsFitting(f.Capacity); fits < amount {
		amount = fits
	}
	if amount < m.thresholds.MinBatch {
		amount = m.thresholds.MinBatch
	}
	return amount
}
