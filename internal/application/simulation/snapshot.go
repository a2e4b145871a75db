package simulation

import (
	"fmt"

	"github.com/andrescamacho/npc-economy/internal/domain/catalog"
	"github.com/andrescamacho/npc-economy/internal/domain/corporation"
	"github.com/andrescamacho/npc-economy/internal/domain/fleet"
	"github.com/andrescamacho/npc-economy/internal/domain/ledger"
	"github.com/andrescamacho/npc-economy/internal/domain/shared"
	"github.com/andrescamacho/npc-economy/internal/domain/station"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

// Snapshot is a self-contained, serializable copy of a World. Storage of
// snapshots is left to adapters; the core only produces and consumes them.
type Snapshot struct {
	ElapsedSeconds float64              `json:"elapsed_seconds"`
	Wares          []WareRecord         `json:"wares"`
	Recipes        []RecipeRecord       `json:"recipes"`
	Stations       []StationRecord      `json:"stations"`
	Corporations   []CorporationRecord  `json:"corporations"`
	Fleets         []FleetRecord        `json:"fleets"`
	Prices         trading.SectorPrices `json:"prices"`
	Ledger         []TransactionRecord  `json:"ledger"`
}

type WareRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	BasePrice  int    `json:"base_price"`
	UnitVolume int    `json:"unit_volume"`
}

type RecipeInputRecord struct {
	WareID         string `json:"ware_id"`
	AmountPerCycle int    `json:"amount_per_cycle"`
}

type RecipeRecord struct {
	ID                string              `json:"id"`
	ProductID         string              `json:"product_id"`
	Inputs            []RecipeInputRecord `json:"inputs"`
	CycleTimeSec      float64             `json:"cycle_time_sec"`
	BatchSize         int                 `json:"batch_size"`
	ProductStorageCap int                 `json:"product_storage_cap"`
}

type StationRecord struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	RecipeID           string         `json:"recipe_id"`
	SectorID           string         `json:"sector_id"`
	Inventory          map[string]int `json:"inventory"`
	ReorderLevel       map[string]int `json:"reorder_level"`
	ReserveLevel       map[string]int `json:"reserve_level"`
	ProductionProgress float64        `json:"production_progress"`
}

type CorporationRecord struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Race       string                 `json:"race"`
	StationIDs []string               `json:"station_ids"`
	FleetIDs   []string               `json:"fleet_ids"`
	Credits    int                    `json:"credits"`
	AIState    map[string]interface{} `json:"ai_state,omitempty"`
}

type CommandRecord struct {
	Kind      string  `json:"kind"`
	ID        string  `json:"id"`
	CreatedAt float64 `json:"created_at"`
	StationID string  `json:"station_id,omitempty"`
	SectorID  string  `json:"sector_id,omitempty"`
	WareID    string  `json:"ware_id,omitempty"`
	Amount    int     `json:"amount,omitempty"`
}

type FleetRecord struct {
	ID                  string                  `json:"id"`
	OwnerID             string                  `json:"owner_id"`
	ShipType            string                  `json:"ship_type"`
	Capacity            int                     `json:"capacity"`
	Speed               float64                 `json:"speed"`
	HomeSectorID        string                  `json:"home_sector_id"`
	CurrentSectorID     string                  `json:"current_sector_id"`
	DestinationSectorID string                  `json:"destination_sector_id,omitempty"`
	TargetStationID     string                  `json:"target_station_id,omitempty"`
	Position            shared.Position         `json:"position"`
	State               string                  `json:"state"`
	StateStartTime      float64                 `json:"state_start_time"`
	LastContactAt       float64                 `json:"last_contact_at"`
	Commands            []CommandRecord         `json:"commands"`
	CurrentOrder        *fleet.TradeOrderParams `json:"current_order,omitempty"`
	Cargo               map[string]int          `json:"cargo"`
	Credits             int                     `json:"credits"`
	TotalProfit         int                     `json:"total_profit"`
	TripsCompleted      int                     `json:"trips_completed"`
}

type TransactionRecord struct {
	ID            string  `json:"id"`
	Timestamp     float64 `json:"timestamp"`
	Type          string  `json:"type"`
	CorporationID string  `json:"corporation_id,omitempty"`
	FleetID       string  `json:"fleet_id,omitempty"`
	WareID        string  `json:"ware_id,omitempty"`
	Quantity      int     `json:"quantity"`
	BuyPrice      int     `json:"buy_price"`
	SellPrice     int     `json:"sell_price"`
	Amount        int     `json:"amount"`
	BalanceBefore int     `json:"balance_before"`
	Description   string  `json:"description"`
}

// Snapshot captures the world's current state
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		ElapsedSeconds: w.ElapsedSeconds,
		Prices:         w.Prices.Clone(),
	}

	for _, ware := range w.Catalog.Wares() {
		s.Wares = append(s.Wares, WareRecord{
			ID:         ware.ID(),
			Name:       ware.Name(),
			Category:   string(ware.Category()),
			BasePrice:  ware.BasePrice(),
			UnitVolume: ware.UnitVolume(),
		})
	}

	for _, recipe := range w.Catalog.Recipes() {
		rec := RecipeRecord{
			ID:                recipe.ID(),
			ProductID:         recipe.ProductID(),
			CycleTimeSec:      recipe.CycleTimeSec(),
			BatchSize:         recipe.BatchSize(),
			ProductStorageCap: recipe.ProductStorageCap(),
		}
		for _, in := range recipe.Inputs() {
			rec.Inputs = append(rec.Inputs, RecipeInputRecord{WareID: in.WareID, AmountPerCycle: in.AmountPerCycle})
		}
		s.Recipes = append(s.Recipes, rec)
	}

	for _, st := range w.stations {
		s.Stations = append(s.Stations, StationRecord{
			ID:                 st.ID,
			Name:               st.Name,
			RecipeID:           st.RecipeID,
			SectorID:           st.SectorID,
			Inventory:          st.Inventory.Clone(),
			ReorderLevel:       copyLevels(st.ReorderLevel),
			ReserveLevel:       copyLevels(st.ReserveLevel),
			ProductionProgress: st.ProductionProgress,
		})
	}

	for _, c := range w.corporations {
		s.Corporations = append(s.Corporations, CorporationRecord{
			ID:         c.ID,
			Name:       c.Name,
			Race:       c.Race,
			StationIDs: append([]string(nil), c.StationIDs...),
			FleetIDs:   append([]string(nil), c.FleetIDs...),
			Credits:    c.Credits,
			AIState:    c.AIState,
		})
	}

	for _, f := range w.fleets {
		s.Fleets = append(s.Fleets, fleetRecord(f))
	}

	for _, t := range w.ledger {
		s.Ledger = append(s.Ledger, TransactionRecord{
			ID:            t.ID().String(),
			Timestamp:     t.Timestamp(),
			Type:          t.TransactionType().String(),
			CorporationID: t.CorporationID(),
			FleetID:       t.FleetID(),
			WareID:        t.WareID(),
			Quantity:      t.Quantity(),
			BuyPrice:      t.BuyPrice(),
			SellPrice:     t.SellPrice(),
			Amount:        t.Amount(),
			BalanceBefore: t.BalanceBefore(),
			Description:   t.Description(),
		})
	}

	return s
}

func fleetRecord(f *fleet.Fleet) FleetRecord {
	rec := FleetRecord{
		ID:                  f.ID,
		OwnerID:             f.OwnerID,
		ShipType:            f.ShipType,
		Capacity:            f.Capacity,
		Speed:               f.Speed,
		HomeSectorID:        f.HomeSectorID,
		CurrentSectorID:     f.CurrentSectorID,
		DestinationSectorID: f.DestinationSectorID,
		TargetStationID:     f.TargetStationID,
		Position:            f.Position,
		State:               string(f.State),
		StateStartTime:      f.StateStartTime,
		LastContactAt:       f.LastContactAt,
		Cargo:               f.Cargo.Clone(),
		Credits:             f.Credits,
		TotalProfit:         f.TotalProfit,
		TripsCompleted:      f.TripsCompleted,
	}
	if f.CurrentOrder != nil {
		params := f.CurrentOrder.Params()
		rec.CurrentOrder = &params
	}

	for _, cmd := range f.Queue.Commands() {
		cr := CommandRecord{
			Kind:      string(cmd.Kind()),
			ID:        cmd.ID(),
			CreatedAt: cmd.CreatedAt(),
			StationID: cmd.StationID(),
		}
		switch c := cmd.(type) {
		case fleet.GotoStation:
			cr.SectorID = c.TargetSectorID
		case fleet.LoadCargo:
			cr.WareID, cr.Amount = c.WareID, c.Amount
		case fleet.UnloadCargo:
			cr.WareID, cr.Amount = c.WareID, c.Amount
		case fleet.Dock, fleet.Undock:
		}
		rec.Commands = append(rec.Commands, cr)
	}
	return rec
}

// Restore rebuilds a World from a snapshot. Inventories are taken as stored;
// no seeding is applied.
func Restore(s *Snapshot) (*World, error) {
	if s == nil {
		return nil, shared.NewValidationError("snapshot", "required")
	}

	cat, err := restoreCatalog(s)
	if err != nil {
		return nil, err
	}

	stations := make([]*station.Station, 0, len(s.Stations))
	for _, rec := range s.Stations {
		st, err := station.NewStation(rec.ID, rec.Name, rec.RecipeID, rec.SectorID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore station %s: %w", rec.ID, err)
		}
		for wareID, units := range rec.Inventory {
			st.Inventory.Set(wareID, units)
		}
		st.ReorderLevel = copyLevels(rec.ReorderLevel)
		st.ReserveLevel = copyLevels(rec.ReserveLevel)
		st.ProductionProgress = rec.ProductionProgress
		stations = append(stations, st)
	}

	corps := make([]*corporation.Corporation, 0, len(s.Corporations))
	for _, rec := range s.Corporations {
		c, err := corporation.NewCorporation(rec.ID, rec.Name, rec.Race, rec.Credits)
		if err != nil {
			return nil, fmt.Errorf("failed to restore corporation %s: %w", rec.ID, err)
		}
		c.StationIDs = append([]string(nil), rec.StationIDs...)
		c.FleetIDs = append([]string(nil), rec.FleetIDs...)
		if rec.AIState != nil {
			c.AIState = rec.AIState
		}
		corps = append(corps, c)
	}

	fleets := make([]*fleet.Fleet, 0, len(s.Fleets))
	for _, rec := range s.Fleets {
		f, err := restoreFleet(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to restore fleet %s: %w", rec.ID, err)
		}
		fleets = append(fleets, f)
	}

	prices := s.Prices
	if prices != nil {
		prices = prices.Clone()
	}
	w, err := assemble(cat, stations, corps, fleets, prices)
	if err != nil {
		return nil, err
	}
	w.ElapsedSeconds = s.ElapsedSeconds

	for _, rec := range s.Ledger {
		id, err := ledger.NewTransactionIDFromString(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore transaction: %w", err)
		}
		t, err := ledger.ReconstructTransaction(id, ledger.Entry{
			Timestamp:     rec.Timestamp,
			Type:          ledger.TransactionType(rec.Type),
			CorporationID: rec.CorporationID,
			FleetID:       rec.FleetID,
			WareID:        rec.WareID,
			Quantity:      rec.Quantity,
			BuyPrice:      rec.BuyPrice,
			SellPrice:     rec.SellPrice,
			Amount:        rec.Amount,
			BalanceBefore: rec.BalanceBefore,
			Description:   rec.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to restore transaction %s: %w", rec.ID, err)
		}
		w.record(t)
	}

	return w, nil
}

func restoreCatalog(s *Snapshot) (*catalog.Catalog, error) {
	wares := make([]*catalog.Ware, 0, len(s.Wares))
	for _, rec := range s.Wares {
		ware, err := catalog.NewWare(rec.ID, rec.Name, catalog.Category(rec.Category), rec.BasePrice, rec.UnitVolume)
		if err != nil {
			return nil, fmt.Errorf("failed to restore ware %s: %w", rec.ID, err)
		}
		wares = append(wares, ware)
	}

	recipes := make([]*catalog.Recipe, 0, len(s.Recipes))
	for _, rec := range s.Recipes {
		inputs := make([]catalog.RecipeInput, 0, len(rec.Inputs))
		for _, in := range rec.Inputs {
			inputs = append(inputs, catalog.RecipeInput{WareID: in.WareID, AmountPerCycle: in.AmountPerCycle})
		}
		recipe, err := catalog.NewRecipe(rec.ID, rec.ProductID, inputs, rec.CycleTimeSec, rec.BatchSize, rec.ProductStorageCap)
		if err != nil {
			return nil, fmt.Errorf("failed to restore recipe %s: %w", rec.ID, err)
		}
		recipes = append(recipes, recipe)
	}

	return catalog.New(wares, recipes)
}

func restoreFleet(rec FleetRecord) (*fleet.Fleet, error) {
	f, err := fleet.Spawn(fleet.SpawnConfig{
		ID:           rec.ID,
		OwnerID:      rec.OwnerID,
		ShipType:     rec.ShipType,
		Capacity:     rec.Capacity,
		Speed:        rec.Speed,
		HomeSectorID: rec.HomeSectorID,
		Position:     rec.Position,
		Credits:      rec.Credits,
	})
	if err != nil {
		return nil, err
	}

	state := fleet.State(rec.State)
	if !state.IsValid() {
		return nil, shared.NewValidationError("fleet.state", fmt.Sprintf("invalid state %q", rec.State))
	}
	f.State = state
	f.StateStartTime = rec.StateStartTime
	f.LastContactAt = rec.LastContactAt
	f.CurrentSectorID = rec.CurrentSectorID
	f.DestinationSectorID = rec.DestinationSectorID
	f.TargetStationID = rec.TargetStationID
	f.TotalProfit = rec.TotalProfit
	f.TripsCompleted = rec.TripsCompleted
	for wareID, units := range rec.Cargo {
		f.Cargo.Set(wareID, units)
	}

	if rec.CurrentOrder != nil {
		order, err := fleet.NewTradeOrder(*rec.CurrentOrder)
		if err != nil {
			return nil, err
		}
		f.CurrentOrder = order
	}

	for _, cr := range rec.Commands {
		cmd, err := fleet.RestoreCommand(fleet.CommandKind(cr.Kind), cr.ID, cr.CreatedAt, cr.StationID, cr.SectorID, cr.WareID, cr.Amount)
		if err != nil {
			return nil, err
		}
		f.Queue.Enqueue(cmd)
	}

	return f, nil
}

func copyLevels(levels map[string]int) map[string]int {
	out := make(map[string]int, len(levels))
	for k, v := range levels {
		out[k] = v
	}
	return out
}
