package simulation

import (
	"math"

	"github.com/andrescamacho/npc-economy/internal/application/common"
	"github.com/andrescamacho/npc-economy/internal/domain/production"
	"github.com/andrescamacho/npc-economy/internal/domain/trading"
)

// Engine runs the economy: production and trade matching on Tick, fleet
// reconciliation on HandleReport. The Engine holds only collaborators and
// tuning; all simulation state lives on the World passed to each call.
//
// Both entry points are plain synchronous calls that never fail. Anomalies
// (bad time steps, unknown ids, over-draws) degrade to no-ops or clamped
// transfers and are logged at debug level.
type Engine struct {
	scheduler *production.Scheduler
	matcher   *trading.Matcher
	logger    common.Logger
	metrics   MetricsRecorder
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(logger common.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(recorder MetricsRecorder) Option {
	return func(e *Engine) {
		if recorder != nil {
			e.metrics = recorder
		}
	}
}

// WithThresholds overrides the trade matcher tuning
func WithThresholds(t trading.Thresholds) Option {
	return func(e *Engine) {
		e.matcher = trading.NewMatcher(t)
	}
}

// NewEngine creates an engine with reference tuning unless overridden
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scheduler: production.NewScheduler(),
		matcher:   trading.NewMatcher(trading.DefaultThresholds()),
		logger:    common.NoOpLogger(),
		metrics:   noOpRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick advances simulated time by deltaSeconds: production first, then trade
// assignment for idle fleets. Non-finite or non-positive steps are ignored.
//
// Time acceleration must be done by calling Tick repeatedly with a fixed
// substep (see Runner), never by passing one huge step.
func (e *Engine) Tick(w *World, deltaSeconds float64) {
	if math.IsNaN(deltaSeconds) || math.IsInf(deltaSeconds, 0) || deltaSeconds <= 0 {
		e.logger.Log(common.LevelDebug, "Ignoring invalid time step", map[string]interface{}{
			"delta_seconds": deltaSeconds,
		})
		return
	}

	w.ElapsedSeconds += deltaSeconds
	e.metrics.RecordTick(deltaSeconds)

	result := e.scheduler.Advance(w.stations, w.Catalog, deltaSeconds)
	for _, out := range result.Outputs {
		e.metrics.RecordProduction(out.StationID, out.WareID, out.Batches, out.Units)
	}
	e.metrics.RecordStarvedStations(len(result.Starved))

	assignments := e.matcher.Assign(w.stations, w.Catalog, w.Prices, w.fleets, w.ElapsedSeconds)
	for _, a := range assignments {
		e.logger.Log(common.LevelInfo, "Trade assigned", map[string]interface{}{
			"fleet_id":        a.FleetID,
			"ware_id":         a.Order.WareID(),
			"from":            a.Order.BuyStationID(),
			"to":              a.Order.SellStationID(),
			"quantity":        a.Order.BuyQty(),
			"expected_profit": a.Order.ExpectedProfit(),
		})
		e.metrics.RecordTradeAssigned(a.Order.WareID(), a.Order.BuyQty(), a.Order.ExpectedProfit())
	}
}

// Thresholds returns the trade matcher tuning in use
func (e *Engine) Thresholds() trading.Thresholds {
	return e.matcher.Thresholds()
}
