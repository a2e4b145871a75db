package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/npc-economy/internal/application/simulation"
)

// SimulationMetricsCollector records engine events and world gauges.
// It implements simulation.MetricsRecorder.
type SimulationMetricsCollector struct {
	// Engine events
	ticksTotal           prometheus.Counter
	simulatedSeconds     prometheus.Counter
	batchesTotal         *prometheus.CounterVec
	unitsProducedTotal   *prometheus.CounterVec
	starvedStations      prometheus.Gauge
	tradesAssignedTotal  *prometheus.CounterVec
	expectedProfitTotal  *prometheus.CounterVec
	tradesCompletedTotal *prometheus.CounterVec
	realisedProfit       *prometheus.HistogramVec
	reportsDroppedTotal  *prometheus.CounterVec

	// World state
	fleetsByState      *prometheus.GaugeVec
	corporationCredits *prometheus.GaugeVec
	wareUnits          *prometheus.GaugeVec
}

// NewSimulationMetricsCollector creates a new simulation metrics collector
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total engine ticks executed",
			},
		),

		simulatedSeconds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "simulated_seconds_total",
				Help:      "Total simulated time advanced",
			},
		),

		batchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_batches_total",
				Help:      "Production cycles completed by ware",
			},
			[]string{"ware"},
		),

		unitsProducedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_units_total",
				Help:      "Units added to station stock by ware",
			},
			[]string{"ware"},
		),

		starvedStations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "starved_stations",
				Help:      "Stations blocked on missing inputs after the last tick",
			},
		),

		tradesAssignedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trades_assigned_total",
				Help:      "Trade orders assigned to fleets by ware",
			},
			[]string{"ware"},
		),

		expectedProfitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trade_expected_profit_credits_total",
				Help:      "Expected profit of assigned trade orders",
			},
			[]string{"ware"},
		),

		tradesCompletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trades_completed_total",
				Help:      "Deliveries reconciled from cargo-unloaded reports",
			},
			[]string{"ware"},
		),

		realisedProfit: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "trade_realised_profit_credits",
				Help:      "Realised profit per completed trade",
				Buckets:   []float64{0, 100, 500, 1000, 2500, 5000, 10000, 50000},
			},
			[]string{"ware"},
		),

		reportsDroppedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reports_dropped_total",
				Help:      "Ship reports ignored by the reconciler",
			},
			[]string{"reason"},
		),

		fleetsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fleets",
				Help:      "Fleets by state",
			},
			[]string{"state"},
		),

		corporationCredits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "corporation_credits",
				Help:      "Credit balance per corporation",
			},
			[]string{"corporation"},
		),

		wareUnits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ware_units",
				Help:      "Units of each ware held by stations and fleets",
			},
			[]string{"ware"},
		),
	}
}

// Register registers all metrics with the global Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.simulatedSeconds,
		c.batchesTotal,
		c.unitsProducedTotal,
		c.starvedStations,
		c.tradesAssignedTotal,
		c.expectedProfitTotal,
		c.tradesCompletedTotal,
		c.realisedProfit,
		c.reportsDroppedTotal,
		c.fleetsByState,
		c.corporationCredits,
		c.wareUnits,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordTick records one engine tick
func (c *SimulationMetricsCollector) RecordTick(deltaSeconds float64) {
	c.ticksTotal.Inc()
	c.simulatedSeconds.Add(deltaSeconds)
}

// RecordProduction records completed cycles at one station
func (c *SimulationMetricsCollector) RecordProduction(stationID, wareID string, batches, units int) {
	c.batchesTotal.WithLabelValues(wareID).Add(float64(batches))
	c.unitsProducedTotal.WithLabelValues(wareID).Add(float64(units))
}

// RecordStarvedStations records how many stations were starved this tick
func (c *SimulationMetricsCollector) RecordStarvedStations(count int) {
	c.starvedStations.Set(float64(count))
}

// RecordTradeAssigned records a new trade order
func (c *SimulationMetricsCollector) RecordTradeAssigned(wareID string, quantity, expectedProfit int) {
	c.tradesAssignedTotal.WithLabelValues(wareID).Inc()
	c.expectedProfitTotal.WithLabelValues(wareID).Add(float64(expectedProfit))
}

// RecordTradeCompleted records a reconciled delivery
func (c *SimulationMetricsCollector) RecordTradeCompleted(wareID string, quantity, profit int) {
	c.tradesCompletedTotal.WithLabelValues(wareID).Inc()
	c.realisedProfit.WithLabelValues(wareID).Observe(float64(profit))
}

// RecordReportDropped records a report the reconciler ignored
func (c *SimulationMetricsCollector) RecordReportDropped(reason string) {
	c.reportsDroppedTotal.WithLabelValues(reason).Inc()
}

// ObserveWorld refreshes the world state gauges. Call it from the goroutine
// that owns the world.
func (c *SimulationMetricsCollector) ObserveWorld(w *simulation.World) {
	c.fleetsByState.Reset()
	for _, f := range w.Fleets() {
		c.fleetsByState.WithLabelValues(string(f.State)).Inc()
	}

	for _, corp := range w.Corporations() {
		c.corporationCredits.WithLabelValues(corp.ID).Set(float64(corp.Credits))
	}

	for _, ware := range w.Catalog.Wares() {
		c.wareUnits.WithLabelValues(ware.ID()).Set(float64(w.TotalUnits(ware.ID())))
	}
}

var _ simulation.MetricsRecorder = (*SimulationMetricsCollector)(nil)
