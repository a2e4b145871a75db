package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "npc_economy"
	// Subsystem for simulation metrics
	subsystem = "simulation"
)

// Registry is the global Prometheus registry for all metrics.
// Nil until InitRegistry is called, which keeps metrics disabled by default.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
