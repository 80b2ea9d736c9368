package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "overmind"
	// Subsystem for logistics metrics
	subsystem = "logistics"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalTransportCollector is the singleton transport metrics collector
	// Set by SetGlobalTransportCollector() when metrics are enabled
	globalTransportCollector TransportMetricsRecorder
)

// TransportMetricsRecorder defines the interface for recording transport events.
// Application code records through the package-level functions below.
type TransportMetricsRecorder interface {
	RecordTick(sample TickSample)
	RecordFleetPlan(colony string, target, current int, neededPower float64)
	RecordSpawnRequest(colony, role string)
}

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

// SetGlobalTransportCollector sets the global transport metrics collector
func SetGlobalTransportCollector(collector TransportMetricsRecorder) {
	globalTransportCollector = collector
}

// RecordTick records one coordinator pass globally
func RecordTick(sample TickSample) {
	if globalTransportCollector != nil {
		globalTransportCollector.RecordTick(sample)
	}
}

// RecordFleetPlan records a fleet sizing decision globally
func RecordFleetPlan(colony string, target, current int, neededPower float64) {
	if globalTransportCollector != nil {
		globalTransportCollector.RecordFleetPlan(colony, target, current, neededPower)
	}
}

// RecordSpawnRequest records a spawn request emitted to the spawn queue globally
func RecordSpawnRequest(colony, role string) {
	if globalTransportCollector != nil {
		globalTransportCollector.RecordSpawnRequest(colony, role)
	}
}
