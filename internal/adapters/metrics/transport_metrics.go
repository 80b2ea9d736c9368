package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TickSample is what one coordinator pass reports
type TickSample struct {
	Colony    string
	Matched   int
	Fallbacks int
	Parked    int
	Evading   int
	Errors    int
	Downtime  float64
	Duration  time.Duration
}

// TransportMetricsCollector handles transport network and fleet metrics
type TransportMetricsCollector struct {
	downtime      *prometheus.GaugeVec
	assignments   *prometheus.CounterVec
	tickDuration  *prometheus.HistogramVec
	fleetTarget   *prometheus.GaugeVec
	fleetCurrent  *prometheus.GaugeVec
	neededPower   *prometheus.GaugeVec
	spawnRequests *prometheus.CounterVec
}

// NewTransportMetricsCollector creates a new transport metrics collector
func NewTransportMetricsCollector() *TransportMetricsCollector {
	return &TransportMetricsCollector{
		downtime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transport_downtime_ratio",
				Help:      "Moving average of the idle transporter fraction",
			},
			[]string{"colony"},
		),

		assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transport_assignments_total",
				Help:      "Agent assignments by outcome (matched, fallback, parked, evading, error)",
			},
			[]string{"colony", "outcome"},
		),

		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transport_tick_duration_seconds",
				Help:      "Coordinator pass duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"colony"},
		),

		fleetTarget: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fleet_target_transporters",
				Help:      "Transporters requested by fleet sizing",
			},
			[]string{"colony"},
		),

		fleetCurrent: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fleet_current_transporters",
				Help:      "Transporters alive when fleet sizing ran",
			},
			[]string{"colony"},
		),

		neededPower: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fleet_needed_carry_parts",
				Help:      "Carry parts needed to keep up with hauling demand",
			},
			[]string{"colony"},
		),

		spawnRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "spawn_requests_total",
				Help:      "Spawn requests emitted by role",
			},
			[]string{"colony", "role"},
		),
	}
}

// Register registers all transport metrics with the Prometheus registry
func (c *TransportMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.downtime,
		c.assignments,
		c.tickDuration,
		c.fleetTarget,
		c.fleetCurrent,
		c.neededPower,
		c.spawnRequests,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordTick records one coordinator pass
func (c *TransportMetricsCollector) RecordTick(sample TickSample) {
	c.downtime.WithLabelValues(sample.Colony).Set(sample.Downtime)
	c.tickDuration.WithLabelValues(sample.Colony).Observe(sample.Duration.Seconds())

	outcomes := map[string]int{
		"matched":  sample.Matched,
		"fallback": sample.Fallbacks,
		"parked":   sample.Parked,
		"evading":  sample.Evading,
		"error":    sample.Errors,
	}
	for outcome, count := range outcomes {
		if count > 0 {
			c.assignments.WithLabelValues(sample.Colony, outcome).Add(float64(count))
		}
	}
}

// RecordFleetPlan records a fleet sizing decision
func (c *TransportMetricsCollector) RecordFleetPlan(colony string, target, current int, neededPower float64) {
	c.fleetTarget.WithLabelValues(colony).Set(float64(target))
	c.fleetCurrent.WithLabelValues(colony).Set(float64(current))
	c.neededPower.WithLabelValues(colony).Set(neededPower)
}

// RecordSpawnRequest counts a spawn request
func (c *TransportMetricsCollector) RecordSpawnRequest(colony, role string) {
	c.spawnRequests.WithLabelValues(colony, role).Inc()
}
