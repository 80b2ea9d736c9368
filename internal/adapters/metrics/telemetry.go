package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TelemetryGauge exposes free-form telemetry scalars as a single gauge vector
type TelemetryGauge struct {
	gauge *prometheus.GaugeVec
}

// NewTelemetryGauge creates the telemetry gauge
func NewTelemetryGauge() *TelemetryGauge {
	return &TelemetryGauge{
		gauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "telemetry",
				Name:      "value",
				Help:      "Latest telemetry scalar by colony, subsystem and metric",
			},
			[]string{"colony", "subsystem", "metric"},
		),
	}
}

// Register registers the gauge with the Prometheus registry
func (t *TelemetryGauge) Register() error {
	if Registry == nil {
		return nil
	}
	return Registry.Register(t.gauge)
}

// Record implements the telemetry sink
func (t *TelemetryGauge) Record(colony, subsystem, metric string, value float64) {
	t.gauge.WithLabelValues(colony, subsystem, metric).Set(value)
}

// Value returns the current gauge value (used by status queries and tests)
func (t *TelemetryGauge) Value(colony, subsystem, metric string) (float64, error) {
	g, err := t.gauge.GetMetricWithLabelValues(colony, subsystem, metric)
	if err != nil {
		return 0, err
	}
	return readGauge(g)
}

func readGauge(g prometheus.Gauge) (float64, error) {
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		return 0, err
	}
	return m.GetGauge().GetValue(), nil
}
