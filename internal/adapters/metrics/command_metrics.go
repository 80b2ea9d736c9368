package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Request kinds, derived from the mediator type name
const (
	KindCommand = "command"
	KindQuery   = "query"
)

// RequestMetricsCollector times mediator requests. A tick command runs a whole
// transport pass, so the buckets stretch further than a plain RPC would need.
type RequestMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

func NewRequestMetricsCollector() *RequestMetricsCollector {
	labels := []string{"kind", "request", "status"}
	return &RequestMetricsCollector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Mediator request duration by kind, request and status",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 9),
		}, labels),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Mediator requests handled by kind, request and status",
		}, labels),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_in_flight",
			Help:      "Mediator requests currently being handled",
		}, []string{"kind"}),
	}
}

// Register is a no-op while metrics are disabled
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.duration, c.total, c.inFlight} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// Begin marks a request as started and returns the matching end call
func (c *RequestMetricsCollector) Begin(request string) func(seconds float64, err error) {
	kind := requestKind(request)
	c.inFlight.WithLabelValues(kind).Inc()
	return func(seconds float64, err error) {
		c.inFlight.WithLabelValues(kind).Dec()
		status := "ok"
		if err != nil {
			status = "error"
		}
		c.duration.WithLabelValues(kind, request, status).Observe(seconds)
		c.total.WithLabelValues(kind, request, status).Inc()
	}
}

func requestKind(request string) string {
	if strings.HasSuffix(request, "Query") {
		return KindQuery
	}
	return KindCommand
}
