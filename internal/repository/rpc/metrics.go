package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the dispatch statistics of the gateway.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the gateway metrics and registers them with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitor",
			Subsystem: "gateway",
			Name:      "calls_total",
			Help:      "Number of dispatched operations by table, operation and outcome.",
		}, []string{"table", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "monitor",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Duration of dispatched operations by table and operation.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"table", "operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.calls, m.duration)
	}
	return m
}

// observe records a dispatched call; nil metrics are ignored.
func (m *Metrics) observe(table, op string, err error, dur time.Duration) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		kind := KindOf(err)
		outcome = kind.String()

		// unknown names are not used as label values
		if kind == KindUnknownMethod || kind == KindMissingMethod {
			op = "-"
		}
	}

	m.calls.WithLabelValues(table, op, outcome).Inc()
	m.duration.WithLabelValues(table, op).Observe(dur.Seconds())
}
