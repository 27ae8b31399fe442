package ledger

import (
	"time"

	"airdrop-ledger/core/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger operations. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	rowSkips   *prometheus.CounterVec
}

// NewMetrics creates the ledger collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "operations_total",
			Help:      "Ledger operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		rowSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "row_skips_total",
			Help:      "Rows skipped because a concurrent writer changed them first.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.operations, m.duration, m.rowSkips)
	return m
}

func (m *Metrics) observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = string(KindStoreFailure)
		}
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

func (m *Metrics) rowSkipped(op string) {
	if m == nil {
		return
	}
	m.rowSkips.WithLabelValues(op).Inc()
}
