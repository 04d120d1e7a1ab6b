package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opUpsert = "upsert"
	opGet    = "get"
	opRemove = "remove"
	opClear  = "clear"

	resultOK       = "ok"
	resultMissing  = "missing"
	resultRejected = "rejected"
)

// Metrics holds the prometheus collectors for a registry.
type Metrics struct {
	records    prometheus.Gauge
	operations *prometheus.CounterVec
}

// NewMetrics creates and registers the registry collectors on reg.
// Registering twice on the same Registerer panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "capmodel",
			Subsystem: "registry",
			Name:      "records",
			Help:      "Number of records currently held by the registry",
		}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capmodel",
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Registry operations by operation and result",
		}, []string{"op", "result"}),
	}
}

// observe counts one operation. A negative size leaves the gauge untouched.
func (m *Metrics) observe(op, result string, size int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
	if size >= 0 {
		m.records.Set(float64(size))
	}
}
