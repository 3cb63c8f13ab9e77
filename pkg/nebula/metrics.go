package nebula

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the optional set of counters/histograms a caller can wire
// a SessionManager/Pool through, matching spec.md §9's "observability
// is opt-in, never mandatory" stance: a nil *Metrics disables
// instrumentation entirely rather than forcing a registry.
type Metrics struct {
	QueriesTotal    *prometheus.CounterVec
	QueryLatencySec prometheus.Histogram
	PoolActive      prometheus.Gauge
	PoolIdle        prometheus.Gauge
	SessionsClosed  *prometheus.CounterVec
}

// NewMetrics registers this client's metrics against reg and returns
// the handle used to record them. Pass a fresh prometheus.Registry (not
// the global DefaultRegisterer) to keep multiple clients in one process
// from colliding on metric names.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nebula_client_queries_total",
			Help: "Number of graph queries executed, labeled by outcome.",
		}, []string{"outcome"}),
		QueryLatencySec: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nebula_client_query_latency_seconds",
			Help:    "Graph query latency as reported by graphd, in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		PoolActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nebula_client_pool_active_sessions",
			Help: "Number of sessions currently checked out of the pool.",
		}),
		PoolIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nebula_client_pool_idle_sessions",
			Help: "Number of sessions currently idle in the pool.",
		}),
		SessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nebula_client_sessions_closed_total",
			Help: "Number of sessions torn down, labeled by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.QueriesTotal, m.QueryLatencySec, m.PoolActive, m.PoolIdle, m.SessionsClosed)
	return m
}

// ObserveQuery records one query's outcome and latency.
func (m *Metrics) ObserveQuery(outcome string, latencyUs int64) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
	m.QueryLatencySec.Observe(float64(latencyUs) / 1e6)
}

// ObserveSessionClosed records one session teardown.
func (m *Metrics) ObserveSessionClosed(reason string) {
	if m == nil {
		return
	}
	m.SessionsClosed.WithLabelValues(reason).Inc()
}
