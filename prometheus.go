package redispool

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	promNamespace = "redispool"
	subsystemPool = "pool"

	nameLabel = "pool"
)

// exporter provides an interface for Prometheus metrics.
type exporter struct {
	pool *Pool

	maxConnectionsDesc    *prometheus.Desc
	openConnectionsDesc   *prometheus.Desc
	idleConnectionsDesc   *prometheus.Desc
	activeConnectionsDesc *prometheus.Desc
	peakActiveDesc        *prometheus.Desc

	getsCounterDesc            *prometheus.Desc
	waitsCounterDesc           *prometheus.Desc
	evictionsCounterDesc       *prometheus.Desc
	connectFailuresCounterDesc *prometheus.Desc
}

var _ prometheus.Collector = (*exporter)(nil)

func newExporter(p *Pool) *exporter {
	// The pool name is a const label so that every pool gets its own
	// descriptors, which allows a closed pool to unregister its exporter.
	labels := prometheus.Labels{
		nameLabel: p.Name(),
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(promNamespace, subsystemPool, name),
			help,
			nil,
			labels,
		)
	}

	return &exporter{
		pool: p,

		// Gauges.
		maxConnectionsDesc: desc(
			"max_connections",
			"Configured maximum number of connections in this redispool pool",
		),
		openConnectionsDesc: desc(
			"connections",
			"Number of open connections in this redispool pool, both idle and checked out",
		),
		idleConnectionsDesc: desc(
			"idle_connections",
			"Number of idle connections in this redispool pool",
		),
		activeConnectionsDesc: desc(
			"active_connections",
			"Number of connections checked out from this redispool pool",
		),
		peakActiveDesc: desc(
			"peak_active_connections",
			"Maximum number of connections simultaneously checked out since the pool was created",
		),

		// Counters.
		getsCounterDesc: desc(
			"gets_total",
			"Number of connections handed out by Acquire",
		),
		waitsCounterDesc: desc(
			"waits_total",
			"Number of times Acquire had to wait because the pool was full",
		),
		evictionsCounterDesc: desc(
			"evictions_total",
			"Number of idle connections closed by the sweep for failing the liveness probe",
		),
		connectFailuresCounterDesc: desc(
			"connect_failures_total",
			"Number of failed attempts to open a new connection",
		),
	}
}

// Describe implements prometheus.Collector.
func (e *exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.maxConnectionsDesc
	ch <- e.openConnectionsDesc
	ch <- e.idleConnectionsDesc
	ch <- e.activeConnectionsDesc
	ch <- e.peakActiveDesc
	ch <- e.getsCounterDesc
	ch <- e.waitsCounterDesc
	ch <- e.evictionsCounterDesc
	ch <- e.connectFailuresCounterDesc
}

// Collect implements prometheus.Collector.
func (e *exporter) Collect(ch chan<- prometheus.Metric) {
	stats := e.pool.Stats()

	gauge := func(desc *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v))
	}
	counter := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}

	// Gauges.
	gauge(e.maxConnectionsDesc, stats.Max)
	gauge(e.openConnectionsDesc, stats.Open)
	gauge(e.idleConnectionsDesc, stats.Idle)
	gauge(e.activeConnectionsDesc, stats.Active)
	gauge(e.peakActiveDesc, stats.PeakActive)

	// Counters.
	counter(e.getsCounterDesc, stats.Gets)
	counter(e.waitsCounterDesc, stats.Waits)
	counter(e.evictionsCounterDesc, stats.Evictions)
	counter(e.connectFailuresCounterDesc, stats.ConnectFailures)
}
