// Package metrics exposes the service's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	DatasetRecords prometheus.Gauge
	DatasetDropped prometheus.Gauge
	Queries        *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	QueryResults   prometheus.Histogram
}

// New registers the process and Go runtime collectors along with the
// service metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unifinder_dataset_records",
			Help: "Universities in the normalized collection.",
		}),
		DatasetDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "unifinder_dataset_dropped_records",
			Help: "Raw records dropped for an empty name or non-positive rank.",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unifinder_queries_total",
			Help: "Queries served, by route.",
		}, []string{"route"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unifinder_query_duration_seconds",
			Help:    "Time spent filtering, sorting and paginating.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"route"}),
		QueryResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "unifinder_query_results",
			Help:    "Matching universities per list query, before pagination.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		m.DatasetRecords,
		m.DatasetDropped,
		m.Queries,
		m.QueryDuration,
		m.QueryResults,
	)
	return m
}

// SetDataset records the outcome of the one-time load.
func (m *Metrics) SetDataset(records, dropped int) {
	m.DatasetRecords.Set(float64(records))
	m.DatasetDropped.Set(float64(dropped))
}

// ObserveQuery counts one query on route and how long it took.
func (m *Metrics) ObserveQuery(route string, started time.Time) {
	m.Queries.WithLabelValues(route).Inc()
	m.QueryDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveResults(n int) {
	m.QueryResults.Observe(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
