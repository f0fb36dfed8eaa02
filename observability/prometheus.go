// Package observability exports engine metrics to Prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/vecshard"
)

var _ vecshard.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements vecshard.MetricsCollector.
type PrometheusCollector struct {
	opLatency   *prometheus.HistogramVec
	ops         *prometheus.CounterVec
	fitVectors  prometheus.Counter
	queryK      prometheus.Histogram
	results     prometheus.Histogram
	memoryBytes prometheus.Gauge
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. Pass prometheus.DefaultRegisterer to expose them on the default
// promhttp handler.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vecshard_operation_latency_seconds",
			Help:    "Latency of engine operations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecshard_operations_total",
			Help: "Total engine operations",
		}, []string{"op", "status"}),
		fitVectors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vecshard_fit_vectors_total",
			Help: "Total vectors loaded by successful fits",
		}),
		queryK: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecshard_query_k",
			Help:    "Requested neighbour count per query",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecshard_query_results",
			Help:    "Returned neighbour count per successful query",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vecshard_memory_bytes",
			Help: "Bytes held by vector stores",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.opLatency, c.ops, c.fitVectors, c.queryK, c.results, c.memoryBytes,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *PrometheusCollector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordInitShard implements vecshard.MetricsCollector.
func (c *PrometheusCollector) RecordInitShard(d time.Duration, err error) {
	c.observe("init_shard", d, err)
}

// RecordFit implements vecshard.MetricsCollector.
func (c *PrometheusCollector) RecordFit(count int, d time.Duration, err error) {
	c.observe("fit", d, err)
	if err == nil {
		c.fitVectors.Add(float64(count))
	}
}

// RecordQuery implements vecshard.MetricsCollector.
func (c *PrometheusCollector) RecordQuery(k, results int, d time.Duration, err error) {
	c.observe("query", d, err)
	c.queryK.Observe(float64(k))
	if err == nil {
		c.results.Observe(float64(results))
	}
}

// RecordMemory implements vecshard.MetricsCollector.
func (c *PrometheusCollector) RecordMemory(bytes int64) {
	c.memoryBytes.Set(float64(bytes))
}
