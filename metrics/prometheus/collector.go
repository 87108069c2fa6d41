// Package prometheus exports segmentation metrics to Prometheus.
//
//	c := prometheus.NewCollector(prom.DefaultRegisterer)
//	seg := segmerge.New(segmerge.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.Handler())
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes all metric names.
const Namespace = "segmerge"

// Collector implements segmerge.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	objects   *prometheus.CounterVec
	ops       *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of segmentation operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		objects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "objects_total",
			Help:      "Objects touched by segmentation operations",
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Segmentation operations by outcome",
		}, []string{"op", "status"}),
	}

	if reg != nil {
		reg.MustRegister(c.opLatency, c.objects, c.ops)
	}

	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, n int, d time.Duration, err error) {
	st := status(err)
	c.opLatency.WithLabelValues(op, st).Observe(d.Seconds())
	c.ops.WithLabelValues(op, st).Inc()
	if err == nil {
		c.objects.WithLabelValues(op).Add(float64(n))
	}
}

// RecordMerge records a merge.
func (c *Collector) RecordMerge(merged int, d time.Duration, err error) {
	c.observe("merge", merged, d, err)
}

// RecordUnmerge records an unmerge.
func (c *Collector) RecordUnmerge(split int, d time.Duration, err error) {
	c.observe("unmerge", split, d, err)
}

// RecordDelete records a deletion.
func (c *Collector) RecordDelete(count int, d time.Duration) {
	c.observe("delete", count, d, nil)
}

// RecordLoad records a load; kind becomes part of the op label.
func (c *Collector) RecordLoad(kind string, objects int, d time.Duration, err error) {
	c.observe("load_"+kind, objects, d, err)
}

// RecordSave records a save; kind becomes part of the op label.
func (c *Collector) RecordSave(kind string, objects int, d time.Duration, err error) {
	c.observe("save_"+kind, objects, d, err)
}
