package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "maxintersect"

// PrometheusCollector exports a StatsCollector as Prometheus counters.
// Values are read at scrape time, so the hot path stays on atomics.
type PrometheusCollector struct {
	stats *StatsCollector
	descs map[string]*prometheus.Desc
}

var counterHelp = map[string]string{
	AcceptedCount: "Intervals stored in aggregation states.",
	InvalidCount:  "Intervals dropped because start was greater than end.",
	NullCount:     "Rows skipped because an endpoint was null.",
	FilteredCount: "Rows rejected by the filter condition.",
	ErrorCount:    "Rows rejected with a conversion or field error.",
	MergeCount:    "Partial aggregation states merged.",
	FinalizeCount: "Aggregation groups finalized.",
}

// NewPrometheusCollector creates a collector reading from stats
func NewPrometheusCollector(stats *StatsCollector) *PrometheusCollector {
	descs := make(map[string]*prometheus.Desc, len(counterHelp))
	for key, help := range counterHelp {
		descs[key] = prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", key[:len(key)-len("_count")]+"_total"),
			help, nil, nil,
		)
	}
	return &PrometheusCollector{stats: stats, descs: descs}
}

// Describe implements prometheus.Collector
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	for key, value := range c.stats.Snapshot() {
		desc, ok := c.descs[key]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value))
	}
}

// Register registers a collector for stats with reg
func Register(reg prometheus.Registerer, stats *StatsCollector) (*PrometheusCollector, error) {
	c := NewPrometheusCollector(stats)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
