// Package metrics exposes the benchmark results as Prometheus metrics.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-pipebench/pkg/stats"
)

const namespace = "pipebench"

// Metrics holds the collectors of one experiment in a dedicated registry.
type Metrics struct {
	registry    *prometheus.Registry
	runSeconds  *prometheus.HistogramVec
	comparisons *prometheus.CounterVec
	summary     *prometheus.GaugeVec
}

// New registers the collectors in a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sort_run_seconds",
			Help:      "Wall-clock duration of one sort run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"cpu"}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sort_comparisons_total",
			Help:      "Number of comparisons charged to the simulated CPU.",
		}, []string{"cpu"}),
		summary: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "summary_seconds",
			Help:      "Summary of the run durations of a CPU configuration.",
		}, []string{"cpu", "stat"}),
	}

	m.registry.MustRegister(m.runSeconds, m.comparisons, m.summary)

	return m
}

// ObserveRun records one run of the cpu configuration.
func (m *Metrics) ObserveRun(cpu string, seconds float64, comparisons int) {
	m.runSeconds.WithLabelValues(cpu).Observe(seconds)
	m.comparisons.WithLabelValues(cpu).Add(float64(comparisons))
}

// SetSummary publishes the summary of the cpu configuration.
func (m *Metrics) SetSummary(cpu string, summary stats.Summary) {
	m.summary.WithLabelValues(cpu, "mean").Set(summary.Mean)
	m.summary.WithLabelValues(cpu, "variance").Set(summary.Variance)
	m.summary.WithLabelValues(cpu, "stddev").Set(summary.StdDev)
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text format read by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, m.registry)
	if err != nil {
		return errors.Wrapf(err, "unable to write metrics to %s", path)
	}

	return nil
}
