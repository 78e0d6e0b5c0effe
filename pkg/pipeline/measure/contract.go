package measure

import (
	"time"

	"github.com/askiada/go-pipebench/pkg/stats"
)

// Measure holds one metric per step of a pipeline.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric records the timings of a single step.
type Metric interface {
	// AddDuration records the time spent in the step function for one element.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time an element waited on the link from inputStepName.
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]time.Duration
	SetTotalDuration(totalDuration time.Duration)
	GetTotalDuration() time.Duration
	// Summary summarizes the durations recorded with AddDuration.
	Summary() stats.Summary
}
