// Package stats computes the summary of a set of timing samples.
//
// Variance and standard deviation are population statistics: the sum of squared
// deviations is divided by the number of samples, not by the number of samples minus one.
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/aclements/go-moremath/stats"
)

// Summary describes a set of samples expressed in seconds.
type Summary struct {
	Count    int
	Mean     float64
	Variance float64
	StdDev   float64
	Min      float64
	Max      float64
	Median   float64
}

// Summarize computes the summary of xs. An empty set yields a zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}

	sample := stats.Sample{Xs: append([]float64(nil), xs...)}
	sample.Sort()

	mean := sample.Mean()
	variance := PopulationVariance(xs, mean)
	lo, hi := sample.Bounds()

	return Summary{
		Count:    len(xs),
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      lo,
		Max:      hi,
		Median:   sample.Quantile(0.5),
	}
}

// PopulationVariance returns the mean of the squared deviations of xs from mean.
// go-moremath only provides the sample variance (n-1 denominator).
func PopulationVariance(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}

	return sum / float64(len(xs))
}

// Seconds converts durations to seconds.
func Seconds(ds []time.Duration) []float64 {
	res := make([]float64, len(ds))
	for i, d := range ds {
		res[i] = d.Seconds()
	}

	return res
}

// Collector accumulates samples. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	times []float64
}

// NewCollector creates a collector able to hold capacity samples without growing.
func NewCollector(capacity int) *Collector {
	return &Collector{times: make([]float64, 0, max(capacity, 0))}
}

// Add records a sample in seconds.
func (c *Collector) Add(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.times = append(c.times, seconds)
}

// AddDuration records a sample.
func (c *Collector) AddDuration(d time.Duration) {
	c.Add(d.Seconds())
}

// Times returns a copy of the samples in insertion order.
func (c *Collector) Times() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]float64(nil), c.times...)
}

// Len returns the number of samples.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.times)
}

// Summary summarizes the samples collected so far.
func (c *Collector) Summary() Summary {
	return Summarize(c.Times())
}
