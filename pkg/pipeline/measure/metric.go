package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-pipebench/pkg/stats"
)

// DefaultMetric keeps every duration it is given.
type DefaultMetric struct {
	mu            sync.Mutex
	computation   *stats.Collector
	allTransports map[string]*stats.Collector
	totalDuration time.Duration
	concurrent    int
}

func newDefaultMetric(concurrent int) *DefaultMetric {
	if concurrent < 1 {
		concurrent = 1
	}

	return &DefaultMetric{
		computation:   stats.NewCollector(0),
		allTransports: make(map[string]*stats.Collector),
		concurrent:    concurrent,
	}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.computation.AddDuration(elapsed)
}

func (mt *DefaultMetric) AddTransportDuration(inputStepName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	c, ok := mt.allTransports[inputStepName]
	if !ok {
		c = stats.NewCollector(0)
		mt.allTransports[inputStepName] = c
	}

	c.AddDuration(elapsed)
}

func (mt *DefaultMetric) SetTotalDuration(totalDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.totalDuration = totalDuration
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.totalDuration
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	return round(seconds(mt.computation.Summary().Mean))
}

// AVGTransportDuration returns the average transport duration per input step,
// divided by the concurrency of the step since that many elements wait at the same time.
func (mt *DefaultMetric) AVGTransportDuration() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]time.Duration, len(mt.allTransports))
	for name, c := range mt.allTransports {
		res[name] = round(seconds(c.Summary().Mean / float64(mt.concurrent)))
	}

	return res
}

func (mt *DefaultMetric) Summary() stats.Summary {
	return mt.computation.Summary()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		return d.Round(time.Hour)
	case d > time.Minute:
		return d.Round(time.Minute)
	case d > time.Second:
		return d.Round(time.Second)
	case d > time.Millisecond:
		return d.Round(time.Millisecond)
	case d > time.Microsecond:
		return d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
