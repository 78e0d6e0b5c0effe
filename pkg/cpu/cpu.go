// Package cpu models a CPU whose comparisons get cheaper as its pipeline gets deeper.
//
// The model is linear: every comparison costs BaseDelay divided by the number of pipeline
// stages. It does not simulate hazards, stalls or throughput.
package cpu

import "time"

// BaseDelay is the cost of one comparison on a CPU without pipeline.
const BaseDelay = 20 * time.Microsecond

// Pipeline is a simulated CPU configuration. It is immutable once created.
type Pipeline struct {
	name      string
	stages    int
	baseDelay time.Duration
	sleep     func(time.Duration)
}

// Option configures a Pipeline.
type Option func(p *Pipeline)

// WithBaseDelay overrides BaseDelay.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		p.baseDelay = d
	}
}

// WithSleeper replaces time.Sleep, the function blocking on every comparison.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(p *Pipeline) {
		p.sleep = sleep
	}
}

// New creates a CPU with the given number of pipeline stages. stages must be positive.
func New(name string, stages int, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:      name,
		stages:    stages,
		baseDelay: BaseDelay,
		sleep:     time.Sleep,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Stages() int {
	return p.stages
}

// DelaySeconds returns the cost of one comparison in seconds.
func (p *Pipeline) DelaySeconds() float64 {
	return p.baseDelay.Seconds() / float64(p.stages)
}

// Delay returns the cost of one comparison. It panics when the CPU has no stage.
func (p *Pipeline) Delay() time.Duration {
	return p.baseDelay / time.Duration(p.stages)
}

// ProcessDelay blocks for the cost of one comparison.
func (p *Pipeline) ProcessDelay() {
	p.sleep(p.Delay())
}
