package stats_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipebench/pkg/stats"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    []float64
		expected stats.Summary
	}{
		"empty": {
			input:    nil,
			expected: stats.Summary{},
		},
		"single": {
			input:    []float64{0.5},
			expected: stats.Summary{Count: 1, Mean: 0.5, Min: 0.5, Max: 0.5, Median: 0.5},
		},
		"three timings": {
			input: []float64{0.03, 0.01, 0.02},
			expected: stats.Summary{
				Count:    3,
				Mean:     0.02,
				Variance: 0.0002 / 3,
				StdDev:   math.Sqrt(0.0002 / 3),
				Min:      0.01,
				Max:      0.03,
				Median:   0.02,
			},
		},
		"constant": {
			input:    []float64{2, 2, 2, 2},
			expected: stats.Summary{Count: 4, Mean: 2, Min: 2, Max: 2, Median: 2},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := stats.Summarize(tc.input)
			assert.Equal(t, tc.expected.Count, got.Count)
			assert.InDelta(t, tc.expected.Mean, got.Mean, 1e-12)
			assert.InDelta(t, tc.expected.Variance, got.Variance, 1e-12)
			assert.InDelta(t, tc.expected.StdDev, got.StdDev, 1e-12)
			assert.InDelta(t, tc.expected.Min, got.Min, 1e-12)
			assert.InDelta(t, tc.expected.Max, got.Max, 1e-12)
			assert.InDelta(t, tc.expected.Median, got.Median, 1e-12)
		})
	}
}

func TestSummarizeHandComputedExample(t *testing.T) {
	t.Parallel()

	got := stats.Summarize([]float64{0.01, 0.02, 0.03})
	assert.InDelta(t, 0.02, got.Mean, 1e-12)
	assert.InDelta(t, 0.0000667, got.Variance, 1e-7)
	assert.InDelta(t, 0.00816, got.StdDev, 1e-5)
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	input := []float64{3, 1, 2}
	_ = stats.Summarize(input)
	assert.Equal(t, []float64{3, 1, 2}, input)
}

func TestPopulationVarianceUsesSampleCount(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2, 3, 4}
	// squared deviations: 2.25 + 0.25 + 0.25 + 2.25 = 5
	assert.InDelta(t, 1.25, stats.PopulationVariance(xs, 2.5), 1e-12)
	assert.Zero(t, stats.PopulationVariance(nil, 0))
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	got := stats.Seconds([]time.Duration{time.Second, 500 * time.Millisecond, 0})
	assert.Equal(t, []float64{1, 0.5, 0}, got)
}

func TestCollector(t *testing.T) {
	t.Parallel()

	c := stats.NewCollector(4)
	wg := sync.WaitGroup{}

	for range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			c.AddDuration(10 * time.Millisecond)
		}()
	}

	wg.Wait()

	require.Equal(t, 100, c.Len())
	summary := c.Summary()
	assert.InDelta(t, 0.01, summary.Mean, 1e-12)
	assert.InDelta(t, 0, summary.Variance, 1e-12)

	times := c.Times()
	times[0] = 42
	assert.InDelta(t, 0.01, c.Times()[0], 1e-12)
}
