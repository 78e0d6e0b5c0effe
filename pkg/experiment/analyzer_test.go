package experiment_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipebench/pkg/cpu"
	"github.com/askiada/go-pipebench/pkg/experiment"
	"github.com/askiada/go-pipebench/pkg/metrics"
	"github.com/askiada/go-pipebench/pkg/sorter"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestAnalyzerExecute(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	proc := cpu.New("Basic", 1, cpu.WithSleeper(clock.Sleep))
	rec := &memoryRecorder{}

	analyzer := experiment.NewAnalyzer(
		sorter.NewQuickSort(proc, sorter.WithClock(clock.Now)),
		experiment.WithRuns(3),
		experiment.WithInputSize(50),
		experiment.WithRand(seeded(1)),
		experiment.WithCPU("Basic", 1),
		experiment.WithRecorder(rec),
		experiment.WithExperimentID("exp"),
	)

	times, err := analyzer.Execute(t.Context())
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.Equal(t, times, analyzer.Times())

	records := rec.Records()
	require.Len(t, records, 3)

	comparisons := 0
	for i, r := range records {
		assert.Equal(t, i, r.Run)
		assert.Equal(t, "exp", r.ExperimentID)
		assert.Equal(t, "Basic", r.CPU)
		assert.Equal(t, 1, r.Stages)
		assert.Equal(t, 50, r.InputSize)
		assert.InDelta(t, times[i], r.Seconds, 1e-12)
		assert.InDelta(t, float64(r.Comparisons)*cpu.BaseDelay.Seconds(), r.Seconds, 1e-9)
		assert.Positive(t, r.Comparisons)

		comparisons += r.Comparisons
	}

	assert.Equal(t, comparisons, clock.Sleeps())

	summary := analyzer.Statistics()
	assert.Equal(t, 3, summary.Count)
	assert.Positive(t, summary.Mean)
}

func TestAnalyzerDefaults(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	proc := cpu.New("Basic", 1, cpu.WithSleeper(clock.Sleep))
	analyzer := experiment.NewAnalyzer(sorter.NewQuickSort(proc), experiment.WithRand(seeded(3)))

	sample := analyzer.Sample()
	require.Len(t, sample, experiment.DefaultInputSize)

	for _, v := range sample {
		assert.GreaterOrEqual(t, v, experiment.DefaultLow)
		assert.LessOrEqual(t, v, experiment.DefaultHigh)
	}

	times, err := analyzer.Execute(t.Context())
	require.NoError(t, err)
	assert.Len(t, times, experiment.DefaultRuns)

	for _, tm := range times {
		assert.GreaterOrEqual(t, tm, 0.0)
	}
}

func TestAnalyzerStatistics(t *testing.T) {
	t.Parallel()

	algorithm := &fixedAlgorithm{step: 10 * time.Millisecond}
	analyzer := experiment.NewAnalyzer(algorithm, experiment.WithRuns(3), experiment.WithInputSize(1))

	times, err := analyzer.Execute(t.Context())
	require.NoError(t, err)
	require.Len(t, times, 3)
	assert.InDeltaSlice(t, []float64{0.01, 0.02, 0.03}, times, 1e-12)

	summary := analyzer.Statistics()
	assert.InDelta(t, 0.02, summary.Mean, 1e-12)
	assert.InDelta(t, 6.666666666666667e-05, summary.Variance, 1e-12)
	assert.InDelta(t, 0.00816496580927726, summary.StdDev, 1e-12)
}

func TestAnalyzerExecuteTwiceKeepsLastTimings(t *testing.T) {
	t.Parallel()

	algorithm := &fixedAlgorithm{step: time.Millisecond}
	analyzer := experiment.NewAnalyzer(algorithm, experiment.WithRuns(2), experiment.WithInputSize(1))

	_, err := analyzer.Execute(t.Context())
	require.NoError(t, err)

	times, err := analyzer.Execute(t.Context())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.003, 0.004}, times, 1e-12)
	assert.Equal(t, 2, analyzer.Statistics().Count)
}

func TestAnalyzerSampleIsReproducible(t *testing.T) {
	t.Parallel()

	algorithm := &fixedAlgorithm{}
	first := experiment.NewAnalyzer(algorithm, experiment.WithRand(seeded(42)), experiment.WithRange(-5, 5))
	second := experiment.NewAnalyzer(algorithm, experiment.WithRand(seeded(42)), experiment.WithRange(-5, 5))

	a := first.Sample()
	assert.Equal(t, a, second.Sample())

	for _, v := range a {
		assert.GreaterOrEqual(t, v, -5)
		assert.LessOrEqual(t, v, 5)
	}
}

func TestAnalyzerMoreStagesAreFaster(t *testing.T) {
	t.Parallel()

	means := map[int]float64{}

	for _, stages := range []int{1, 2, 4} {
		clock := newFakeClock()
		proc := cpu.New("cpu", stages, cpu.WithSleeper(clock.Sleep))
		analyzer := experiment.NewAnalyzer(
			sorter.NewQuickSort(proc, sorter.WithClock(clock.Now)),
			experiment.WithRuns(2),
			experiment.WithInputSize(200),
			experiment.WithRand(seeded(7)),
		)

		_, err := analyzer.Execute(t.Context())
		require.NoError(t, err)

		means[stages] = analyzer.Statistics().Mean
	}

	assert.Greater(t, means[1], means[2])
	assert.Greater(t, means[2], means[4])
	assert.InDelta(t, means[1], 4*means[4], 1e-9)
}

func TestAnalyzerInvalidOptions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts []experiment.Option
		err  error
	}{
		"zero runs": {
			opts: []experiment.Option{experiment.WithRuns(0)},
			err:  experiment.ErrInvalidRuns,
		},
		"negative input size": {
			opts: []experiment.Option{experiment.WithInputSize(-1)},
			err:  experiment.ErrInvalidInputSize,
		},
		"inverted range": {
			opts: []experiment.Option{experiment.WithRange(10, 1)},
			err:  experiment.ErrInvalidRange,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			analyzer := experiment.NewAnalyzer(&fixedAlgorithm{}, tc.opts...)
			_, err := analyzer.Execute(t.Context())
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestAnalyzerRecorderError(t *testing.T) {
	t.Parallel()

	analyzer := experiment.NewAnalyzer(
		&fixedAlgorithm{step: time.Millisecond},
		experiment.WithRuns(3),
		experiment.WithInputSize(1),
		experiment.WithRecorder(&memoryRecorder{err: errRecord}),
	)

	_, err := analyzer.Execute(t.Context())
	require.ErrorIs(t, err, errRecord)
	assert.Contains(t, err.Error(), "record")
}

func TestAnalyzerCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	analyzer := experiment.NewAnalyzer(&fixedAlgorithm{}, experiment.WithRuns(1000), experiment.WithInputSize(1))

	_, err := analyzer.Execute(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzerMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	analyzer := experiment.NewAnalyzer(
		&fixedAlgorithm{step: time.Millisecond},
		experiment.WithRuns(4),
		experiment.WithInputSize(1),
		experiment.WithCPU("Basic", 1),
		experiment.WithMetrics(m),
	)

	_, err := analyzer.Execute(t.Context())
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, family := range families {
		found[family.GetName()] = true

		if family.GetName() == "pipebench_sort_run_seconds" {
			require.Len(t, family.GetMetric(), 1)
			assert.Equal(t, uint64(4), family.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}

	assert.True(t, found["pipebench_sort_run_seconds"])
	assert.True(t, found["pipebench_summary_seconds"])
}
