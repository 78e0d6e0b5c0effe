package experiment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-pipebench/pkg/experiment"
)

func referenceCPUs() []experiment.CPU {
	return []experiment.CPU{
		{Name: "Basic (No Pipeline)", Stages: 1},
		{Name: "2-Stage Pipeline", Stages: 2},
		{Name: "4-Stage Pipeline", Stages: 4},
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	graphDir := filepath.Join(t.TempDir(), "graphs")
	rec := &memoryRecorder{}
	notified := []string{}

	results, err := experiment.Run(t.Context(), experiment.Config{
		CPUs:      referenceCPUs(),
		Runs:      2,
		InputSize: 30,
		Seed:      5,
		GraphDir:  graphDir,
		Sleeper:   clock.Sleep,
		OnResult: func(res experiment.Result) {
			notified = append(notified, res.Name)
		},
		Options: []experiment.Option{experiment.WithRecorder(rec)},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Basic (No Pipeline)", "2-Stage Pipeline", "4-Stage Pipeline"}, notified)

	for i, res := range results {
		assert.Equal(t, referenceCPUs()[i].Name, res.Name)
		assert.Equal(t, referenceCPUs()[i].Stages, res.Stages)
		assert.Len(t, res.Times, 2)
		assert.Equal(t, 2, res.Summary.Count)
		assert.NotEmpty(t, res.ExperimentID)
		assert.Equal(t, results[0].ExperimentID, res.ExperimentID)
	}

	records := rec.Records()
	require.Len(t, records, 6)
	assert.Equal(t, "4-Stage Pipeline", records[5].CPU)
	assert.Equal(t, 4, records[5].Stages)

	for _, name := range []string{"basic-no-pipeline.dot", "2-stage-pipeline.dot", "4-stage-pipeline.dot"} {
		content, err := os.ReadFile(filepath.Join(graphDir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(content), "strict digraph")
		assert.Contains(t, string(content), `"sort"`)
		assert.Contains(t, string(content), `"record"`)
	}
}

func TestRunSameSeedSameComparisons(t *testing.T) {
	t.Parallel()

	comparisons := func() []int {
		rec := &memoryRecorder{}
		_, err := experiment.Run(t.Context(), experiment.Config{
			CPUs:      referenceCPUs()[:1],
			Runs:      3,
			InputSize: 40,
			Seed:      11,
			Sleeper:   newFakeClock().Sleep,
			Options:   []experiment.Option{experiment.WithRecorder(rec)},
		})
		require.NoError(t, err)

		res := []int{}
		for _, r := range rec.Records() {
			res = append(res, r.Comparisons)
		}

		return res
	}

	assert.Equal(t, comparisons(), comparisons())
}

func TestRunInvalidConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg experiment.Config
		err error
	}{
		"no cpu": {
			cfg: experiment.Config{},
			err: experiment.ErrNoCPU,
		},
		"zero stages": {
			cfg: experiment.Config{CPUs: []experiment.CPU{{Name: "broken", Stages: 0}}},
			err: experiment.ErrInvalidStages,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			results, err := experiment.Run(t.Context(), tc.cfg)
			require.ErrorIs(t, err, tc.err)
			assert.Empty(t, results)
		})
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"Basic (No Pipeline)": "basic-no-pipeline",
		"2-Stage Pipeline":    "2-stage-pipeline",
		"  spaced  ":          "spaced",
		"***":                 "cpu",
	}

	for in, want := range tcs {
		assert.Equal(t, want, experiment.Slug(in), in)
	}
}
