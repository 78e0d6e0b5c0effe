package experiment

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/cpu"
	"github.com/askiada/go-pipebench/pkg/pipeline/drawer"
	"github.com/askiada/go-pipebench/pkg/pipeline/measure"
	"github.com/askiada/go-pipebench/pkg/sorter"
	"github.com/askiada/go-pipebench/pkg/stats"
)

// CPU is one simulated CPU configuration.
type CPU struct {
	Name   string
	Stages int
}

// Config describes a whole experiment.
type Config struct {
	CPUs      []CPU
	Runs      int
	InputSize int
	Low       int
	High      int
	// Seed of the input samples. The samples of a configuration only depend on Seed and
	// on the position of the configuration.
	Seed      uint64
	BaseDelay time.Duration
	// GraphDir receives a DOT file per configuration when set.
	GraphDir string
	// Sleeper replaces time.Sleep on every comparison.
	Sleeper func(time.Duration)
	// OnResult is called as soon as a configuration is done.
	OnResult func(Result)
	// Options are applied to every Analyzer.
	Options []Option
}

// Result is the summary of one configuration.
type Result struct {
	ExperimentID string
	Name         string
	Stages       int
	Times        []float64
	Summary      stats.Summary
}

func (cfg Config) validate() error {
	if len(cfg.CPUs) == 0 {
		return ErrNoCPU
	}

	for _, c := range cfg.CPUs {
		if c.Stages < 1 {
			return errors.Wrapf(ErrInvalidStages, "%s: %d", c.Name, c.Stages)
		}
	}

	return nil
}

// Run analyzes every configuration of cfg, one after the other.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	err := cfg.validate()
	if err != nil {
		return nil, err
	}

	if cfg.GraphDir != "" {
		err = os.MkdirAll(cfg.GraphDir, 0o755)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create %s", cfg.GraphDir)
		}
	}

	experimentID := uuid.NewString()
	results := make([]Result, 0, len(cfg.CPUs))

	for i, c := range cfg.CPUs {
		res, err := runCPU(ctx, cfg, experimentID, i, c)
		if err != nil {
			return results, err
		}

		results = append(results, res)

		if cfg.OnResult != nil {
			cfg.OnResult(res)
		}
	}

	return results, nil
}

func runCPU(ctx context.Context, cfg Config, experimentID string, idx int, c CPU) (Result, error) {
	cpuOpts := []cpu.Option{}
	if cfg.BaseDelay > 0 {
		cpuOpts = append(cpuOpts, cpu.WithBaseDelay(cfg.BaseDelay))
	}

	if cfg.Sleeper != nil {
		cpuOpts = append(cpuOpts, cpu.WithSleeper(cfg.Sleeper))
	}

	proc := cpu.New(c.Name, c.Stages, cpuOpts...)

	opts := []Option{
		WithCPU(c.Name, c.Stages),
		WithExperimentID(experimentID),
		WithRand(rand.New(rand.NewPCG(cfg.Seed, uint64(idx)))),
	}

	if cfg.Runs > 0 {
		opts = append(opts, WithRuns(cfg.Runs))
	}

	if cfg.InputSize > 0 {
		opts = append(opts, WithInputSize(cfg.InputSize))
	}

	if cfg.Low != 0 || cfg.High != 0 {
		opts = append(opts, WithRange(cfg.Low, cfg.High))
	}

	if cfg.GraphDir != "" {
		msr := measure.NewDefaultMeasure()
		dotFile := filepath.Join(cfg.GraphDir, Slug(c.Name)+".dot")
		opts = append(opts, WithPipelineOptions(
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr),
		))
	}

	opts = append(opts, cfg.Options...)

	analyzer := NewAnalyzer(sorter.NewQuickSort(proc), opts...)

	times, err := analyzer.Execute(ctx)
	if err != nil {
		return Result{}, err
	}

	return Result{
		ExperimentID: experimentID,
		Name:         c.Name,
		Stages:       c.Stages,
		Times:        times,
		Summary:      analyzer.Statistics(),
	}, nil
}

// Slug turns a configuration name into a file name: "2-Stage Pipeline" becomes "2-stage-pipeline".
func Slug(name string) string {
	var sb strings.Builder

	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}

			sb.WriteRune(r)

			dash = false

			continue
		}

		dash = true
	}

	if sb.Len() == 0 {
		return "cpu"
	}

	return sb.String()
}
