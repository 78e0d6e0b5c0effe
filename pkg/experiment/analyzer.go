package experiment

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askiada/go-pipebench/pkg/metrics"
	"github.com/askiada/go-pipebench/pkg/pipeline"
	"github.com/askiada/go-pipebench/pkg/pipeline/model"
	"github.com/askiada/go-pipebench/pkg/record"
	"github.com/askiada/go-pipebench/pkg/sorter"
	"github.com/askiada/go-pipebench/pkg/stats"
)

const (
	DefaultRuns      = 5
	DefaultInputSize = 1000
	DefaultLow       = 1
	DefaultHigh      = 10000
)

// Run is the outcome of sorting one input sample.
type Run struct {
	Index   int
	Seconds float64
	sorter.Counters
}

type sample struct {
	index int
	data  []int
}

// Analyzer repeats an algorithm over random inputs and summarizes the durations.
type Analyzer struct {
	algorithm    sorter.Algorithm
	cpuName      string
	stages       int
	runs         int
	inputSize    int
	low, high    int
	rng          *rand.Rand
	recorder     record.Recorder
	metrics      *metrics.Metrics
	pipeOpts     []model.PipelineOption
	logger       logrus.FieldLogger
	experimentID string
	times        *stats.Collector
}

// Option configures an Analyzer.
type Option func(a *Analyzer)

// WithRuns sets the number of runs.
func WithRuns(runs int) Option {
	return func(a *Analyzer) {
		a.runs = runs
	}
}

// WithInputSize sets the length of every input sample.
func WithInputSize(size int) Option {
	return func(a *Analyzer) {
		a.inputSize = size
	}
}

// WithRange sets the inclusive bounds of the values of the input samples.
func WithRange(low, high int) Option {
	return func(a *Analyzer) {
		a.low = low
		a.high = high
	}
}

// WithRand sets the random source of the input samples.
func WithRand(rng *rand.Rand) Option {
	return func(a *Analyzer) {
		a.rng = rng
	}
}

// WithCPU labels the runs with the name and the stage count of the simulated CPU.
func WithCPU(name string, stages int) Option {
	return func(a *Analyzer) {
		a.cpuName = name
		a.stages = stages
	}
}

// WithRecorder persists every run.
func WithRecorder(recorder record.Recorder) Option {
	return func(a *Analyzer) {
		a.recorder = recorder
	}
}

// WithMetrics publishes every run and the summary.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithPipelineOptions adds options to the pipeline running the analysis.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(a *Analyzer) {
		a.pipeOpts = append(a.pipeOpts, opts...)
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithExperimentID sets the identifier attached to the records.
func WithExperimentID(id string) Option {
	return func(a *Analyzer) {
		a.experimentID = id
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

// NewAnalyzer creates an analyzer of algorithm. Without options it runs 5 times
// on inputs of 1000 values drawn in [1, 10000].
func NewAnalyzer(algorithm sorter.Algorithm, opts ...Option) *Analyzer {
	a := &Analyzer{
		algorithm: algorithm,
		cpuName:   algorithm.Name(),
		runs:      DefaultRuns,
		inputSize: DefaultInputSize,
		low:       DefaultLow,
		high:      DefaultHigh,
		logger:    discardLogger(),
		times:     stats.NewCollector(0),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.rng == nil {
		seed := uint64(time.Now().UnixNano())
		a.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	return a
}

func (a *Analyzer) validate() error {
	switch {
	case a.runs < 1:
		return errors.Wrapf(ErrInvalidRuns, "%d", a.runs)
	case a.inputSize < 0:
		return errors.Wrapf(ErrInvalidInputSize, "%d", a.inputSize)
	case a.high < a.low:
		return errors.Wrapf(ErrInvalidRange, "[%d, %d]", a.low, a.high)
	}

	return nil
}

// Execute sorts runs fresh input samples and returns the duration of every run in seconds,
// in run order. Timings of a previous call are discarded.
func (a *Analyzer) Execute(ctx context.Context) ([]float64, error) {
	err := a.validate()
	if err != nil {
		return nil, err
	}

	a.times = stats.NewCollector(a.runs)

	pipe, err := pipeline.New(ctx, a.pipeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	samples, err := pipeline.AddRootStep(pipe, "generate", a.generate)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add generate step")
	}

	runs, err := pipeline.AddStepOneToOne(pipe, "sort", samples, a.sort, pipeline.StepConcurrency[Run](1))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add sort step")
	}

	err = a.addSinks(pipe, runs)
	if err != nil {
		return nil, err
	}

	err = pipe.Run()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to analyze %s", a.cpuName)
	}

	summary := a.Statistics()
	if a.metrics != nil {
		a.metrics.SetSummary(a.cpuName, summary)
	}

	a.logger.WithFields(logrus.Fields{
		"cpu":    a.cpuName,
		"stages": a.stages,
		"mean":   summary.Mean,
		"stddev": summary.StdDev,
	}).Info("analysis done")

	return a.times.Times(), nil
}

func (a *Analyzer) addSinks(pipe *pipeline.Pipeline, runs *model.Step[Run]) error {
	if a.recorder == nil {
		return errors.Wrap(pipeline.AddSink(pipe, "aggregate", runs, a.aggregate), "unable to add aggregate sink")
	}

	splitter, err := pipeline.AddSplitter(pipe, "fanout", runs, 2)
	if err != nil {
		return errors.Wrap(err, "unable to add fanout")
	}

	aggregateInput, _ := splitter.Get()

	err = pipeline.AddSink(pipe, "aggregate", aggregateInput, a.aggregate)
	if err != nil {
		return errors.Wrap(err, "unable to add aggregate sink")
	}

	recordInput, _ := splitter.Get()

	return errors.Wrap(pipeline.AddSink(pipe, "record", recordInput, a.record), "unable to add record sink")
}

// Sample draws an input sample of the configured size and range.
func (a *Analyzer) Sample() []int {
	data := make([]int, a.inputSize)
	span := a.high - a.low + 1

	for i := range data {
		data[i] = a.low + a.rng.IntN(span)
	}

	return data
}

func (a *Analyzer) generate(ctx context.Context, samples chan<- sample) error {
	for i := range a.runs {
		s := sample{index: i, data: a.Sample()}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case samples <- s:
		}
	}

	return nil
}

func (a *Analyzer) sort(_ context.Context, s sample) (Run, error) {
	res := a.algorithm.Run(s.data)

	return Run{Index: s.index, Seconds: res.Elapsed.Seconds(), Counters: res.Counters}, nil
}

func (a *Analyzer) aggregate(_ context.Context, run Run) error {
	a.times.Add(run.Seconds)

	if a.metrics != nil {
		a.metrics.ObserveRun(a.cpuName, run.Seconds, run.Comparisons)
	}

	a.logger.WithFields(logrus.Fields{
		"cpu":         a.cpuName,
		"run":         run.Index,
		"elapsed":     run.Seconds,
		"comparisons": run.Comparisons,
	}).Debug("run done")

	return nil
}

func (a *Analyzer) record(ctx context.Context, run Run) error {
	return a.recorder.Record(ctx, record.Record{
		ExperimentID: a.experimentID,
		CPU:          a.cpuName,
		Stages:       a.stages,
		Run:          run.Index,
		InputSize:    a.inputSize,
		Seconds:      run.Seconds,
		Comparisons:  run.Comparisons,
		Swaps:        run.Swaps,
		RecordedAt:   time.Now(),
	})
}

// Times returns the durations in seconds of the last Execute.
func (a *Analyzer) Times() []float64 {
	return a.times.Times()
}

// Statistics summarizes the durations of the last Execute.
func (a *Analyzer) Statistics() stats.Summary {
	return a.times.Summary()
}
