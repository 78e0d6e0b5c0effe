package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/pipeline/model"
)

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context
	cancel    context.CancelFunc
	errcList  *errorChans
	opts      hooks
	startTime time.Time
}

// New creates a new pipeline. The steps stop as soon as ctx is cancelled.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	dCtx, cancel := context.WithCancel(ctx)
	pipe := &Pipeline{
		ctx:       dCtx,
		cancel:    cancel,
		errcList:  &errorChans{},
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			cancel()

			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// waitForPipeline waits for results from all error channels.
// It returns early on the first error.
func waitForPipeline(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}

// Run waits for every step to finish. The pipeline is cancelled on the first error.
func (p *Pipeline) Run() error {
	defer p.cancel()

	err := waitForPipeline(p.errcList.list...)
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

// hooks dispatches step events to every pipeline option.
type hooks []model.PipelineOption

func (h hooks) onStepOutput(parent, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	if parent == nil || step == nil {
		return nil
	}

	for _, opt := range h {
		err := opt.OnStepOutput(parent, step, iterationDuration, computationDuration)
		if err != nil {
			return errors.Wrapf(err, "unable to run output hook of %s", step.Name)
		}
	}

	return nil
}

func (h hooks) onSplitterOutput(parent, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	for _, opt := range h {
		err := opt.OnSplitterOutput(parent, step, iterationDuration, computationDuration)
		if err != nil {
			return errors.Wrapf(err, "unable to run output hook of %s", step.Name)
		}
	}

	return nil
}

func (h hooks) onSinkOutput(parent, step *model.StepInfo, iterationDuration, computationDuration time.Duration) error {
	for _, opt := range h {
		err := opt.OnSinkOutput(parent, step, iterationDuration, computationDuration)
		if err != nil {
			return errors.Wrapf(err, "unable to run output hook of %s", step.Name)
		}
	}

	return nil
}

func (h hooks) afterSink(step *model.StepInfo, totalDuration time.Duration) error {
	for _, opt := range h {
		err := opt.AfterSink(step, totalDuration)
		if err != nil {
			return errors.Wrapf(err, "unable to run after sink hook of %s", step.Name)
		}
	}

	return nil
}
