package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/pipeline/model"
)

// AddRootStep adds the step feeding the pipeline. stepFn pushes elements to rootChan and
// must stop when ctx is done. rootChan is closed when stepFn returns.
func AddRootStep[O any](pipe *Pipeline, name string, stepFn func(ctx context.Context, rootChan chan<- O) error, opts ...StepOption[O]) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.RootStepType,
			Name:       name,
			Concurrent: 1,
		},
	}

	for _, opt := range opts {
		opt(step)
	}

	step.Output = make(chan O, step.Details.BufferSize)

	for _, opt := range pipe.opts {
		err := opt.PrepareStep(model.StartStep.Details, step.Details)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to prepare root step %s", name)
		}
	}

	errC := make(chan error, 1)

	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()

		err := stepFn(pipe.ctx, step.Output)
		if err != nil {
			errC <- err
		}
	}()

	pipe.errcList.add(newErrorChan(name, errC))

	return step, nil
}
