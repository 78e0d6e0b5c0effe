package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipebench/pkg/pipeline/model"
)

func concurrency(details *model.StepInfo) int {
	if details == nil || details.Concurrent < 1 {
		return 1
	}

	return details.Concurrent
}

func sequentialOneToOne[I any, O any](ctx context.Context, goIdx int, opts hooks, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}

			startFn := time.Now()

			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}

			endFn := time.Since(startFn)

			// the context is checked again so that no goroutine pushes
			// a new element once the pipeline is cancelled
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case output.Output <- out:
				err := opts.onStepOutput(input.Details, output.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					return err
				}
			}
		}
	}
}

func runOneToOne[I any, O any](ctx context.Context, opts hooks, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
	concurrent := concurrency(output.Details)
	if concurrent == 1 {
		return sequentialOneToOne(ctx, 0, opts, input, output, oneToOneFn)
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrent)

	for goIdx := range concurrent {
		errGrp.Go(func() error {
			return sequentialOneToOne(dCtx, goIdx, opts, input, output, oneToOneFn)
		})
	}

	return errGrp.Wait()
}

func prepareStep[I, O any](pipe *Pipeline, name string, input *model.Step[I], opts ...StepOption[O]) (*model.Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if input == nil {
		return nil, ErrInputMustBeSet
	}

	step := &model.Step[O]{
		Details: &model.StepInfo{
			Type:       model.NormalStepType,
			Name:       name,
			Concurrent: 1,
		},
	}

	for _, opt := range opts {
		opt(step)
	}

	step.Output = make(chan O, step.Details.BufferSize)

	if input.Details != nil {
		for _, opt := range pipe.opts {
			err := opt.PrepareStep(input.Details, step.Details)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare step %s", name)
			}
		}
	}

	return step, nil
}

// AddStepOneToOne adds a step calling oneToOneFn for every element of input.
// The output of the step is closed once input is drained or the pipeline fails.
func AddStepOneToOne[I any, O any](pipe *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error), opts ...StepOption[O]) (*model.Step[O], error) {
	step, err := prepareStep(pipe, name, input, opts...)
	if err != nil {
		return nil, err
	}

	errC := make(chan error, 1)

	go func() {
		defer func() {
			close(step.Output)
			close(errC)
		}()

		err := runOneToOne(pipe.ctx, pipe.opts, input, step, oneToOneFn)
		if err != nil {
			errC <- err
		}
	}()

	pipe.errcList.add(newErrorChan(name, errC))

	return step, nil
}
