package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/pipeline/model"
)

func prepareSink[I any](pipe *Pipeline, name string, input *model.Step[I]) (*model.Step[I], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if input == nil {
		return nil, ErrInputMustBeSet
	}

	step := &model.Step[I]{
		Details: &model.StepInfo{
			Type:       model.SinkStepType,
			Name:       name,
			Concurrent: 1,
		},
	}

	if input.Details != nil {
		for _, opt := range pipe.opts {
			err := opt.PrepareSink(input.Details, step.Details)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare sink %s", name)
			}
		}
	}

	return step, nil
}

// AddSink adds a step calling sinkFn for every element of input. The pipeline stops on the first error of sinkFn.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	step, err := prepareSink(pipe, name, input)
	if err != nil {
		return err
	}

	errC := make(chan error, 1)

	go func() {
		defer close(errC)

		err := consume(pipe, input, step, sinkFn)
		if err != nil {
			errC <- err

			return
		}

		err = pipe.opts.afterSink(step.Details, time.Since(pipe.startTime))
		if err != nil {
			errC <- err
		}
	}()

	pipe.errcList.add(newErrorChan(name, errC))

	return nil
}

func consume[I any](pipe *Pipeline, input, step *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	for {
		startIter := time.Now()
		select {
		case <-pipe.ctx.Done():
			return pipe.ctx.Err()
		case in, ok := <-input.Output:
			if !ok {
				return nil
			}

			startFn := time.Now()

			err := sinkFn(pipe.ctx, in)
			if err != nil {
				return err
			}

			endFn := time.Since(startFn)

			if input.Details != nil {
				err = pipe.opts.onSinkOutput(input.Details, step.Details, time.Since(startIter)-endFn, endFn)
				if err != nil {
					return err
				}
			}
		}
	}
}
