package pipeline

import "github.com/askiada/go-pipebench/pkg/pipeline/model"

// StepOption configures a step.
type StepOption[O any] func(s *model.Step[O])

// StepConcurrency sets the number of goroutines running the step function.
// Results are no longer ordered when concurrent is greater than 1.
func StepConcurrency[O any](concurrent int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.Concurrent = concurrent
	}
}

// StepBufferSize sets the capacity of the output channel of the step.
func StepBufferSize[O any](bufferSize int) StepOption[O] {
	return func(s *model.Step[O]) {
		s.Details.BufferSize = bufferSize
	}
}

// SplitterOption configures a splitter.
type SplitterOption[I any] func(s *Splitter[I])

// SplitterBufferSize sets the capacity of every branch of the splitter.
func SplitterBufferSize[I any](bufferSize int) SplitterOption[I] {
	return func(s *Splitter[I]) {
		s.bufferSize = bufferSize
	}
}
