package model

type stepType string

const (
	RootStepType     stepType = "root"
	NormalStepType   stepType = "step"
	SplitterStepType stepType = "splitter"
	SinkStepType     stepType = "sink"
)

// StepInfo describes a step of the pipeline.
type StepInfo struct {
	Type       stepType
	Name       string
	Concurrent int
	BufferSize int
}

var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step is a node of the pipeline. Output is read by the next step.
type Step[O any] struct {
	Output  chan O
	Details *StepInfo
}
