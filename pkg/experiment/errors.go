package experiment

import "github.com/pkg/errors"

var (
	ErrInvalidRuns      = errors.New("runs must be greater than 0")
	ErrInvalidInputSize = errors.New("input size must not be negative")
	ErrInvalidRange     = errors.New("high must not be lower than low")
	ErrInvalidStages    = errors.New("stages must be greater than 0")
	ErrNoCPU            = errors.New("at least one cpu is required")
)
