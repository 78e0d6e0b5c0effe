package drawer

import (
	"time"

	"github.com/askiada/go-pipebench/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime labels the step with the time elapsed since startTime.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure annotates the steps and links with the measured durations.
	AddMeasure(measure measure.Measure) error
}
