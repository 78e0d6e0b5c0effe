// Package pipeline provides a small staged pipeline used to push benchmark runs from a generator to their sinks.
//
// A pipeline starts with a root step producing elements, continues with steps transforming each element and ends
// with one or more sinks consuming them. Every step runs in its own goroutine and elements travel through channels,
// so a producer blocks until the next step is ready to accept more work. A step can be run by several goroutines
// with StepConcurrency; the default is one, which keeps the elements flowing in order.
//
// A splitter copies every element to several branches, which lets the same result be aggregated and persisted by
// independent sinks.
//
// The pipeline stops on the first error returned by any step: the context shared by the steps is cancelled and Run
// returns the error, prefixed with the name of the failing step.
//
// Pipeline options (see the model package) observe a run through hooks. The measure package records step timings and
// the drawer package renders the pipeline as a DOT graph annotated with them.
package pipeline
