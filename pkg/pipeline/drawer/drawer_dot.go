package drawer

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-pipebench/pkg/pipeline/measure"
)

// DOTDrawer draws the pipeline as a Graphviz DOT file.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph. Adding a step twice is a no-op.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and child steps.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// Draw writes the graph to the file of the drawer.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.WriteTo(file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return nil
}

// WriteTo renders the graph in DOT format.
func (d *DOTDrawer) WriteTo(wrt io.Writer) error {
	desc, err := generateDOT(d.graph)
	if err != nil {
		return err
	}

	return renderDOT(wrt, desc)
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes["xlabel"] = time.Since(startTime).Round(time.Microsecond).String()

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its average duration and colours every link
// from blue (fastest transport) to red (slowest transport).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	transports := []time.Duration{}

	for _, step := range msr.AllMetrics() {
		for _, elapsed := range step.AVGTransportDuration() {
			if elapsed > 0 {
				transports = append(transports, elapsed)
			}
		}
	}

	palette, err := gradient(transports)
	if err != nil {
		return err
	}

	return d.updateMetrics(msr, palette)
}

// gradient maps every duration to a colour proportional to its position between the extremes.
func gradient(durations []time.Duration) (map[time.Duration]string, error) {
	palette := make(map[time.Duration]string, len(durations))
	if len(durations) == 0 {
		return palette, nil
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	minValue, maxValue := durations[0], durations[len(durations)-1]

	for _, curr := range durations {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(curr-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return nil, errors.Wrap(err, "unable to get colour")
		}

		palette[curr] = colour.ToHEX().String()
	}

	return palette, nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, palette map[time.Duration]string) error {
	for name, step := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if errors.Is(err, graph.ErrVertexNotFound) {
			continue
		}

		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		if stepAvg := step.AVGDuration(); stepAvg != 0 {
			properties.Attributes["xlabel"] = "avg: " + stepAvg.String()
		}

		if total := step.GetTotalDuration(); total > 0 {
			properties.Attributes["xlabel"] += ", end: " + total.Round(time.Microsecond).String()
		}

		for inputStep, elapsed := range step.AVGTransportDuration() {
			if elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStep, name,
				graph.EdgeAttribute("label", elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", palette[elapsed]),
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge from %s to %s", inputStep, name)
			}
		}
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
