package report

import (
	"io"
	"math"
	"os"
	"strconv"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"github.com/askiada/go-pipebench/pkg/experiment"
)

var ErrNoResults = errors.New("no result to draw")

const (
	marginLeft   = 90
	marginRight  = 30
	marginTop    = 60
	marginBottom = 80
	barRatio     = 0.8
)

//nolint:lll //this is a template
const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" font-family="sans-serif">
	<rect width="100%" height="100%" fill="white"/>
	<text x="{{num .CenterX}}" y="{{num .TitleY}}" text-anchor="middle" font-size="18">{{html .Title}}</text>
{{range .Ticks}}	<line class="grid" x1="{{num $.Left}}" y1="{{num .Y}}" x2="{{num $.Right}}" y2="{{num .Y}}" stroke="#b0b0b0" stroke-dasharray="4 4" stroke-opacity="0.6"/>
	<text x="{{num $.TickX}}" y="{{num .Y}}" text-anchor="end" dominant-baseline="middle" font-size="12">{{.Label}}</text>
{{end}}{{range .Bars}}	<rect class="bar" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{$.Fill}}"><title>{{html .Label}}: {{.Value}}s</title></rect>
	<text x="{{num .Center}}" y="{{num $.LabelY}}" text-anchor="middle" font-size="12">{{html .Label}}</text>
{{end}}	<line x1="{{num .Left}}" y1="{{num .Bottom}}" x2="{{num .Right}}" y2="{{num .Bottom}}" stroke="black"/>
	<line x1="{{num .Left}}" y1="{{num .Top}}" x2="{{num .Left}}" y2="{{num .Bottom}}" stroke="black"/>
	<text x="{{num .CenterX}}" y="{{num .XLabelY}}" text-anchor="middle" font-size="14">{{html .XLabel}}</text>
	<text x="{{num .YLabelX}}" y="{{num .CenterY}}" text-anchor="middle" font-size="14" transform="rotate(-90 {{num .YLabelX}} {{num .CenterY}})">{{html .YLabel}}</text>
</svg>
`

var svgTpl = template.Must(template.New("svgTemplate").Funcs(template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
}).Parse(svgTemplate))

type chartOptions struct {
	width, height int
	ticks         int
	title         string
	xLabel        string
	yLabel        string
	fill          [3]uint8
}

// ChartOption configures a bar chart.
type ChartOption func(o *chartOptions)

// WithSize sets the size of the chart in pixels.
func WithSize(width, height int) ChartOption {
	return func(o *chartOptions) {
		o.width = width
		o.height = height
	}
}

// WithTitle replaces the default title.
func WithTitle(title string) ChartOption {
	return func(o *chartOptions) {
		o.title = title
	}
}

// WithTicks sets the number of horizontal grid lines above the x axis.
func WithTicks(ticks int) ChartOption {
	return func(o *chartOptions) {
		o.ticks = ticks
	}
}

type chartBar struct {
	X, Y, Width, Height, Center float64
	Label                       string
	Value                       string
}

type chartTick struct {
	Y     float64
	Label string
}

type chart struct {
	Width, Height               int
	Left, Right, Top, Bottom    float64
	CenterX, CenterY            float64
	TitleY, LabelY, XLabelY     float64
	TickX, YLabelX              float64
	Title, XLabel, YLabel, Fill string
	Bars                        []chartBar
	Ticks                       []chartTick
}

// WriteChart draws the mean time of every configuration as an SVG bar chart.
func WriteChart(wrt io.Writer, results []experiment.Result, opts ...ChartOption) error {
	if len(results) == 0 {
		return ErrNoResults
	}

	o := chartOptions{
		width:  1000,
		height: 600,
		ticks:  5,
		title:  "Quick Sort Performance under Different Pipeline Stages",
		xLabel: "CPU Type",
		yLabel: "Mean Execution Time (s)",
		fill:   [3]uint8{135, 206, 235},
	}

	for _, opt := range opts {
		opt(&o)
	}

	fill, err := colors.RGB(o.fill[0], o.fill[1], o.fill[2])
	if err != nil {
		return errors.Wrap(err, "unable to get bar colour")
	}

	c := layout(o, results)
	c.Fill = fill.ToHEX().String()

	return errors.Wrap(svgTpl.Execute(wrt, c), "unable to render chart")
}

// SaveChart writes the chart to path.
func SaveChart(path string, results []experiment.Result, opts ...ChartOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "unable to close %s", path)
		}
	}()

	return WriteChart(f, results, opts...)
}

func layout(o chartOptions, results []experiment.Result) chart {
	c := chart{
		Width:  o.width,
		Height: o.height,
		Left:   marginLeft,
		Right:  float64(o.width - marginRight),
		Top:    marginTop,
		Bottom: float64(o.height - marginBottom),
		Title:  o.title,
		XLabel: o.xLabel,
		YLabel: o.yLabel,
	}
	c.CenterX = (c.Left + c.Right) / 2
	c.CenterY = (c.Top + c.Bottom) / 2
	c.TitleY = c.Top / 2
	c.LabelY = c.Bottom + 20
	c.XLabelY = c.Bottom + 55
	c.TickX = c.Left - 8
	c.YLabelX = c.Left - 70

	plotWidth := c.Right - c.Left
	plotHeight := c.Bottom - c.Top

	maxMean := 0.0
	for _, res := range results {
		maxMean = math.Max(maxMean, res.Summary.Mean)
	}

	top := niceCeil(maxMean)
	ticks := max(o.ticks, 1)

	for i := 0; i <= ticks; i++ {
		value := top * float64(i) / float64(ticks)
		c.Ticks = append(c.Ticks, chartTick{
			Y:     c.Bottom - plotHeight*value/top,
			Label: strconv.FormatFloat(value, 'g', 4, 64),
		})
	}

	slot := plotWidth / float64(len(results))
	for i, res := range results {
		height := plotHeight * res.Summary.Mean / top
		x := c.Left + slot*float64(i) + slot*(1-barRatio)/2
		c.Bars = append(c.Bars, chartBar{
			X:      x,
			Y:      c.Bottom - height,
			Width:  slot * barRatio,
			Height: height,
			Center: x + slot*barRatio/2,
			Label:  res.Name,
			Value:  strconv.FormatFloat(res.Summary.Mean, 'f', 5, 64),
		})
	}

	return c
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten. It returns 1 when v is not positive.
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if candidate := step * magnitude; candidate >= v {
			return candidate
		}
	}

	return 10 * magnitude
}
