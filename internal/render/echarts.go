package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/shopspring/decimal"

	"lifeviz/internal/chart"
)

const (
	frameWidthPx  = 900
	frameHeightPx = 520
	colorAxisText = "#4b5563"

	baseName = "all years"
)

// Bounds is a padded axis range shared by every frame so that scrubbing
// between static pages keeps the same scale.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// AxisBounds computes Bounds over the base layer, ignoring NaN values.
// An empty or all-missing layer yields [0, 1] on both axes.
func AxisBounds(spec chart.ChartSpec) Bounds {
	base := spec.Base()
	xMin, xMax := padded(base.X)
	yMin, yMax := padded(base.Y)
	return Bounds{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

func padded(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	low := decimal.NewFromFloat(lo)
	high := decimal.NewFromFloat(hi)
	pad := high.Sub(low).Mul(decimal.NewFromFloat(0.05))
	if pad.IsZero() {
		pad = decimal.NewFromInt(1)
	}
	return low.Sub(pad).RoundFloor(1).InexactFloat64(), high.Add(pad).RoundCeil(1).InexactFloat64()
}

// FrameChart builds a static scatter of one frame.
func FrameChart(spec chart.ChartSpec, frame chart.FrameSpec, b Bounds) *charts.Scatter {
	style := spec.Style()
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", frameWidthPx),
			Height:          fmt.Sprintf("%dpx", frameHeightPx),
			BackgroundColor: "#ffffff",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (%s)", style.Title, frame.Name),
			Subtitle: fmt.Sprintf("%d countries", countPoints(frame.Layer)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			Name:      style.XLabel,
			Min:       b.XMin,
			Max:       b.XMax,
			AxisLabel: &opts.AxisLabel{Color: colorAxisText},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      style.YLabel,
			Min:       b.YMin,
			Max:       b.YMax,
			AxisLabel: &opts.AxisLabel{Color: colorAxisText},
		}),
	)
	sc.AddSeries(frame.Name, scatterData(frame.Layer, style.MarkerSize))
	sc.SetSeriesOptions(
		charts.WithItemStyleOpts(opts.ItemStyle{Color: style.MarkerColor}),
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(style.ShowText),
			Position:  "top",
			Formatter: "{b}",
		}),
	)
	return sc
}

func scatterData(l chart.Layer, size int) []opts.ScatterData {
	out := make([]opts.ScatterData, 0, l.Len())
	for i := range l.X {
		if math.IsNaN(l.X[i]) || math.IsNaN(l.Y[i]) {
			continue
		}
		out = append(out, opts.ScatterData{
			Name:       l.Text[i],
			Value:      []float64{l.X[i], l.Y[i]},
			SymbolSize: size,
		})
	}
	return out
}

func countPoints(l chart.Layer) int {
	n := 0
	for i := range l.X {
		if !math.IsNaN(l.X[i]) && !math.IsNaN(l.Y[i]) {
			n++
		}
	}
	return n
}

// WriteFrameChart renders one frame as a standalone echarts page.
func WriteFrameChart(w io.Writer, spec chart.ChartSpec, name string) error {
	frame, ok := spec.Frame(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFrame, name)
	}
	return FrameChart(spec, frame, AxisBounds(spec)).Render(w)
}

// FrameCharts renders the all-years base layer followed by every frame in
// sequence order onto one flex page.
func FrameCharts(w io.Writer, spec chart.ChartSpec) error {
	frames := spec.Frames()
	if len(frames) == 0 {
		return ErrNoFrames
	}
	b := AxisBounds(spec)
	page := components.NewPage()
	page.SetPageTitle(spec.Style().Title)
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(FrameChart(spec, chart.FrameSpec{Name: baseName, Layer: spec.Base()}, b))
	for _, f := range frames {
		page.AddCharts(FrameChart(spec, f, b))
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
