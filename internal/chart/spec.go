// Package chart assembles the animated scatter description handed to a
// rendering host: a base layer with every row, one frame per year, slider
// steps that scrub between frames and play/pause buttons.
//
// A ChartSpec is a finished value. Its fields are unexported and every
// accessor returns a copy, so a spec handed to a host cannot be changed
// behind the caller's back.
package chart

import (
	"time"
)

// Animation modes understood by the host.
const (
	ModeImmediate = "immediate"
)

// Style carries the presentation knobs of a chart.
type Style struct {
	Title          string
	XLabel         string
	YLabel         string
	MarkerSize     int
	MarkerColor    string
	Template       string
	ShowText       bool
	TextPosition   string
	SliderDuration time.Duration
	PlayDuration   time.Duration
}

// DefaultStyle is the stock look: light blue markers on a white template.
func DefaultStyle() Style {
	return Style{
		Title:          "Life Expectancy vs. BMI",
		XLabel:         "Total Expenditure",
		YLabel:         "BMI",
		MarkerSize:     12,
		MarkerColor:    "lightblue",
		Template:       "plotly_white",
		TextPosition:   "top center",
		SliderDuration: 300 * time.Millisecond,
		PlayDuration:   500 * time.Millisecond,
	}
}

// Layer is a column-oriented set of markers. Missing values are NaN.
type Layer struct {
	X              []float64
	Y              []float64
	Text           []string
	LifeExpectancy []float64
}

// Len returns the number of points.
func (l Layer) Len() int { return len(l.X) }

func (l Layer) clone() Layer {
	return Layer{
		X:              append([]float64(nil), l.X...),
		Y:              append([]float64(nil), l.Y...),
		Text:           append([]string(nil), l.Text...),
		LifeExpectancy: append([]float64(nil), l.LifeExpectancy...),
	}
}

// FrameSpec is one animation frame keyed by Name.
type FrameSpec struct {
	Name  string
	Year  int
	Layer Layer
}

// Step is a slider stop that animates to Frame.
type Step struct {
	Label              string
	Frame              string
	FrameDuration      time.Duration
	TransitionDuration time.Duration
	Redraw             bool
	Mode               string
}

// CurrentValue describes the slider's current-value readout.
type CurrentValue struct {
	Prefix   string
	FontSize int
	Visible  bool
	XAnchor  string
}

// AnimationControl is the slider: ordered steps plus the readout.
type AnimationControl struct {
	Steps        []Step
	CurrentValue CurrentValue
}

// Labels returns the step labels in order.
func (a AnimationControl) Labels() []string {
	out := make([]string, len(a.Steps))
	for i, s := range a.Steps {
		out[i] = s.Label
	}
	return out
}

// Target says which frames a button animates.
type Target int

const (
	// TargetAll advances through every frame in sequence order.
	TargetAll Target = iota
	// TargetCurrent jumps to the current frame, which halts playback.
	TargetCurrent
)

// Button is a play or pause control.
type Button struct {
	Label              string
	Target             Target
	FrameDuration      time.Duration
	TransitionDuration time.Duration
	HasTransition      bool
	Redraw             bool
	FromCurrent        bool
	Mode               string
}

// ChartSpec is the assembled, read-only chart description.
type ChartSpec struct {
	style   Style
	base    Layer
	frames  []FrameSpec
	control AnimationControl
	play    Button
	pause   Button
}

// Style returns the presentation settings the chart was built with.
func (c ChartSpec) Style() Style { return c.style }

// Base returns a copy of the all-years base layer.
func (c ChartSpec) Base() Layer { return c.base.clone() }

// Frames returns a copy of the frame sequence.
func (c ChartSpec) Frames() []FrameSpec {
	out := make([]FrameSpec, len(c.frames))
	for i, f := range c.frames {
		out[i] = FrameSpec{Name: f.Name, Year: f.Year, Layer: f.Layer.clone()}
	}
	return out
}

// FrameNames returns the frame keys in sequence order.
func (c ChartSpec) FrameNames() []string {
	out := make([]string, len(c.frames))
	for i, f := range c.frames {
		out[i] = f.Name
	}
	return out
}

// Frame looks up a frame by name.
func (c ChartSpec) Frame(name string) (FrameSpec, bool) {
	for _, f := range c.frames {
		if f.Name == name {
			return FrameSpec{Name: f.Name, Year: f.Year, Layer: f.Layer.clone()}, true
		}
	}
	return FrameSpec{}, false
}

// Control returns a copy of the slider.
func (c ChartSpec) Control() AnimationControl {
	return AnimationControl{
		Steps:        append([]Step(nil), c.control.Steps...),
		CurrentValue: c.control.CurrentValue,
	}
}

// Play returns the play button.
func (c ChartSpec) Play() Button { return c.play }

// Pause returns the pause button.
func (c ChartSpec) Pause() Button { return c.pause }
