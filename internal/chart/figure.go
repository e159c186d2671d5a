package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Figure is the declarative, plotly-shaped encoding of a ChartSpec.
type Figure struct {
	Data   []Trace       `json:"data"`
	Frames []FigureFrame `json:"frames"`
	Layout Layout        `json:"layout"`
}

type Trace struct {
	Type          string   `json:"type"`
	Mode          string   `json:"mode"`
	X             []any    `json:"x"`
	Y             []any    `json:"y"`
	Text          []string `json:"text"`
	TextPosition  string   `json:"textposition,omitempty"`
	CustomData    [][]any  `json:"customdata"`
	HoverTemplate string   `json:"hovertemplate,omitempty"`
	Marker        Marker   `json:"marker"`
}

type Marker struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

type FigureFrame struct {
	Name string  `json:"name"`
	Data []Trace `json:"data"`
}

type Layout struct {
	Title       Text         `json:"title"`
	Template    string       `json:"template"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Sliders     []Slider     `json:"sliders"`
	UpdateMenus []UpdateMenu `json:"updatemenus"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Text `json:"title"`
}

type Slider struct {
	Steps        []SliderStep  `json:"steps"`
	CurrentValue SliderReadout `json:"currentvalue"`
}

type SliderStep struct {
	Args   []any  `json:"args"`
	Label  string `json:"label"`
	Method string `json:"method"`
}

type SliderReadout struct {
	Font    Font   `json:"font"`
	Prefix  string `json:"prefix"`
	Visible bool   `json:"visible"`
	XAnchor string `json:"xanchor"`
}

type Font struct {
	Size int `json:"size"`
}

type UpdateMenu struct {
	Buttons    []MenuButton `json:"buttons"`
	Direction  string       `json:"direction"`
	Pad        Pad          `json:"pad"`
	ShowActive bool         `json:"showactive"`
	Type       string       `json:"type"`
	X          float64      `json:"x"`
	XAnchor    string       `json:"xanchor"`
	Y          float64      `json:"y"`
	YAnchor    string       `json:"yanchor"`
}

type MenuButton struct {
	Args   []any  `json:"args"`
	Label  string `json:"label"`
	Method string `json:"method"`
}

type Pad struct {
	R int `json:"r"`
	T int `json:"t"`
}

// AnimateOptions is the second argument of an animate call.
type AnimateOptions struct {
	Frame       FrameOptions       `json:"frame"`
	Mode        string             `json:"mode,omitempty"`
	Transition  *TransitionOptions `json:"transition,omitempty"`
	FromCurrent bool               `json:"fromcurrent,omitempty"`
}

type FrameOptions struct {
	Duration int64 `json:"duration"`
	Redraw   bool  `json:"redraw"`
}

type TransitionOptions struct {
	Duration int64 `json:"duration"`
}

const methodAnimate = "animate"

// Figure encodes the chart for a plotly-compatible host.
func (c ChartSpec) Figure() Figure {
	fig := Figure{
		Data:   []Trace{c.trace(c.base, true)},
		Frames: make([]FigureFrame, 0, len(c.frames)),
		Layout: Layout{
			Title:    Text{Text: c.style.Title},
			Template: c.style.Template,
			XAxis:    Axis{Title: Text{Text: c.style.XLabel}},
			YAxis:    Axis{Title: Text{Text: c.style.YLabel}},
		},
	}
	for _, f := range c.frames {
		fig.Frames = append(fig.Frames, FigureFrame{
			Name: f.Name,
			Data: []Trace{c.trace(f.Layer, false)},
		})
	}

	steps := make([]SliderStep, 0, len(c.control.Steps))
	for _, s := range c.control.Steps {
		steps = append(steps, SliderStep{
			Args: []any{
				[]string{s.Frame},
				AnimateOptions{
					Frame:      FrameOptions{Duration: millis(s.FrameDuration), Redraw: s.Redraw},
					Mode:       s.Mode,
					Transition: &TransitionOptions{Duration: millis(s.TransitionDuration)},
				},
			},
			Label:  s.Label,
			Method: methodAnimate,
		})
	}
	cv := c.control.CurrentValue
	fig.Layout.Sliders = []Slider{{
		Steps: steps,
		CurrentValue: SliderReadout{
			Font:    Font{Size: cv.FontSize},
			Prefix:  cv.Prefix,
			Visible: cv.Visible,
			XAnchor: cv.XAnchor,
		},
	}}
	fig.Layout.UpdateMenus = []UpdateMenu{{
		Buttons:    []MenuButton{menuButton(c.play), menuButton(c.pause)},
		Direction:  "left",
		Pad:        Pad{R: 10, T: 87},
		ShowActive: false,
		Type:       "buttons",
		X:          0.1,
		XAnchor:    "right",
		Y:          0,
		YAnchor:    "top",
	}}
	return fig
}

// MarshalJSON encodes the chart as its Figure.
func (c ChartSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Figure())
}

func (c ChartSpec) trace(l Layer, base bool) Trace {
	mode := "markers"
	if c.style.ShowText {
		mode = "markers+text"
	}
	t := Trace{
		Type:       "scatter",
		Mode:       mode,
		X:          nullable(l.X),
		Y:          nullable(l.Y),
		Text:       append([]string{}, l.Text...),
		CustomData: make([][]any, len(l.LifeExpectancy)),
		Marker:     Marker{Size: c.style.MarkerSize, Color: c.style.MarkerColor},
	}
	t.HoverTemplate = fmt.Sprintf("Country=%%{text}<br>%s=%%{x}<br>%s=%%{y}<br>Life expectancy=%%{customdata[0]}<extra></extra>",
		c.style.XLabel, c.style.YLabel)
	for i, v := range l.LifeExpectancy {
		t.CustomData[i] = []any{nullableValue(v)}
	}
	if base || c.style.ShowText {
		t.TextPosition = c.style.TextPosition
	}
	return t
}

func menuButton(b Button) MenuButton {
	opts := AnimateOptions{
		Frame:       FrameOptions{Duration: millis(b.FrameDuration), Redraw: b.Redraw},
		Mode:        b.Mode,
		FromCurrent: b.FromCurrent,
	}
	if b.HasTransition {
		opts.Transition = &TransitionOptions{Duration: millis(b.TransitionDuration)}
	}
	var target any
	if b.Target == TargetCurrent {
		target = []any{nil}
	}
	return MenuButton{
		Args:   []any{target, opts},
		Label:  b.Label,
		Method: methodAnimate,
	}
}

func nullable(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = nullableValue(v)
	}
	return out
}

func nullableValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}
