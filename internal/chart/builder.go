package chart

import (
	"fmt"
	"math"
	"strings"

	"lifeviz/internal/dataset"
	"lifeviz/internal/frames"
)

const (
	currentValuePrefix   = "Year: "
	currentValueFontSize = 20
)

// Assembler builds ChartSpecs with a fixed Style.
type Assembler struct {
	style Style
}

// NewAssembler returns an assembler; zero style fields fall back to DefaultStyle.
func NewAssembler(style Style) *Assembler {
	def := DefaultStyle()
	if strings.TrimSpace(style.Title) == "" {
		style.Title = def.Title
	}
	if strings.TrimSpace(style.XLabel) == "" {
		style.XLabel = def.XLabel
	}
	if strings.TrimSpace(style.YLabel) == "" {
		style.YLabel = def.YLabel
	}
	if style.MarkerSize <= 0 {
		style.MarkerSize = def.MarkerSize
	}
	if strings.TrimSpace(style.MarkerColor) == "" {
		style.MarkerColor = def.MarkerColor
	}
	if strings.TrimSpace(style.Template) == "" {
		style.Template = def.Template
	}
	if strings.TrimSpace(style.TextPosition) == "" {
		style.TextPosition = def.TextPosition
	}
	if style.SliderDuration < 0 {
		style.SliderDuration = def.SliderDuration
	}
	if style.PlayDuration < 0 {
		style.PlayDuration = def.PlayDuration
	}
	return &Assembler{style: style}
}

// Style returns the assembler's effective style.
func (a *Assembler) Style() Style { return a.style }

// Build assembles a ChartSpec from ds and the frames built from it. The
// frame sequence is embedded as given; one slider step is created per frame
// in the same order.
func (a *Assembler) Build(ds dataset.Dataset, fr []frames.Frame) (ChartSpec, error) {
	spec := ChartSpec{
		style: a.style,
		base:  baseLayer(ds),
	}

	seen := make(map[string]bool, len(fr))
	spec.frames = make([]FrameSpec, 0, len(fr))
	steps := make([]Step, 0, len(fr))
	for _, f := range fr {
		name := f.Name()
		if seen[name] {
			return ChartSpec{}, fmt.Errorf("chart: duplicate frame %s", name)
		}
		seen[name] = true
		spec.frames = append(spec.frames, FrameSpec{Name: name, Year: f.Year, Layer: frameLayer(f)})
		steps = append(steps, Step{
			Label:              name,
			Frame:              name,
			FrameDuration:      a.style.SliderDuration,
			TransitionDuration: a.style.SliderDuration,
			Redraw:             true,
			Mode:               ModeImmediate,
		})
	}
	spec.control = AnimationControl{
		Steps: steps,
		CurrentValue: CurrentValue{
			Prefix:   currentValuePrefix,
			FontSize: currentValueFontSize,
			Visible:  true,
			XAnchor:  "center",
		},
	}
	spec.play = Button{
		Label:         "Play",
		Target:        TargetAll,
		FrameDuration: a.style.PlayDuration,
		Redraw:        true,
		FromCurrent:   true,
	}
	spec.pause = Button{
		Label:         "Pause",
		Target:        TargetCurrent,
		HasTransition: true,
		Redraw:        true,
		Mode:          ModeImmediate,
	}
	return spec, nil
}

func baseLayer(ds dataset.Dataset) Layer {
	l := Layer{
		X:              make([]float64, 0, ds.Len()),
		Y:              make([]float64, 0, ds.Len()),
		Text:           make([]string, 0, ds.Len()),
		LifeExpectancy: make([]float64, 0, ds.Len()),
	}
	for _, row := range ds.Rows {
		life := math.NaN()
		if row.HasLifeExp {
			life = row.LifeExpectancy
		}
		l.X = append(l.X, row.Expenditure)
		l.Y = append(l.Y, row.BMI)
		l.Text = append(l.Text, row.Country)
		l.LifeExpectancy = append(l.LifeExpectancy, life)
	}
	return l
}

func frameLayer(f frames.Frame) Layer {
	l := Layer{
		X:              make([]float64, 0, len(f.Points)),
		Y:              make([]float64, 0, len(f.Points)),
		Text:           make([]string, 0, len(f.Points)),
		LifeExpectancy: make([]float64, 0, len(f.Points)),
	}
	for _, p := range f.Points {
		life := math.NaN()
		if p.HasLifeExp {
			life = p.LifeExpectancy
		}
		l.X = append(l.X, p.Expenditure)
		l.Y = append(l.Y, p.BMI)
		l.Text = append(l.Text, p.Country)
		l.LifeExpectancy = append(l.LifeExpectancy, life)
	}
	return l
}
