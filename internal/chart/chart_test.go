package chart

import (
	"encoding/json"
	"testing"
	"time"

	"lifeviz/internal/dataset"
	"lifeviz/internal/frames"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func scenario() dataset.Dataset {
	mk := func(country string, year int, exp, bmi float64) dataset.Row {
		return dataset.Row{Country: country, Year: year, HasYear: true, Expenditure: exp, BMI: bmi}
	}
	return dataset.Dataset{Name: "scenario", Rows: []dataset.Row{
		mk("A", 2000, 5.0, 20.0),
		mk("B", 2000, 6.0, 22.0),
		mk("A", 2001, 5.5, 21.0),
	}}
}

func assemble(t *testing.T, ds dataset.Dataset) ChartSpec {
	t.Helper()
	fr, err := frames.Build(ds, frames.Options{})
	require.NoError(t, err)
	spec, err := NewAssembler(DefaultStyle()).Build(ds, fr)
	require.NoError(t, err)
	return spec
}

func TestBuildScenario(t *testing.T) {
	spec := assemble(t, scenario())

	assert.Equal(t, 3, spec.Base().Len())
	assert.Equal(t, []string{"2000", "2001"}, spec.FrameNames())
	fr := spec.Frames()
	assert.Equal(t, 2, fr[0].Layer.Len())
	assert.Equal(t, 1, fr[1].Layer.Len())

	ctl := spec.Control()
	require.Len(t, ctl.Steps, 2)
	assert.Equal(t, []string{"2000", "2001"}, ctl.Labels())
	for _, s := range ctl.Steps {
		assert.Equal(t, s.Label, s.Frame)
		assert.Equal(t, 300*time.Millisecond, s.FrameDuration)
		assert.Equal(t, 300*time.Millisecond, s.TransitionDuration)
		assert.True(t, s.Redraw)
		assert.Equal(t, ModeImmediate, s.Mode)
	}
	assert.Equal(t, "Year: ", ctl.CurrentValue.Prefix)
	assert.Equal(t, 20, ctl.CurrentValue.FontSize)
}

func TestBuildEmptyDataset(t *testing.T) {
	spec := assemble(t, dataset.Dataset{})

	assert.Zero(t, spec.Base().Len())
	assert.Empty(t, spec.Frames())
	assert.Empty(t, spec.Control().Steps)

	raw, err := ValidateSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.GetBytes(raw, "data.0.x.#").Int())
}

func TestBuildSingleRow(t *testing.T) {
	ds := dataset.Dataset{Rows: []dataset.Row{{Country: "A", Year: 2010, HasYear: true, Expenditure: 1, BMI: 2}}}
	spec := assemble(t, ds)

	assert.Len(t, spec.Frames(), 1)
	assert.Len(t, spec.Control().Steps, 1)
	assert.Equal(t, 1, spec.Base().Len())
}

func TestPlayPauseButtons(t *testing.T) {
	spec := assemble(t, scenario())

	play := spec.Play()
	assert.Equal(t, TargetAll, play.Target)
	assert.Equal(t, 500*time.Millisecond, play.FrameDuration)
	assert.True(t, play.FromCurrent)
	assert.True(t, play.Redraw)

	pause := spec.Pause()
	assert.Equal(t, TargetCurrent, pause.Target)
	assert.Zero(t, pause.FrameDuration)
	assert.True(t, pause.HasTransition)
	assert.Zero(t, pause.TransitionDuration)
	assert.Equal(t, ModeImmediate, pause.Mode)

	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	buttons := gjson.GetBytes(raw, "layout.updatemenus.0.buttons")
	assert.Equal(t, "Play", buttons.Get("0.label").String())
	assert.Equal(t, gjson.Null, buttons.Get("0.args.0").Type)
	assert.Equal(t, int64(500), buttons.Get("0.args.1.frame.duration").Int())
	assert.True(t, buttons.Get("0.args.1.fromcurrent").Bool())
	assert.False(t, buttons.Get("0.args.1.transition").Exists())

	assert.Equal(t, "Pause", buttons.Get("1.label").String())
	assert.JSONEq(t, "[null]", buttons.Get("1.args.0").Raw)
	assert.Equal(t, int64(0), buttons.Get("1.args.1.transition.duration").Int())
	assert.Equal(t, "immediate", buttons.Get("1.args.1.mode").String())
	assert.False(t, gjson.GetBytes(raw, "layout.updatemenus.0.showactive").Bool())
}

func TestFigureEncoding(t *testing.T) {
	style := DefaultStyle()
	style.ShowText = true
	fr, err := frames.Build(scenario(), frames.Options{})
	require.NoError(t, err)
	spec, err := NewAssembler(style).Build(scenario(), fr)
	require.NoError(t, err)

	raw, err := ValidateSpec(spec)
	require.NoError(t, err)

	base := gjson.GetBytes(raw, "data.0")
	assert.Equal(t, "markers+text", base.Get("mode").String())
	assert.Equal(t, "top center", base.Get("textposition").String())
	assert.Equal(t, int64(12), base.Get("marker.size").Int())
	assert.Equal(t, "lightblue", base.Get("marker.color").String())
	assert.JSONEq(t, `["A","B","A"]`, base.Get("text").Raw)
	assert.JSONEq(t, `[[null],[null],[null]]`, base.Get("customdata").Raw)

	assert.Equal(t, "plotly_white", gjson.GetBytes(raw, "layout.template").String())
	assert.JSONEq(t, `["2000","2001"]`, gjson.GetBytes(raw, "frames.#.name").Raw)
	assert.JSONEq(t, `[["2000"],["2001"]]`, gjson.GetBytes(raw, "layout.sliders.0.steps.#.args.0").Raw)
}

func TestMissingValuesEncodeAsNull(t *testing.T) {
	tbl := dataset.Table{
		Columns: []string{"Country", "Year", "Total expenditure", "BMI", "Life expectancy"},
		Cells:   [][]string{{"A", "2000", "", "20", "71.5"}},
	}
	ds, err := dataset.FromTable("t", tbl)
	require.NoError(t, err)
	raw, err := ValidateSpec(assemble(t, ds))
	require.NoError(t, err)

	assert.JSONEq(t, `[null]`, gjson.GetBytes(raw, "data.0.x").Raw)
	assert.JSONEq(t, `[[71.5]]`, gjson.GetBytes(raw, "frames.0.data.0.customdata").Raw)
}

func TestBuildIsIdempotent(t *testing.T) {
	a, err := json.Marshal(assemble(t, scenario()))
	require.NoError(t, err)
	b, err := json.Marshal(assemble(t, scenario()))
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestAccessorsReturnCopies(t *testing.T) {
	spec := assemble(t, scenario())
	base := spec.Base()
	base.Text[0] = "mutated"
	steps := spec.Control().Steps
	steps[0].Label = "mutated"

	assert.Equal(t, "A", spec.Base().Text[0])
	assert.Equal(t, "2000", spec.Control().Steps[0].Label)
}

func TestDuplicateFramesRejected(t *testing.T) {
	fr := []frames.Frame{{Year: 2000}, {Year: 2000}}
	_, err := NewAssembler(Style{}).Build(dataset.Dataset{}, fr)
	assert.Error(t, err)
}

func TestValidateRejectsMismatchedSteps(t *testing.T) {
	raw, err := json.Marshal(assemble(t, scenario()))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	layout := doc["layout"].(map[string]any)
	slider := layout["sliders"].([]any)[0].(map[string]any)
	steps := slider["steps"].([]any)
	steps[0], steps[1] = steps[1], steps[0]
	swapped, err := json.Marshal(doc)
	require.NoError(t, err)

	assert.ErrorIs(t, Validate(swapped), ErrInvalidFigure)

	slider["steps"] = steps[:1]
	short, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(short), ErrInvalidFigure)
}

func TestValidateRejectsBadShape(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrInvalidFigure)
	assert.ErrorIs(t, Validate([]byte(`{"data":[]`)), ErrInvalidFigure)
	assert.ErrorIs(t, Validate([]byte(`{"data":[],"frames":[],"layout":{}}`)), ErrInvalidFigure)
}

func TestNewAssemblerFillsDefaults(t *testing.T) {
	a := NewAssembler(Style{Title: "Custom"})
	got := a.Style()
	assert.Equal(t, "Custom", got.Title)
	assert.Equal(t, 12, got.MarkerSize)
	assert.Equal(t, "plotly_white", got.Template)
}
