package config

import (
	"fmt"
	"strings"
)

const (
	defaultAppEnv          = "dev"
	defaultAppMode         = ModeExport
	defaultAppLogLevel     = "info"
	defaultAppLogFormat    = "text"
	defaultAppHTTPAddr     = ":8501"
	defaultDataset         = "life_expectancy_data_csv"
	defaultDataPath        = "data/life_expectancy_data.csv"
	defaultDebounceMs      = 250
	defaultChartTitle      = "Life Expectancy vs. BMI"
	defaultXLabel          = "Total Expenditure"
	defaultYLabel          = "BMI"
	defaultMarkerSize      = 12
	defaultMarkerColor     = "lightblue"
	defaultTemplate        = "plotly_white"
	defaultTextPosition    = "top center"
	defaultYearOrder       = YearOrderAscending
	defaultMalformedYear   = MalformedYearFail
	defaultSliderDuration  = 300
	defaultPlayDuration    = 500
	defaultPageHeading     = "Welcome to lifeviz!"
	defaultOutputDir       = "out"
	defaultChartFile       = "chart.html"
	defaultFramesFile      = "frames.html"
	defaultTableFile       = "table.txt"
	defaultSnapshotFile    = "chart.png"
	defaultTableMaxRows    = 50
	defaultSnapshotWidth   = 1280
	defaultSnapshotHeight  = 900
	minSnapshotDimensionPx = 200
)

const (
	ModeExport = "export"
	ModeServe  = "serve"

	SourceCSV    = "csv"
	SourceSQLite = "sqlite"

	YearOrderAscending = "ascending"
	YearOrderFirstSeen = "first_seen"

	MalformedYearFail = "fail"
	MalformedYearSkip = "skip"
)

// applyDefaults fills every section with defaults for keys the files left unset.
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Data.applyDefaults(keys)
	c.Chart.applyDefaults(keys)
	c.Page.applyDefaults(keys)
	c.Render.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.mode", &a.Mode, defaultAppMode),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
	a.Mode = strings.ToLower(strings.TrimSpace(a.Mode))
}

func (d *DataConfig) applyDefaults(keys keySet) {
	if d == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("data.dataset", &d.Dataset, defaultDataset),
		fieldDefault{
			key:   "data.debounce_ms",
			need:  func() bool { return d.DebounceMs <= 0 },
			apply: func() { d.DebounceMs = defaultDebounceMs },
		},
	)
	if len(d.Sources) == 0 && strings.TrimSpace(d.CatalogPath) == "" {
		d.Sources = []SourceConfig{{
			Name: defaultDataset,
			Kind: SourceCSV,
			Path: defaultDataPath,
		}}
	}
	for i := range d.Sources {
		src := &d.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		if src.Name == "" {
			if i == 0 {
				src.Name = defaultDataset
			} else {
				src.Name = fmt.Sprintf("source_%d", i)
			}
		}
		src.Kind = strings.ToLower(strings.TrimSpace(src.Kind))
		if src.Kind == "" {
			src.Kind = SourceCSV
		}
	}
}

func (c *ChartConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("chart.title", &c.Title, defaultChartTitle),
		stringFieldDefault("chart.x_label", &c.XLabel, defaultXLabel),
		stringFieldDefault("chart.y_label", &c.YLabel, defaultYLabel),
		stringFieldDefault("chart.marker_color", &c.MarkerColor, defaultMarkerColor),
		stringFieldDefault("chart.template", &c.Template, defaultTemplate),
		stringFieldDefault("chart.text_position", &c.TextPosition, defaultTextPosition),
		stringFieldDefault("chart.year_order", &c.YearOrder, defaultYearOrder),
		stringFieldDefault("chart.malformed_year", &c.MalformedYear, defaultMalformedYear),
		fieldDefault{
			key:   "chart.marker_size",
			need:  func() bool { return c.MarkerSize <= 0 },
			apply: func() { c.MarkerSize = defaultMarkerSize },
		},
		fieldDefault{
			key:   "chart.slider_duration_ms",
			need:  func() bool { return c.SliderDurationMs <= 0 },
			apply: func() { c.SliderDurationMs = defaultSliderDuration },
		},
		fieldDefault{
			key:   "chart.play_duration_ms",
			need:  func() bool { return c.PlayDurationMs <= 0 },
			apply: func() { c.PlayDurationMs = defaultPlayDuration },
		},
	)
	c.YearOrder = strings.ToLower(strings.TrimSpace(c.YearOrder))
	c.MalformedYear = strings.ToLower(strings.TrimSpace(c.MalformedYear))
}

func (p *PageConfig) applyDefaults(keys keySet) {
	if p == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("page.heading", &p.Heading, defaultPageHeading),
	)
	p.Intro = normalizeTextBlocks(p.Intro)
}

func (r *RenderConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("render.output_dir", &r.OutputDir, defaultOutputDir),
		stringFieldDefault("render.chart_file", &r.ChartFile, defaultChartFile),
		stringFieldDefault("render.frames_file", &r.FramesFile, defaultFramesFile),
		stringFieldDefault("render.table_file", &r.TableFile, defaultTableFile),
		stringFieldDefault("render.snapshot_file", &r.SnapshotFile, defaultSnapshotFile),
		fieldDefault{
			key:   "render.table_max_rows",
			need:  func() bool { return r.TableMaxRows <= 0 },
			apply: func() { r.TableMaxRows = defaultTableMaxRows },
		},
		fieldDefault{
			key:   "render.snapshot_width",
			need:  func() bool { return r.SnapshotWidth <= 0 },
			apply: func() { r.SnapshotWidth = defaultSnapshotWidth },
		},
		fieldDefault{
			key:   "render.snapshot_height",
			need:  func() bool { return r.SnapshotHeight <= 0 },
			apply: func() { r.SnapshotHeight = defaultSnapshotHeight },
		},
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func normalizeTextBlocks(blocks []string) []string {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
