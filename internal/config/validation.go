package config

import (
	"fmt"
	"strings"
)

// validate performs basic sanity checks after defaults are applied.
func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Data.validate(); err != nil {
		return err
	}
	if err := c.Chart.validate(); err != nil {
		return err
	}
	if err := c.Render.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch a.Mode {
	case ModeExport, ModeServe:
	default:
		return fmt.Errorf("app.mode must be %q or %q, got %q", ModeExport, ModeServe, a.Mode)
	}
	if a.Mode == ModeServe && strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty in serve mode")
	}
	return nil
}

func (d *DataConfig) validate() error {
	if strings.TrimSpace(d.Dataset) == "" {
		return fmt.Errorf("data.dataset cannot be empty")
	}
	seen := make(map[string]bool, len(d.Sources))
	for _, src := range d.Sources {
		if err := ValidateSource(src); err != nil {
			return err
		}
		key := strings.ToLower(src.Name)
		if seen[key] {
			return fmt.Errorf("data.sources contains duplicate name %s", src.Name)
		}
		seen[key] = true
	}
	if len(d.Sources) == 0 && strings.TrimSpace(d.CatalogPath) == "" {
		return fmt.Errorf("data requires sources or catalog_path")
	}
	return nil
}

// ValidateSource checks a single source entry; catalog entries reuse it.
func ValidateSource(src SourceConfig) error {
	if strings.TrimSpace(src.Name) == "" {
		return fmt.Errorf("data source without name")
	}
	if strings.TrimSpace(src.Path) == "" {
		return fmt.Errorf("data source %s missing path", src.Name)
	}
	switch strings.ToLower(strings.TrimSpace(src.Kind)) {
	case SourceCSV:
	case SourceSQLite:
		if strings.TrimSpace(src.Table) == "" {
			return fmt.Errorf("sqlite source %s missing table", src.Name)
		}
	default:
		return fmt.Errorf("data source %s has unsupported kind %q", src.Name, src.Kind)
	}
	return nil
}

func (c *ChartConfig) validate() error {
	switch c.YearOrder {
	case YearOrderAscending, YearOrderFirstSeen:
	default:
		return fmt.Errorf("chart.year_order must be %q or %q", YearOrderAscending, YearOrderFirstSeen)
	}
	switch c.MalformedYear {
	case MalformedYearFail, MalformedYearSkip:
	default:
		return fmt.Errorf("chart.malformed_year must be %q or %q", MalformedYearFail, MalformedYearSkip)
	}
	if c.MarkerSize <= 0 {
		return fmt.Errorf("chart.marker_size must be > 0")
	}
	if c.SliderDurationMs < 0 || c.PlayDurationMs < 0 {
		return fmt.Errorf("chart durations must be >= 0")
	}
	return nil
}

func (r *RenderConfig) validate() error {
	if strings.TrimSpace(r.OutputDir) == "" {
		return fmt.Errorf("render.output_dir cannot be empty")
	}
	if r.Snapshot && (r.SnapshotWidth < minSnapshotDimensionPx || r.SnapshotHeight < minSnapshotDimensionPx) {
		return fmt.Errorf("render.snapshot_width/height must be >= %d", minSnapshotDimensionPx)
	}
	return nil
}
