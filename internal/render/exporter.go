package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"lifeviz/internal/chart"
	"lifeviz/internal/config"
	"lifeviz/internal/dataset"
	"lifeviz/internal/logger"
)

// Exporter is a Host that writes the chart and table into a directory.
//
// Chart writes the animated page, the per-frame echarts page and, when
// enabled, a PNG snapshot. Table writes the text table and rewrites the
// animated page with the table appended below the chart.
type Exporter struct {
	cfg      config.RenderConfig
	page     config.PageConfig
	terminal *Terminal
	buildID  string

	spec    chart.ChartSpec
	hasSpec bool
}

// NewExporter returns an Exporter for cfg. A nil terminal disables the
// console echo regardless of cfg.Terminal.
func NewExporter(cfg config.RenderConfig, page config.PageConfig, terminal *Terminal) *Exporter {
	if !cfg.Terminal {
		terminal = nil
	}
	return &Exporter{cfg: cfg, page: page, terminal: terminal}
}

// SetBuildID stamps subsequent pages with id.
func (e *Exporter) SetBuildID(id string) { e.buildID = id }

func (e *Exporter) path(name string) string {
	return filepath.Join(e.cfg.OutputDir, name)
}

func (e *Exporter) ensureDir() error {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

func (e *Exporter) Chart(ctx context.Context, spec chart.ChartSpec) error {
	if err := e.ensureDir(); err != nil {
		return err
	}
	e.spec, e.hasSpec = spec, true
	html, err := e.writePage(dataset.Dataset{})
	if err != nil {
		return err
	}
	if len(spec.Frames()) > 0 {
		var buf bytes.Buffer
		if err := FrameCharts(&buf, spec); err != nil {
			return err
		}
		if err := writeFile(e.path(e.cfg.FramesFile), buf.Bytes()); err != nil {
			return err
		}
	}
	if e.cfg.Snapshot {
		e.snapshot(ctx, html)
	}
	if e.terminal != nil {
		return e.terminal.Chart(ctx, spec)
	}
	return nil
}

func (e *Exporter) Table(ctx context.Context, ds dataset.Dataset) error {
	if err := e.ensureDir(); err != nil {
		return err
	}
	text := TableString(NewTableView(ds, e.cfg.TableMaxRows))
	if err := writeFile(e.path(e.cfg.TableFile), []byte(text+"\n")); err != nil {
		return err
	}
	if e.hasSpec {
		if _, err := e.writePage(ds); err != nil {
			return err
		}
	}
	if e.terminal != nil {
		return e.terminal.Table(ctx, ds)
	}
	return nil
}

func (e *Exporter) writePage(ds dataset.Dataset) ([]byte, error) {
	page, err := NewPage(e.spec, ds, PageOptions{
		Heading: e.page.Heading,
		Intro:   e.page.Intro,
		MaxRows: e.cfg.TableMaxRows,
		BuildID: e.buildID,
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WritePage(&buf, page); err != nil {
		return nil, err
	}
	if err := writeFile(e.path(e.cfg.ChartFile), buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// snapshot failures are logged; a missing browser must not fail an export.
func (e *Exporter) snapshot(ctx context.Context, html []byte) {
	if err := HeadlessAvailable(ctx); err != nil {
		logger.Warnf("render: snapshot skipped, headless browser unavailable: %v", err)
		return
	}
	png, err := Snapshot(ctx, html, e.cfg.SnapshotWidth, e.cfg.SnapshotHeight)
	if err != nil {
		logger.Warnf("render: snapshot failed: %v", err)
		return
	}
	if err := writeFile(e.path(e.cfg.SnapshotFile), png); err != nil {
		logger.Warnf("render: %v", err)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Infof("render: wrote %s (%d bytes)", path, len(data))
	return nil
}
