package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lifeviz/internal/config"
	"lifeviz/internal/source"
)

type StartupSummary struct {
	Mode    string
	Dataset string
	Sources []SourceDetail
	Chart   ChartDetail
	Output  OutputDetail

	out io.Writer
}

type SourceDetail struct {
	Name  string
	Kind  string
	Path  string
	Table string
}

type ChartDetail struct {
	Title     string
	YearOrder string
	Malformed string
	Template  string
}

type OutputDetail struct {
	Dir      string
	Files    []string
	Addr     string
	Watch    bool
	Snapshot bool
}

func buildSummary(cfg *config.Config, handle *source.Handle) *StartupSummary {
	s := &StartupSummary{
		Mode:    cfg.App.Mode,
		Dataset: cfg.Data.Dataset,
		Chart: ChartDetail{
			Title:     cfg.Chart.Title,
			YearOrder: cfg.Chart.YearOrder,
			Malformed: cfg.Chart.MalformedYear,
			Template:  cfg.Chart.Template,
		},
		Output: OutputDetail{
			Dir:      cfg.Render.OutputDir,
			Addr:     cfg.App.HTTPAddr,
			Watch:    cfg.Data.Watch,
			Snapshot: cfg.Render.Snapshot,
		},
		out: os.Stdout,
	}
	for _, name := range handle.Names() {
		src, _ := handle.Source(name)
		s.Sources = append(s.Sources, SourceDetail{Name: src.Name, Kind: src.Kind, Path: src.Path, Table: src.Table})
	}
	files := []string{cfg.Render.ChartFile, cfg.Render.FramesFile, cfg.Render.TableFile}
	if cfg.Render.Snapshot {
		files = append(files, cfg.Render.SnapshotFile)
	}
	for _, f := range files {
		s.Output.Files = append(s.Output.Files, filepath.Join(cfg.Render.OutputDir, f))
	}
	return s
}

func (s *StartupSummary) Print() {
	w := s.out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%*s\n", 40+len("STARTUP SUMMARY")/2, "STARTUP SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 80))

	fmt.Fprintln(w, "[DATA]")
	fmt.Fprintf(w, "  dataset: %s\n", s.Dataset)
	if len(s.Sources) == 0 {
		fmt.Fprintln(w, "  (no sources)")
	}
	for _, src := range s.Sources {
		marker := " "
		if strings.EqualFold(src.Name, s.Dataset) {
			marker = ">"
		}
		line := fmt.Sprintf("  %s %s [%s] %s", marker, src.Name, src.Kind, src.Path)
		if src.Table != "" {
			line += " table=" + src.Table
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[CHART]")
	fmt.Fprintf(w, "  title: %s\n", s.Chart.Title)
	fmt.Fprintf(w, "  year order: %s, malformed years: %s\n", s.Chart.YearOrder, s.Chart.Malformed)
	fmt.Fprintf(w, "  template: %s\n", s.Chart.Template)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "[OUTPUT: %s]\n", s.Mode)
	if s.Mode == config.ModeServe {
		fmt.Fprintf(w, "  listen: %s\n", s.Output.Addr)
		fmt.Fprintf(w, "  watch source: %t\n", s.Output.Watch)
	} else {
		fmt.Fprintf(w, "  files: %s\n", formatList(s.Output.Files))
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
