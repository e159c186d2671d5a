package config

import (
	"strings"
	"time"
)

// Config is the root configuration for lifeviz.
type Config struct {
	App    AppConfig    `toml:"app"`
	Data   DataConfig   `toml:"data"`
	Chart  ChartConfig  `toml:"chart"`
	Page   PageConfig   `toml:"page"`
	Render RenderConfig `toml:"render"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	Mode      string `toml:"mode"` // "export" | "serve"
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogPath   string `toml:"log_path"`
	HTTPAddr  string `toml:"http_addr"`
}

// DataConfig describes where datasets come from and which one is charted.
type DataConfig struct {
	CatalogPath string         `toml:"catalog_path"`
	Dataset     string         `toml:"dataset"`
	Watch       bool           `toml:"watch"`
	DebounceMs  int            `toml:"debounce_ms"`
	Sources     []SourceConfig `toml:"sources"`
}

// SourceConfig is one named tabular source.
type SourceConfig struct {
	Name  string `toml:"name" yaml:"name"`
	Kind  string `toml:"kind" yaml:"kind"` // "csv" | "sqlite"
	Path  string `toml:"path" yaml:"path"`
	Table string `toml:"table" yaml:"table"`
}

// Debounce returns the watcher debounce window.
func (d DataConfig) Debounce() time.Duration {
	if d.DebounceMs <= 0 {
		return 0
	}
	return time.Duration(d.DebounceMs) * time.Millisecond
}

// ChartConfig controls frame construction and chart styling.
type ChartConfig struct {
	Title            string `toml:"title"`
	XLabel           string `toml:"x_label"`
	YLabel           string `toml:"y_label"`
	MarkerSize       int    `toml:"marker_size"`
	MarkerColor      string `toml:"marker_color"`
	Template         string `toml:"template"`
	ShowText         bool   `toml:"show_text"`
	TextPosition     string `toml:"text_position"`
	YearOrder        string `toml:"year_order"`     // "ascending" | "first_seen"
	MalformedYear    string `toml:"malformed_year"` // "fail" | "skip"
	SliderDurationMs int    `toml:"slider_duration_ms"`
	PlayDurationMs   int    `toml:"play_duration_ms"`
}

// PageConfig holds the text blocks shown above the chart.
type PageConfig struct {
	Heading string   `toml:"heading"`
	Intro   []string `toml:"intro"`
}

// RenderConfig controls the export host.
type RenderConfig struct {
	OutputDir      string `toml:"output_dir"`
	ChartFile      string `toml:"chart_file"`
	FramesFile     string `toml:"frames_file"`
	TableFile      string `toml:"table_file"`
	TableMaxRows   int    `toml:"table_max_rows"`
	Terminal       bool   `toml:"terminal"`
	Snapshot       bool   `toml:"snapshot"`
	SnapshotFile   string `toml:"snapshot_file"`
	SnapshotWidth  int    `toml:"snapshot_width"`
	SnapshotHeight int    `toml:"snapshot_height"`
}

// Source returns the named source, case-insensitively.
func (d DataConfig) Source(name string) (SourceConfig, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, src := range d.Sources {
		if strings.ToLower(strings.TrimSpace(src.Name)) == name {
			return src, true
		}
	}
	return SourceConfig{}, false
}

// keySet tracks the field paths explicitly set in the config files.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes how a single field receives its default.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
