package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, ModeExport, cfg.App.Mode)
	assert.Equal(t, "life_expectancy_data_csv", cfg.Data.Dataset)
	require.Len(t, cfg.Data.Sources, 1)
	assert.Equal(t, SourceCSV, cfg.Data.Sources[0].Kind)
	assert.Equal(t, 12, cfg.Chart.MarkerSize)
	assert.Equal(t, "lightblue", cfg.Chart.MarkerColor)
	assert.Equal(t, "plotly_white", cfg.Chart.Template)
	assert.Equal(t, 300, cfg.Chart.SliderDurationMs)
	assert.Equal(t, 500, cfg.Chart.PlayDurationMs)
	assert.Equal(t, YearOrderAscending, cfg.Chart.YearOrder)
	assert.Equal(t, MalformedYearFail, cfg.Chart.MalformedYear)
}

func TestLoadMergesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
chart:
  title: Base Title
  marker_size: 8
data:
  sources:
    - name: who
      kind: sqlite
      path: who.db
      table: life
`)
	main := writeFile(t, dir, "config.yaml", `
include:
  - base.yaml
app:
  mode: SERVE
  log_level: debug
data:
  dataset: who
chart:
  title: Override
  year_order: first_seen
`)

	cfg, err := Load(main)
	require.NoError(t, err)

	assert.Equal(t, ModeServe, cfg.App.Mode)
	assert.Equal(t, "Override", cfg.Chart.Title)
	assert.Equal(t, 8, cfg.Chart.MarkerSize)
	assert.Equal(t, YearOrderFirstSeen, cfg.Chart.YearOrder)
	src, ok := cfg.Data.Source("WHO")
	require.True(t, ok)
	assert.Equal(t, SourceSQLite, src.Kind)
	assert.Equal(t, "life", src.Table)
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: b.yaml\n")
	writeFile(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := Load(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"mode":        "app:\n  mode: batch\n",
		"year order":  "chart:\n  year_order: random\n",
		"malformed":   "chart:\n  malformed_year: guess\n",
		"source kind": "data:\n  sources:\n    - name: x\n      kind: parquet\n      path: x.parquet\n",
		"sqlite":      "data:\n  sources:\n    - name: x\n      kind: sqlite\n      path: x.db\n",
		"duplicate":   "data:\n  sources:\n    - {name: x, path: a.csv}\n    - {name: X, path: b.csv}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestExplicitKeysSkipDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "page:\n  heading: \"\"\n  intro: [\"  first  \", \"\", second]\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Page.Heading)
	assert.Equal(t, []string{"first", "second"}, cfg.Page.Intro)
}
