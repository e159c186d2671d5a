// Package render turns an assembled chart and its dataset into something a
// person can look at: the animated HTML page, static per-year echarts pages,
// a terminal table and a PNG snapshot.
package render

import (
	"context"
	"errors"

	"lifeviz/internal/chart"
	"lifeviz/internal/dataset"
)

var (
	// ErrUnknownFrame is returned when a frame name is not part of the chart.
	ErrUnknownFrame = errors.New("render: unknown frame")
	// ErrNoFrames is returned when a per-frame view is asked of an empty chart.
	ErrNoFrames = errors.New("render: chart has no frames")
)

// Host displays a chart and its table.
type Host interface {
	Chart(ctx context.Context, spec chart.ChartSpec) error
	Table(ctx context.Context, ds dataset.Dataset) error
}

// Show hands the chart to h, then the full table. The chart is always
// displayed before the table.
func Show(ctx context.Context, h Host, spec chart.ChartSpec, ds dataset.Dataset) error {
	if err := h.Chart(ctx, spec); err != nil {
		return err
	}
	return h.Table(ctx, ds)
}
