package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"lifeviz/internal/chart"
	"lifeviz/internal/dataset"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Page is everything the animated HTML page shows.
type Page struct {
	Title       string
	Heading     string
	Intro       []string
	DatasetName string
	Figure      template.JS
	Table       TableView
	BuildID     string
	Live        bool
}

// TableView is a bounded copy of a dataset's raw table.
type TableView struct {
	Columns   []string
	Rows      [][]string
	Total     int
	Truncated bool
}

// NewTableView keeps at most maxRows rows; maxRows <= 0 keeps all.
func NewTableView(ds dataset.Dataset, maxRows int) TableView {
	cells := ds.Table.Cells
	view := TableView{
		Columns: append([]string(nil), ds.Table.Columns...),
		Total:   len(cells),
	}
	if maxRows > 0 && len(cells) > maxRows {
		cells = cells[:maxRows]
		view.Truncated = true
	}
	view.Rows = make([][]string, len(cells))
	for i, row := range cells {
		view.Rows[i] = append([]string(nil), row...)
	}
	return view
}

// PageOptions carries the page text around the chart.
type PageOptions struct {
	Heading string
	Intro   []string
	MaxRows int
	BuildID string
	Live    bool
}

// NewPage validates the chart's figure and assembles the page model.
func NewPage(spec chart.ChartSpec, ds dataset.Dataset, opt PageOptions) (Page, error) {
	raw, err := chart.ValidateSpec(spec)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Title:       spec.Style().Title,
		Heading:     opt.Heading,
		Intro:       opt.Intro,
		DatasetName: ds.Name,
		Figure:      template.JS(raw),
		Table:       NewTableView(ds, opt.MaxRows),
		BuildID:     opt.BuildID,
		Live:        opt.Live,
	}, nil
}

// WritePage renders p as a standalone HTML document.
func WritePage(w io.Writer, p Page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
