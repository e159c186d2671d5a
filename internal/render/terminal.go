package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"lifeviz/internal/chart"
	"lifeviz/internal/dataset"
	"lifeviz/internal/pkg/text"
)

const maxCellWidth = 28

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Terminal is a Host that prints a frame summary and the raw table.
type Terminal struct {
	w       io.Writer
	maxRows int
}

// NewTerminal writes to w and shows at most maxRows table rows.
func NewTerminal(w io.Writer, maxRows int) *Terminal {
	return &Terminal{w: w, maxRows: maxRows}
}

// Chart prints the title and the marker count of each frame.
func (t *Terminal) Chart(_ context.Context, spec chart.ChartSpec) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.Style().Title))
	b.WriteByte('\n')
	frames := spec.Frames()
	if len(frames) == 0 {
		b.WriteString(mutedStyle.Render("no frames"))
		b.WriteByte('\n')
	}
	for _, f := range frames {
		fmt.Fprintf(&b, "  %s %s\n", f.Name, mutedStyle.Render(fmt.Sprintf("%d points", f.Layer.Len())))
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Table prints the dataset as a bordered table.
func (t *Terminal) Table(_ context.Context, ds dataset.Dataset) error {
	_, err := io.WriteString(t.w, TableString(NewTableView(ds, t.maxRows))+"\n")
	return err
}

// TableString renders v with lipgloss. Long cells are shortened and a
// truncated view gets a footer line.
func TableString(v TableView) string {
	headers := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		headers[i] = text.Truncate(strings.TrimSpace(c), maxCellWidth)
	}
	rows := make([][]string, len(v.Rows))
	for i, row := range v.Rows {
		rows[i] = make([]string, len(row))
		for j, c := range row {
			rows[i][j] = text.Truncate(c, maxCellWidth)
		}
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	out := tbl.String()
	if v.Truncated {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("%d of %d rows", len(v.Rows), v.Total))
	}
	return out
}
