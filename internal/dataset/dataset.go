// Package dataset holds the in-memory tabular model shared by the source
// connectors, the frame builder and the rendering hosts.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names as they appear in the WHO life expectancy export.
const (
	ColumnCountry        = "Country"
	ColumnYear           = "Year"
	ColumnExpenditure    = "Total expenditure"
	ColumnBMI            = "BMI"
	ColumnLifeExpectancy = "Life expectancy"
)

var (
	ErrMissingColumn = errors.New("dataset: missing required column")
	ErrInvalidValue  = errors.New("dataset: invalid numeric value")
)

// Row is one observation. Missing numeric cells are NaN; a missing or
// non-numeric year leaves HasYear false.
type Row struct {
	Country        string
	Year           int
	HasYear        bool
	Expenditure    float64
	BMI            float64
	LifeExpectancy float64
	HasLifeExp     bool
}

// Table is the raw header and string cells, kept for table display.
type Table struct {
	Columns []string
	Cells   [][]string
}

// Dataset is a named, ordered sequence of rows plus the raw table they came from.
type Dataset struct {
	Name  string
	Table Table
	Rows  []Row
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// FromTable maps a raw table onto Rows. Required columns are Country, Year,
// Total expenditure and BMI; Life expectancy is optional.
func FromTable(name string, tbl Table) (Dataset, error) {
	idx := indexColumns(tbl.Columns)
	required := []string{ColumnCountry, ColumnYear, ColumnExpenditure, ColumnBMI}
	for _, col := range required {
		if _, ok := idx[normalizeHeader(col)]; !ok {
			return Dataset{}, fmt.Errorf("%w %q in %s", ErrMissingColumn, col, name)
		}
	}
	countryIdx := idx[normalizeHeader(ColumnCountry)]
	yearIdx := idx[normalizeHeader(ColumnYear)]
	expIdx := idx[normalizeHeader(ColumnExpenditure)]
	bmiIdx := idx[normalizeHeader(ColumnBMI)]
	lifeIdx, hasLife := idx[normalizeHeader(ColumnLifeExpectancy)]

	rows := make([]Row, 0, len(tbl.Cells))
	for i, cells := range tbl.Cells {
		row := Row{Country: strings.TrimSpace(cell(cells, countryIdx))}
		row.Year, row.HasYear = ParseYear(cell(cells, yearIdx))

		var err error
		if row.Expenditure, err = parseMeasure(cell(cells, expIdx)); err != nil {
			return Dataset{}, fmt.Errorf("%s row %d column %q: %w", name, i, ColumnExpenditure, err)
		}
		if row.BMI, err = parseMeasure(cell(cells, bmiIdx)); err != nil {
			return Dataset{}, fmt.Errorf("%s row %d column %q: %w", name, i, ColumnBMI, err)
		}
		if hasLife {
			v, err := parseMeasure(cell(cells, lifeIdx))
			if err != nil {
				return Dataset{}, fmt.Errorf("%s row %d column %q: %w", name, i, ColumnLifeExpectancy, err)
			}
			row.LifeExpectancy = v
			row.HasLifeExp = !math.IsNaN(v)
		}
		rows = append(rows, row)
	}
	return Dataset{Name: name, Table: tbl, Rows: rows}, nil
}

// ParseYear accepts a decimal integer, or an integral float such as "2000.0"
// that spreadsheet exports produce when the column has gaps.
func ParseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(raw); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// YearLabel is the frame and slider key for a year.
func YearLabel(year int) string {
	return strconv.Itoa(year)
}

func parseMeasure(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") || strings.EqualFold(raw, "null") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, raw)
	}
	return v, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func indexColumns(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, col := range columns {
		key := normalizeHeader(col)
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// normalizeHeader folds case and inner whitespace; the WHO export pads
// headers like " BMI " and "Life expectancy ".
func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
