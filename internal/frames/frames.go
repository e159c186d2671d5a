// Package frames groups a dataset into one animation frame per distinct year.
package frames

import (
	"errors"
	"fmt"
	"sort"

	"lifeviz/internal/dataset"
	"lifeviz/internal/logger"
)

// ErrMalformedYear is returned under MalformedFail when a row has no usable year.
var ErrMalformedYear = errors.New("frames: row has no usable year")

// Order selects how distinct years are sequenced.
type Order int

const (
	OrderAscending Order = iota
	OrderFirstSeen
)

// MalformedPolicy decides what happens to rows without a usable year.
type MalformedPolicy int

const (
	MalformedFail MalformedPolicy = iota
	MalformedSkip
)

// Options tunes frame construction. The zero value sorts ascending and fails
// on malformed years.
type Options struct {
	Order     Order
	Malformed MalformedPolicy
}

// Point is one marker inside a frame.
type Point struct {
	Expenditure    float64
	BMI            float64
	Country        string
	LifeExpectancy float64
	HasLifeExp     bool
}

// Frame holds the points for a single year.
type Frame struct {
	Year   int
	Points []Point
}

// Name is the frame key used by slider steps.
func (f Frame) Name() string { return dataset.YearLabel(f.Year) }

// Years returns the distinct years of ds in the configured order.
func Years(ds dataset.Dataset, opts Options) ([]int, error) {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for i, row := range ds.Rows {
		if !row.HasYear {
			if opts.Malformed == MalformedFail {
				return nil, fmt.Errorf("%w: %s row %d (country %q)", ErrMalformedYear, ds.Name, i, row.Country)
			}
			continue
		}
		if seen[row.Year] {
			continue
		}
		seen[row.Year] = true
		years = append(years, row.Year)
	}
	if opts.Order == OrderAscending {
		sort.Ints(years)
	}
	return years, nil
}

// Build returns one Frame per distinct year. Points keep dataset row order.
// An empty dataset yields no frames and no error.
func Build(ds dataset.Dataset, opts Options) ([]Frame, error) {
	years, err := Years(ds, opts)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return []Frame{}, nil
	}
	pos := make(map[int]int, len(years))
	out := make([]Frame, len(years))
	for i, y := range years {
		pos[y] = i
		out[i] = Frame{Year: y, Points: []Point{}}
	}
	skipped := 0
	for _, row := range ds.Rows {
		if !row.HasYear {
			skipped++
			continue
		}
		i := pos[row.Year]
		out[i].Points = append(out[i].Points, Point{
			Expenditure:    row.Expenditure,
			BMI:            row.BMI,
			Country:        row.Country,
			LifeExpectancy: row.LifeExpectancy,
			HasLifeExp:     row.HasLifeExp,
		})
	}
	if skipped > 0 {
		logger.Warnf("frames: %s skipped %d rows without a usable year", ds.Name, skipped)
	}
	logger.Debugf("frames: %s built %d frames from %d rows", ds.Name, len(out), ds.Len())
	return out, nil
}
