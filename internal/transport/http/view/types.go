package viewhttp

import (
	"time"

	"lifeviz/internal/chart"
	"lifeviz/internal/dataset"
)

// Build is one complete fetch → frames → assemble result.
type Build struct {
	ID      string
	At      time.Time
	Dataset dataset.Dataset
	Spec    chart.ChartSpec
	Figure  []byte
}

// Builds hands out the most recent successful Build.
type Builds interface {
	Current() (Build, bool)
}

type buildInfo struct {
	ID      string    `json:"id"`
	BuiltAt time.Time `json:"built_at"`
	Dataset string    `json:"dataset"`
	Rows    int       `json:"rows"`
	Frames  int       `json:"frames"`
	Years   []string  `json:"years"`
}

type tableResponse struct {
	Dataset   string     `json:"dataset"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Total     int        `json:"total"`
	Truncated bool       `json:"truncated"`
}
