package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lifeviz/internal/dataset"
)

type csvBackend struct {
	path string
}

func newCSVBackend(path string) *csvBackend {
	return &csvBackend{path: path}
}

// Fetch reads the whole file. A malformed line aborts the read.
func (b *csvBackend) Fetch(ctx context.Context) (dataset.Table, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return dataset.Table{}, err
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func (b *csvBackend) Close() error { return nil }

func readCSV(ctx context.Context, r io.Reader) (dataset.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return dataset.Table{}, fmt.Errorf("csv: missing header row")
	}
	if err != nil {
		return dataset.Table{}, fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	tbl := dataset.Table{Columns: header, Cells: [][]string{}}
	for {
		if err := ctx.Err(); err != nil {
			return dataset.Table{}, err
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dataset.Table{}, fmt.Errorf("csv: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		tbl.Cells = append(tbl.Cells, rec)
	}
	return tbl, nil
}
