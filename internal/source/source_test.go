package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lifeviz/internal/config"
	"lifeviz/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Country,Year,Status,Life expectancy , BMI ,Total expenditure\n" +
	"A,2000,Developing,60.5,20,5\n" +
	"B,2000,Developed,70,22,6\n" +
	"A,2001,Developing,,21,5.5\n"

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeSQLite(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "who.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer closeDB(db)
	require.NoError(t, db.Exec(`CREATE TABLE life (
		"Country" TEXT, "Year" INTEGER, "Status" TEXT,
		"Life expectancy" REAL, "BMI" REAL, "Total expenditure" REAL)`).Error)
	inserts := []struct {
		country string
		year    int
		status  string
		life    any
		bmi     float64
		exp     float64
	}{
		{"A", 2000, "Developing", 60.5, 20, 5},
		{"B", 2000, "Developed", 70.0, 22, 6},
		{"A", 2001, "Developing", nil, 21, 5.5},
	}
	for _, r := range inserts {
		require.NoError(t, db.Exec(`INSERT INTO life VALUES (?, ?, ?, ?, ?, ?)`,
			r.country, r.year, r.status, r.life, r.bmi, r.exp).Error)
	}
	return path
}

func TestConnectAndFetchCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "life.csv", sampleCSV)
	h, err := Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "life", Kind: config.SourceCSV, Path: path}},
	})
	require.NoError(t, err)
	defer h.Close()

	ds, err := h.Dataset(context.Background(), "LIFE")
	require.NoError(t, err)
	assert.Equal(t, "life", ds.Name)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 2001, ds.Rows[2].Year)
	assert.False(t, ds.Rows[2].HasLifeExp)
	assert.Len(t, ds.Table.Columns, 6)
	assert.Equal(t, "Developed", ds.Table.Cells[1][2])
}

func TestCSVAndSQLiteAgree(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir, "life.csv", sampleCSV)
	dbPath := writeSQLite(t, dir)

	h, err := Connect(context.Background(), config.DataConfig{Sources: []config.SourceConfig{
		{Name: "csv", Kind: config.SourceCSV, Path: csvPath},
		{Name: "db", Kind: config.SourceSQLite, Path: dbPath, Table: "life"},
	}})
	require.NoError(t, err)
	defer h.Close()

	fromCSV, err := h.Dataset(context.Background(), "csv")
	require.NoError(t, err)
	fromDB, err := h.Dataset(context.Background(), "db")
	require.NoError(t, err)

	require.Equal(t, fromCSV.Len(), fromDB.Len())
	for i := range fromCSV.Rows {
		a, b := fromCSV.Rows[i], fromDB.Rows[i]
		assert.Equal(t, a.Country, b.Country)
		assert.Equal(t, a.Year, b.Year)
		assert.InDelta(t, a.Expenditure, b.Expenditure, 1e-9)
		assert.InDelta(t, a.BMI, b.BMI, 1e-9)
		assert.Equal(t, a.HasLifeExp, b.HasLifeExp)
	}
	assert.Equal(t, []string{"csv", "db"}, h.Names())
}

func TestSQLiteMissingTable(t *testing.T) {
	dir := t.TempDir()
	dbPath := writeSQLite(t, dir)
	h, err := Connect(context.Background(), config.DataConfig{Sources: []config.SourceConfig{
		{Name: "db", Kind: config.SourceSQLite, Path: dbPath, Table: "nope"},
	}})
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Dataset(context.Background(), "db")
	assert.Error(t, err)
}

func TestMissingColumnSurfacesFromSource(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bad.csv", "Country,BMI,Total expenditure\nA,20,5\n")
	h, err := Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "bad", Kind: config.SourceCSV, Path: path}},
	})
	require.NoError(t, err)

	_, err = h.Dataset(context.Background(), "bad")
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestUnknownDatasetAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "life.csv", sampleCSV)
	h, err := Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "life", Kind: config.SourceCSV, Path: path}},
	})
	require.NoError(t, err)
	_, err = h.Dataset(context.Background(), "other")
	assert.ErrorIs(t, err, ErrUnknownDataset)

	_, err = Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "gone", Kind: config.SourceCSV, Path: filepath.Join(dir, "gone.csv")}},
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCatalogOverridesInline(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "catalog.csv", sampleCSV)
	inline := writeCSV(t, dir, "inline.csv", "Country,Year,Total expenditure,BMI\nZ,1999,1,1\n")
	catalog := writeCSV(t, dir, "sources.yaml", "sources:\n  - name: life\n    kind: csv\n    path: catalog.csv\n")

	h, err := Connect(context.Background(), config.DataConfig{
		CatalogPath: catalog,
		Sources:     []config.SourceConfig{{Name: "life", Kind: config.SourceCSV, Path: inline}},
	})
	require.NoError(t, err)
	ds, err := h.Dataset(context.Background(), "life")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestCatalogRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	catalog := writeCSV(t, dir, "sources.yaml", "sources:\n  - name: life\n    pth: x.csv\n")
	_, err := Connect(context.Background(), config.DataConfig{CatalogPath: catalog})
	assert.Error(t, err)
}

func TestEmptyCSVHasNoRows(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "empty.csv", "Country,Year,Total expenditure,BMI\n")
	h, err := Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "empty", Kind: config.SourceCSV, Path: path}},
	})
	require.NoError(t, err)
	ds, err := h.Dataset(context.Background(), "empty")
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
}

func TestWatchFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "life.csv", sampleCSV)
	h, err := Connect(context.Background(), config.DataConfig{
		Sources: []config.SourceConfig{{Name: "life", Kind: config.SourceCSV, Path: path}},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fired := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- h.Watch(ctx, "life", 20*time.Millisecond, func() { fired <- struct{}{} })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(sampleCSV), 0o644)
		select {
		case <-fired:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
