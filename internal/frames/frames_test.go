package frames

import (
	"testing"

	"lifeviz/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(country string, year int, exp, bmi float64) dataset.Row {
	return dataset.Row{Country: country, Year: year, HasYear: true, Expenditure: exp, BMI: bmi}
}

func scenario() dataset.Dataset {
	return dataset.Dataset{Name: "test", Rows: []dataset.Row{
		row("A", 2000, 5.0, 20.0),
		row("B", 2000, 6.0, 22.0),
		row("A", 2001, 5.5, 21.0),
	}}
}

func TestBuildScenario(t *testing.T) {
	got, err := Build(scenario(), Options{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2000, got[0].Year)
	assert.Equal(t, "2000", got[0].Name())
	require.Len(t, got[0].Points, 2)
	assert.Equal(t, "A", got[0].Points[0].Country)
	assert.Equal(t, "B", got[0].Points[1].Country)
	assert.Equal(t, 2001, got[1].Year)
	require.Len(t, got[1].Points, 1)
	assert.InDelta(t, 5.5, got[1].Points[0].Expenditure, 1e-9)
	assert.InDelta(t, 21.0, got[1].Points[0].BMI, 1e-9)
}

func TestBuildEmpty(t *testing.T) {
	got, err := Build(dataset.Dataset{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildSingleRow(t *testing.T) {
	got, err := Build(dataset.Dataset{Rows: []dataset.Row{row("A", 1999, 1, 2)}}, Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Points, 1)
}

func TestYearOrder(t *testing.T) {
	ds := dataset.Dataset{Rows: []dataset.Row{
		row("A", 2015, 1, 1),
		row("A", 2003, 1, 1),
		row("B", 2015, 1, 1),
		row("B", 2009, 1, 1),
	}}

	asc, err := Years(ds, Options{Order: OrderAscending})
	require.NoError(t, err)
	assert.Equal(t, []int{2003, 2009, 2015}, asc)

	seen, err := Years(ds, Options{Order: OrderFirstSeen})
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2003, 2009}, seen)

	built, err := Build(ds, Options{Order: OrderFirstSeen})
	require.NoError(t, err)
	names := make([]string, len(built))
	for i, f := range built {
		names[i] = f.Name()
	}
	assert.Equal(t, []string{"2015", "2003", "2009"}, names)
	assert.Len(t, built[0].Points, 2)
}

func TestPointCountsMatchRowCounts(t *testing.T) {
	ds := dataset.Dataset{}
	want := map[int]int{}
	for i := 0; i < 40; i++ {
		y := 2000 + i%7
		ds.Rows = append(ds.Rows, row("C", y, float64(i), float64(i)))
		want[y]++
	}
	got, err := Build(ds, Options{})
	require.NoError(t, err)
	require.Len(t, got, len(want))
	total := 0
	for _, f := range got {
		assert.Equal(t, want[f.Year], len(f.Points), "year %d", f.Year)
		total += len(f.Points)
	}
	assert.Equal(t, ds.Len(), total)
}

func TestMalformedYearPolicy(t *testing.T) {
	ds := scenario()
	ds.Rows = append(ds.Rows, dataset.Row{Country: "Z", Expenditure: 1, BMI: 1})

	_, err := Build(ds, Options{Malformed: MalformedFail})
	require.ErrorIs(t, err, ErrMalformedYear)
	assert.Contains(t, err.Error(), "row 3")

	got, err := Build(ds, Options{Malformed: MalformedSkip})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Points, 2)
	assert.Len(t, got[1].Points, 1)
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(scenario(), Options{})
	require.NoError(t, err)
	b, err := Build(scenario(), Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
