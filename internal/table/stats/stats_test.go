package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/tabular/internal/table/schema"
)

func rowsOf(key string, values ...any) []schema.Row {
	rows := make([]schema.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, schema.NewRow(map[string]any{key: v}))
	}
	return rows
}

func TestColumnCounts(t *testing.T) {
	rows := rowsOf("v", "a", "b", "a", "", nil)
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeText})

	assert.Equal(t, 3, cs.Count)
	assert.Equal(t, 2, cs.NullCount)
	assert.Equal(t, 2, cs.UniqueCount)
	assert.LessOrEqual(t, cs.UniqueCount, cs.Count)
	assert.LessOrEqual(t, cs.Count, len(rows))
}

func TestColumnNumeric(t *testing.T) {
	rows := rowsOf("v", "2", "4", "4", "4", "5", "5", "7", "9")
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeNumber})

	require.NotNil(t, cs.Numeric)
	assert.Equal(t, 40.0, cs.Numeric.Sum)
	assert.Equal(t, 5.0, cs.Numeric.Mean)
	assert.Equal(t, 4.5, cs.Numeric.Median)
	assert.Equal(t, 4.0, cs.Numeric.Mode)
	assert.Equal(t, 2.0, cs.Numeric.Min)
	assert.Equal(t, 9.0, cs.Numeric.Max)
	// Population standard deviation, divisor n.
	assert.Equal(t, 2.0, cs.Numeric.StdDev)
	assert.Equal(t, 4.0, cs.Numeric.Variance)
}

func TestColumnMedianEven(t *testing.T) {
	rows := rowsOf("v", "1", "2", "3", "4")
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeNumber})
	require.NotNil(t, cs.Numeric)
	assert.Equal(t, 2.5, cs.Numeric.Median)
}

func TestColumnText(t *testing.T) {
	rows := rowsOf("v", "ab", "abcd", "a")
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeText})

	require.NotNil(t, cs.Text)
	assert.Equal(t, 1, cs.Text.MinLength)
	assert.Equal(t, 4, cs.Text.MaxLength)
	assert.Equal(t, 2.33, cs.Text.AvgLength)
}

func TestColumnDates(t *testing.T) {
	rows := rowsOf("v", "2024-01-01", "2024-01-11", "garbage")
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeDate})

	require.NotNil(t, cs.Dates)
	assert.Equal(t, 2024, cs.Dates.Min.Year())
	assert.Equal(t, 11, cs.Dates.Max.Day())
	assert.Equal(t, 10, cs.Dates.SpanDays)
}

func TestTopValues(t *testing.T) {
	rows := rowsOf("v", "x", "x", "y", "z", "x", "y")
	cs := Column(rows, schema.Column{Key: "v", Type: schema.TypeText})

	require.NotEmpty(t, cs.TopValues)
	assert.Equal(t, "x", cs.TopValues[0].Value)
	assert.Equal(t, 3, cs.TopValues[0].Count)
	assert.Equal(t, 50.0, cs.TopValues[0].Percent)
	assert.Equal(t, "y", cs.TopValues[1].Value)
}

func TestDataset(t *testing.T) {
	columns := []schema.Column{
		{Key: "a", Type: schema.TypeText},
		{Key: "b", Type: schema.TypeText},
	}
	rows := []schema.Row{
		schema.NewRow(map[string]any{"a": "1", "b": "x"}),
		schema.NewRow(map[string]any{"a": "1", "b": "x"}),
		schema.NewRow(map[string]any{"a": "2", "b": ""}),
	}
	ds := Dataset(rows, columns)

	assert.Equal(t, 3, ds.TotalRows)
	assert.Equal(t, 2, ds.TotalColumns)
	// 5 of 6 cells filled.
	assert.Equal(t, 83.3, ds.Completeness)
	assert.Equal(t, 1, ds.DuplicateRows)
	assert.Len(t, ds.Columns, 2)
}

func TestDatasetEmpty(t *testing.T) {
	ds := Dataset(nil, nil)
	assert.Zero(t, ds.TotalRows)
	assert.Zero(t, ds.Completeness)
	assert.Zero(t, ds.DuplicateRows)
}
