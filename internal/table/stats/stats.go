package stats

import (
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// NumericStats are reported for number-typed columns, all rounded to two
// decimals. Mode is the most frequent value, first-seen on ties.
type NumericStats struct {
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
}

// TextStats report string length characteristics for text columns.
type TextStats struct {
	AvgLength float64 `json:"avg_length"`
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
}

// DateStats report the parseable date range and its inclusive day span.
type DateStats struct {
	Min      time.Time `json:"min"`
	Max      time.Time `json:"max"`
	SpanDays int       `json:"span_days"`
}

// ValueCount is one entry in a column's top-frequency list. Percent is the
// share of the non-null total, one decimal.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ColumnStats is the full profile of one column.
type ColumnStats struct {
	Column      string        `json:"column"`
	Type        schema.Type   `json:"type"`
	Count       int           `json:"count"`
	NullCount   int           `json:"null_count"`
	UniqueCount int           `json:"unique_count"`
	Numeric     *NumericStats `json:"numeric,omitempty"`
	Text        *TextStats    `json:"text,omitempty"`
	Dates       *DateStats    `json:"dates,omitempty"`
	TopValues   []ValueCount  `json:"top_values"`
}

// DatasetStats aggregates column profiles with dataset-level metrics.
type DatasetStats struct {
	TotalRows     int           `json:"total_rows"`
	TotalColumns  int           `json:"total_columns"`
	Completeness  float64       `json:"completeness"`
	DuplicateRows int           `json:"duplicate_rows"`
	Columns       []ColumnStats `json:"columns"`
}

const topValueLimit = 10

// Column profiles one column. Count is the non-empty cells, NullCount the
// remainder, UniqueCount the distinct non-empty values; the invariant
// UniqueCount <= Count <= len(rows) always holds.
func Column(rows []schema.Row, column schema.Column) ColumnStats {
	cs := ColumnStats{Column: column.Key, Type: column.Type}

	nonEmpty := make([]any, 0, len(rows))
	for _, row := range rows {
		v := row.Get(column.Key)
		if schema.Empty(v) {
			continue
		}
		nonEmpty = append(nonEmpty, v)
	}
	cs.Count = len(nonEmpty)
	cs.NullCount = len(rows) - cs.Count

	distinct := make(map[string]struct{}, len(nonEmpty))
	for _, v := range nonEmpty {
		distinct[schema.Text(v)] = struct{}{}
	}
	cs.UniqueCount = len(distinct)

	switch column.Type {
	case schema.TypeNumber:
		cs.Numeric = numericStats(nonEmpty)
	case schema.TypeText:
		cs.Text = textStats(nonEmpty)
	case schema.TypeDate:
		cs.Dates = dateStats(nonEmpty)
	}

	cs.TopValues = topValues(nonEmpty)
	return cs
}

// Dataset profiles every column and derives completeness (filled cells over
// total cells, one decimal) and the duplicate-row count.
func Dataset(rows []schema.Row, columns []schema.Column) DatasetStats {
	ds := DatasetStats{
		TotalRows:    len(rows),
		TotalColumns: len(columns),
	}

	filled := 0
	for _, row := range rows {
		for _, col := range columns {
			if !schema.Empty(row.Get(col.Key)) {
				filled++
			}
		}
	}
	total := len(rows) * len(columns)
	if total > 0 {
		ds.Completeness = schema.Round1(float64(filled) / float64(total) * 100)
	}

	ds.DuplicateRows = duplicateCount(rows, columns)

	ds.Columns = make([]ColumnStats, 0, len(columns))
	for _, col := range columns {
		ds.Columns = append(ds.Columns, Column(rows, col))
	}
	return ds
}

func numericStats(values []any) *NumericStats {
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := schema.Number(v); ok {
			numbers = append(numbers, n)
		}
	}
	if len(numbers) == 0 {
		return &NumericStats{}
	}

	ns := &NumericStats{
		Sum:  sum(numbers),
		Mean: stat.Mean(numbers, nil),
		Min:  numbers[0],
		Max:  numbers[0],
	}
	for _, n := range numbers[1:] {
		if n < ns.Min {
			ns.Min = n
		}
		if n > ns.Max {
			ns.Max = n
		}
	}
	ns.Median = median(numbers)
	ns.Mode = mode(numbers)
	ns.Variance = stat.PopVariance(numbers, nil)
	ns.StdDev = stat.PopStdDev(numbers, nil)

	ns.Sum = schema.Round2(ns.Sum)
	ns.Mean = schema.Round2(ns.Mean)
	ns.Median = schema.Round2(ns.Median)
	ns.Mode = schema.Round2(ns.Mode)
	ns.Min = schema.Round2(ns.Min)
	ns.Max = schema.Round2(ns.Max)
	ns.StdDev = schema.Round2(ns.StdDev)
	ns.Variance = schema.Round2(ns.Variance)
	return ns
}

func textStats(values []any) *TextStats {
	if len(values) == 0 {
		return &TextStats{}
	}
	first := len(schema.Text(values[0]))
	ts := &TextStats{MinLength: first, MaxLength: first}
	total := 0
	for _, v := range values {
		l := len(schema.Text(v))
		total += l
		if l < ts.MinLength {
			ts.MinLength = l
		}
		if l > ts.MaxLength {
			ts.MaxLength = l
		}
	}
	ts.AvgLength = schema.Round2(float64(total) / float64(len(values)))
	return ts
}

func dateStats(values []any) *DateStats {
	var ds *DateStats
	for _, v := range values {
		d, ok := schema.ParseDate(v)
		if !ok {
			continue
		}
		if ds == nil {
			ds = &DateStats{Min: d, Max: d}
			continue
		}
		if d.Before(ds.Min) {
			ds.Min = d
		}
		if d.After(ds.Max) {
			ds.Max = d
		}
	}
	if ds == nil {
		return &DateStats{}
	}
	ds.SpanDays = schema.DaySpan(ds.Min, ds.Max)
	return ds
}

// topValues lists the ten most frequent values with their share of the
// non-null total. Ties keep first-seen order.
func topValues(values []any) []ValueCount {
	if len(values) == 0 {
		return nil
	}
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, v := range values {
		key := schema.Text(v)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]ValueCount, 0, len(order))
	for _, key := range order {
		out = append(out, ValueCount{
			Value:   key,
			Count:   counts[key],
			Percent: schema.Round1(float64(counts[key]) / float64(len(values)) * 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topValueLimit {
		out = out[:topValueLimit]
	}
	return out
}

// duplicateCount counts rows beyond the first occurrence of each full
// (ordered column values) string representation.
func duplicateCount(rows []schema.Row, columns []schema.Column) int {
	seen := make(map[string]struct{}, len(rows))
	duplicates := 0
	for _, row := range rows {
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, schema.Text(row.Get(col.Key)))
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
		} else {
			seen[key] = struct{}{}
		}
	}
	return duplicates
}

func sum(numbers []float64) float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return total
}

func median(numbers []float64) float64 {
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mode returns the most frequent value, first-seen on ties.
func mode(numbers []float64) float64 {
	counts := make(map[float64]int, len(numbers))
	best, bestCount := numbers[0], 0
	for _, n := range numbers {
		counts[n]++
	}
	for _, n := range numbers {
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	return best
}
