package cleaning

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// FillStrategy selects how missing cells are imputed.
type FillStrategy string

const (
	FillMean        FillStrategy = "mean"
	FillMedian      FillStrategy = "median"
	FillMode        FillStrategy = "mode"
	FillCustom      FillStrategy = "custom"
	FillInterpolate FillStrategy = "interpolate"
)

// Result is the outcome of one cleaning pass: the new row set, how many
// rows changed, and any per-cell issues encountered along the way.
type Result struct {
	Rows     []schema.Row `json:"rows"`
	Modified int          `json:"modified"`
	Issues   []string     `json:"issues,omitempty"`
}

// IsMissing treats empty cells and the literal tokens null/n/a/na
// (case-insensitive) as absent.
func IsMissing(v any) bool {
	if schema.Empty(v) {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(schema.Text(v))) {
	case "null", "n/a", "na":
		return true
	}
	return false
}

// FillMissing imputes one column's missing cells using the strategy.
// Mean and median are computed over the non-missing numeric-coercible
// values; mode over raw values by frequency with first-seen tie-break.
// Interpolation fills gaps that have a valid numeric neighbor on both
// sides and leaves one-sided gaps untouched.
func FillMissing(rows []schema.Row, column string, strategy FillStrategy, custom any) Result {
	if strategy == FillInterpolate {
		return interpolate(rows, column)
	}

	fill, ok := fillValue(rows, column, strategy, custom)
	if !ok {
		return Result{
			Rows:   copyRows(rows),
			Issues: []string{fmt.Sprintf("column %s: no usable values to derive a %s fill", column, strategy)},
		}
	}

	out := make([]schema.Row, 0, len(rows))
	modified := 0
	for _, row := range rows {
		if IsMissing(row.Get(column)) {
			clone := row.Clone()
			clone.Fields[column] = fill
			out = append(out, clone)
			modified++
			continue
		}
		out = append(out, row)
	}
	return Result{Rows: out, Modified: modified}
}

func fillValue(rows []schema.Row, column string, strategy FillStrategy, custom any) (any, bool) {
	switch strategy {
	case FillCustom:
		return custom, custom != nil
	case FillMode:
		return modeValue(rows, column)
	}

	numbers := presentNumbers(rows, column)
	if len(numbers) == 0 {
		return nil, false
	}
	switch strategy {
	case FillMean:
		return schema.Round2(stat.Mean(numbers, nil)), true
	case FillMedian:
		sorted := make([]float64, len(numbers))
		copy(sorted, numbers)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return schema.Round2((sorted[mid-1] + sorted[mid]) / 2), true
		}
		return sorted[mid], true
	}
	return nil, false
}

// modeValue picks the most frequent non-missing raw value, keeping the
// first-seen value on frequency ties.
func modeValue(rows []schema.Row, column string) (any, bool) {
	counts := make(map[string]int)
	firstRaw := make(map[string]any)
	order := make([]string, 0)
	for _, row := range rows {
		v := row.Get(column)
		if IsMissing(v) {
			continue
		}
		key := schema.Text(v)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			firstRaw[key] = v
		}
		counts[key]++
	}
	if len(order) == 0 {
		return nil, false
	}

	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return firstRaw[best], true
}

// interpolate fills numeric gaps linearly between the nearest valid
// neighbors in row order.
func interpolate(rows []schema.Row, column string) Result {
	type point struct {
		index int
		value float64
	}
	points := make([]point, 0, len(rows))
	for i, row := range rows {
		if n, ok := schema.Number(row.Get(column)); ok && !IsMissing(row.Get(column)) {
			points = append(points, point{i, n})
		}
	}

	out := copyRows(rows)
	if len(points) < 2 {
		return Result{
			Rows:   out,
			Issues: []string{fmt.Sprintf("column %s: not enough numeric anchors to interpolate", column)},
		}
	}

	modified := 0
	next := 0
	for i := range out {
		if !IsMissing(out[i].Get(column)) {
			continue
		}
		for next < len(points) && points[next].index < i {
			next++
		}
		// A gap needs a neighbor on both sides.
		if next == 0 || next == len(points) {
			continue
		}
		prev, succ := points[next-1], points[next]
		ratio := float64(i-prev.index) / float64(succ.index-prev.index)
		clone := out[i].Clone()
		clone.Fields[column] = schema.Round2(prev.value + ratio*(succ.value-prev.value))
		out[i] = clone
		modified++
	}
	return Result{Rows: out, Modified: modified}
}

func presentNumbers(rows []schema.Row, column string) []float64 {
	numbers := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := row.Get(column)
		if IsMissing(v) {
			continue
		}
		if n, ok := schema.Number(v); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func copyRows(rows []schema.Row) []schema.Row {
	out := make([]schema.Row, len(rows))
	copy(out, rows)
	return out
}
