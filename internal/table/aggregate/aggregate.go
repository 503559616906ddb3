package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// Func is an aggregation function applied within a group.
type Func string

const (
	FuncSum      Func = "sum"
	FuncAvg      Func = "avg"
	FuncCount    Func = "count"
	FuncMin      Func = "min"
	FuncMax      Func = "max"
	FuncMedian   Func = "median"
	FuncStd      Func = "std"
	FuncDistinct Func = "distinct"
)

// NoValueGroup is the sentinel group for rows whose group-by cell is empty.
const NoValueGroup = "no value"

// Rule is a stateless aggregation recipe, not tied to any dataset.
type Rule struct {
	GroupBy string `json:"group_by"`
	Target  string `json:"target"`
	Func    Func   `json:"func"`
}

// GroupResult is one group's aggregate. Count is the group's row count,
// which for FuncCount differs from Value (valid numeric entries only).
type GroupResult struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Result is the full aggregation output, groups sorted descending by value.
type Result struct {
	Results     []GroupResult `json:"results"`
	TotalGroups int           `json:"total_groups"`
	TotalRows   int           `json:"total_rows"`
}

// Aggregate groups rows by the string form of the group-by column and
// applies the rule's function to the target column within each group.
// Non-numeric and empty target cells are dropped before computing; all
// values are rounded to two decimals.
func Aggregate(rows []schema.Row, rule Rule) Result {
	order := make([]string, 0)
	groups := make(map[string][]schema.Row)
	for _, row := range rows {
		key := groupKey(row.Get(rule.GroupBy))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	results := make([]GroupResult, 0, len(order))
	for _, key := range order {
		members := groups[key]
		results = append(results, GroupResult{
			Group: key,
			Value: schema.Round2(apply(rule.Func, members, rule.Target)),
			Count: len(members),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Value > results[j].Value
	})

	return Result{
		Results:     results,
		TotalGroups: len(results),
		TotalRows:   len(rows),
	}
}

func groupKey(v any) string {
	if schema.Empty(v) {
		return NoValueGroup
	}
	return schema.Text(v)
}

func apply(fn Func, rows []schema.Row, target string) float64 {
	if fn == FuncDistinct {
		seen := make(map[string]struct{})
		for _, row := range rows {
			if v := row.Get(target); !schema.Empty(v) {
				seen[schema.Text(v)] = struct{}{}
			}
		}
		return float64(len(seen))
	}

	numbers := extract(rows, target)
	return compute(fn, numbers)
}

// compute evaluates a numeric function over already-extracted values.
// Every function returns a defined value on empty input, never NaN.
func compute(fn Func, numbers []float64) float64 {
	if len(numbers) == 0 {
		return 0
	}
	switch fn {
	case FuncSum:
		return sum(numbers)
	case FuncAvg:
		return stat.Mean(numbers, nil)
	case FuncCount:
		return float64(len(numbers))
	case FuncMin:
		min := numbers[0]
		for _, n := range numbers[1:] {
			if n < min {
				min = n
			}
		}
		return min
	case FuncMax:
		max := numbers[0]
		for _, n := range numbers[1:] {
			if n > max {
				max = n
			}
		}
		return max
	case FuncMedian:
		return median(numbers)
	case FuncStd:
		return stat.PopStdDev(numbers, nil)
	}
	return 0
}

// extract coerces a column's cells to numbers, dropping everything that
// fails the coercion.
func extract(rows []schema.Row, key string) []float64 {
	numbers := make([]float64, 0, len(rows))
	for _, row := range rows {
		if n, ok := schema.Number(row.Get(key)); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func sum(numbers []float64) float64 {
	total := 0.0
	for _, n := range numbers {
		total += n
	}
	return total
}

// median uses the standard even/odd midpoint rule.
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
