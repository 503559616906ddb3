package cleaning

import (
	"fmt"
	"math"

	"github.com/gridforge/tabular/internal/table/insights"
	"github.com/gridforge/tabular/internal/table/schema"
)

// OutlierAction selects the remediation applied to a column's outliers.
type OutlierAction string

const (
	OutlierRemove    OutlierAction = "remove"
	OutlierCap       OutlierAction = "cap"
	OutlierTransform OutlierAction = "transform"
)

// RemediateOutliers repairs a numeric column using its 1.5·IQR fences:
// remove drops the offending rows, cap clips values to the violated fence,
// and transform applies a natural log to every positive value in the
// column (non-positive values pass through unchanged).
func RemediateOutliers(rows []schema.Row, column string, action OutlierAction) Result {
	if action == OutlierTransform {
		return logTransform(rows, column)
	}

	numbers := make([]float64, 0, len(rows))
	for _, row := range rows {
		if n, ok := schema.Number(row.Get(column)); ok {
			numbers = append(numbers, n)
		}
	}
	if len(numbers) < 4 {
		return Result{
			Rows:   copyRows(rows),
			Issues: []string{fmt.Sprintf("column %s: need at least 4 numeric values for fences", column)},
		}
	}
	lower, upper := insights.IQRFences(numbers)

	out := make([]schema.Row, 0, len(rows))
	modified := 0
	for _, row := range rows {
		n, ok := schema.Number(row.Get(column))
		if !ok || (n >= lower && n <= upper) {
			out = append(out, row)
			continue
		}
		if action == OutlierRemove {
			modified++
			continue
		}
		clone := row.Clone()
		if n < lower {
			clone.Fields[column] = schema.Round2(lower)
		} else {
			clone.Fields[column] = schema.Round2(upper)
		}
		out = append(out, clone)
		modified++
	}
	return Result{Rows: out, Modified: modified}
}

func logTransform(rows []schema.Row, column string) Result {
	out := make([]schema.Row, 0, len(rows))
	modified := 0
	for _, row := range rows {
		n, ok := schema.Number(row.Get(column))
		if !ok || n <= 0 {
			out = append(out, row)
			continue
		}
		clone := row.Clone()
		clone.Fields[column] = schema.Round2(math.Log(n))
		out = append(out, clone)
		modified++
	}
	return Result{Rows: out, Modified: modified}
}
