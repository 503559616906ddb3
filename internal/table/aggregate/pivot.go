package aggregate

import (
	"github.com/gridforge/tabular/internal/table/schema"
)

// PivotRequest cross-tabulates one aggregation function over two axes.
// Only the plain numeric functions apply to pivot cells.
type PivotRequest struct {
	RowColumn   string `json:"row_column"`
	ColColumn   string `json:"col_column"`
	ValueColumn string `json:"value_column"`
	Func        Func   `json:"func"`
}

// PivotResult holds the cross-tabulation. RowKeys and ColKeys list every
// observed axis value in first-observed order; Records carries one map per
// row-axis value with the row label under the row column's key and one
// entry per column-axis value. Cells with no matching source rows are 0.
type PivotResult struct {
	RowKeys []string         `json:"row_keys"`
	ColKeys []string         `json:"col_keys"`
	Records []map[string]any `json:"records"`
}

// SupportedPivotFunc reports whether f applies to pivot cells.
// Median, std, and distinct are group-by only.
func SupportedPivotFunc(f Func) bool {
	switch f {
	case FuncSum, FuncAvg, FuncCount, FuncMin, FuncMax:
		return true
	}
	return false
}

// Pivot builds a complete 2D table: every observed (row, col) pair appears
// exactly once, absent combinations as 0, present ones as the aggregation
// of the matching subset's value column rounded to two decimals.
func Pivot(rows []schema.Row, req PivotRequest) PivotResult {
	rowKeys := make([]string, 0)
	colKeys := make([]string, 0)
	cells := make(map[string]map[string][]float64)
	seenCol := make(map[string]struct{})

	for _, row := range rows {
		rk := groupKey(row.Get(req.RowColumn))
		ck := groupKey(row.Get(req.ColColumn))

		if _, ok := cells[rk]; !ok {
			rowKeys = append(rowKeys, rk)
			cells[rk] = make(map[string][]float64)
		}
		if _, ok := seenCol[ck]; !ok {
			seenCol[ck] = struct{}{}
			colKeys = append(colKeys, ck)
		}
		if n, ok := schema.Number(row.Get(req.ValueColumn)); ok {
			cells[rk][ck] = append(cells[rk][ck], n)
		}
	}

	records := make([]map[string]any, 0, len(rowKeys))
	for _, rk := range rowKeys {
		record := make(map[string]any, len(colKeys)+1)
		record[req.RowColumn] = rk
		for _, ck := range colKeys {
			// Absent combinations compute over the empty set, which is 0.
			record[ck] = schema.Round2(compute(req.Func, cells[rk][ck]))
		}
		records = append(records, record)
	}

	return PivotResult{RowKeys: rowKeys, ColKeys: colKeys, Records: records}
}
