// Package schema defines the tabular data model shared by every engine:
// columns, rows, datasets and multi-sheet books, plus the coercion rules
// that turn loosely-typed cell values into numbers, dates and booleans.
//
// All coercion lives here so the filter, aggregation, statistics, cleaning,
// validation and ML engines agree on what a cell "is". Engines never reach
// into cell values directly; they go through Number, Text, ParseDate, Bool
// and Empty.
package schema
