// Package validate runs rule-based row and column validation and derives
// a quality report with per-column and dataset scores.
//
// The two score formulas intentionally weight warnings differently:
// dataset-level uses 30, column-level 50. The column score is the
// presented per-column quality metric while the dataset score feeds the
// overall figure; keep them distinct.
package validate
