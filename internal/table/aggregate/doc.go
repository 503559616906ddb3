// Package aggregate implements group-by aggregation and 2D pivot tables
// over in-memory rows.
package aggregate
