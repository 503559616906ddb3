// Package stats computes per-column descriptive statistics and
// dataset-level completeness and duplication metrics.
package stats
