// Package filter evaluates global search, structured filter groups and
// sorting against an in-memory row set. Every call is a pure function of
// its inputs and returns a new slice; input rows are never reordered or
// mutated.
package filter
