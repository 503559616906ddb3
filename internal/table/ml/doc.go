// Package ml fits teaching-scale models over tabular rows: simple and
// multiple linear regression via the normal equations, and a Laplace-
// smoothed Naive Bayes classifier for categorical targets. Models are
// returned to the caller; nothing is retained between calls.
package ml
