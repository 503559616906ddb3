// Package insights implements the second-order analyses: pairwise
// correlation, outlier detection, a normality heuristic and linear trend.
//
// The significance values and the normality classification are heuristic
// approximations meant for exploratory ranking, not calibrated statistics.
package insights
