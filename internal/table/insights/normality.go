package insights

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// NormalityResult classifies a sample as approximately normal when both
// skewness and excess kurtosis magnitudes are below 1. This is a moment
// heuristic, not a Shapiro-Wilk test.
type NormalityResult struct {
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	Normal   bool    `json:"normal"`
	N        int     `json:"n"`
}

// Normality computes population-moment skewness and excess kurtosis.
// Fewer than three values or zero spread cannot be classified and report
// not-normal with zeroed moments.
func Normality(numbers []float64) NormalityResult {
	result := NormalityResult{N: len(numbers)}
	if len(numbers) < 3 {
		return result
	}

	mean := stat.Mean(numbers, nil)
	stdev := stat.PopStdDev(numbers, nil)
	if stdev == 0 {
		return result
	}

	var m3, m4 float64
	for _, n := range numbers {
		z := (n - mean) / stdev
		m3 += z * z * z
		m4 += z * z * z * z
	}
	fn := float64(len(numbers))
	result.Skewness = schema.Round2(m3 / fn)
	result.Kurtosis = schema.Round2(m4/fn - 3)
	result.Normal = math.Abs(result.Skewness) < 1 && math.Abs(result.Kurtosis) < 1
	return result
}
