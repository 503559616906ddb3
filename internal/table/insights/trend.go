package insights

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// TrendDirection summarizes the slope of a value series over row order.
type TrendDirection string

const (
	Increasing TrendDirection = "increasing"
	Decreasing TrendDirection = "decreasing"
	Stable     TrendDirection = "stable"
)

// TrendResult is the OLS fit of value against row index. Confidence is the
// coefficient of determination clamped to zero.
type TrendResult struct {
	Slope      float64        `json:"slope"`
	Intercept  float64        `json:"intercept"`
	Direction  TrendDirection `json:"direction"`
	Confidence float64        `json:"confidence"`
}

// Trend fits values against their index. Slope magnitudes below 0.01 are
// stable; fewer than two points are stable with zero confidence.
func Trend(numbers []float64) TrendResult {
	if len(numbers) < 2 {
		return TrendResult{Direction: Stable}
	}

	xs := make([]float64, len(numbers))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, numbers, nil, false)
	r2 := stat.RSquared(xs, numbers, nil, intercept, slope)
	if math.IsNaN(r2) || r2 < 0 {
		r2 = 0
	}

	direction := Stable
	if math.Abs(slope) >= 0.01 {
		if slope > 0 {
			direction = Increasing
		} else {
			direction = Decreasing
		}
	}

	return TrendResult{
		Slope:      schema.Round2(slope),
		Intercept:  schema.Round2(intercept),
		Direction:  direction,
		Confidence: schema.Round2(r2),
	}
}
