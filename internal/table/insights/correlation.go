package insights

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gridforge/tabular/internal/table/schema"
)

// Strength buckets a correlation by absolute value.
type Strength string

const (
	VeryWeak   Strength = "very_weak"
	Weak       Strength = "weak"
	Moderate   Strength = "moderate"
	Strong     Strength = "strong"
	VeryStrong Strength = "very_strong"
)

// Direction is the sign of a correlation.
type Direction string

const (
	Positive Direction = "positive"
	Negative Direction = "negative"
	None     Direction = "none"
)

// Correlation is one column pair's result. Significance is an approximate
// two-tailed p-value derived from the t statistic; it is a ranking aid,
// not a rigorous test.
type Correlation struct {
	ColumnX      string    `json:"column_x"`
	ColumnY      string    `json:"column_y"`
	R            float64   `json:"r"`
	N            int       `json:"n"`
	Strength     Strength  `json:"strength"`
	Direction    Direction `json:"direction"`
	Significance float64   `json:"significance"`
}

// Pearson computes the correlation coefficient with the standard
// sum-of-products formula. Fewer than two paired points or a zero
// denominator yield 0, never NaN.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumXX - sumX*sumX) * (fn*sumYY - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Spearman is Pearson over rank-transformed values. Ranks are assigned by
// ascending sort position; tied values keep distinct consecutive ranks in
// their original order rather than sharing an averaged rank.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	return Pearson(ranks(x), ranks(y))
}

func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	out := make([]float64, len(values))
	for rank, i := range idx {
		out[i] = float64(rank + 1)
	}
	return out
}

// StrengthOf buckets by |r|.
func StrengthOf(r float64) Strength {
	switch abs := math.Abs(r); {
	case abs < 0.1:
		return VeryWeak
	case abs < 0.3:
		return Weak
	case abs < 0.5:
		return Moderate
	case abs < 0.7:
		return Strong
	default:
		return VeryStrong
	}
}

// DirectionOf is sign-based.
func DirectionOf(r float64) Direction {
	switch {
	case r > 0:
		return Positive
	case r < 0:
		return Negative
	default:
		return None
	}
}

// Matrix computes every pairwise correlation across the numeric columns,
// sorted descending by absolute strength. Each pair uses only the rows
// where both cells coerce to numbers.
func Matrix(rows []schema.Row, columns []schema.Column) []Correlation {
	numeric := make([]schema.Column, 0, len(columns))
	for _, col := range columns {
		if col.Type == schema.TypeNumber {
			numeric = append(numeric, col)
		}
	}

	out := make([]Correlation, 0, len(numeric)*(len(numeric)-1)/2)
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x, y := PairedValues(rows, numeric[i].Key, numeric[j].Key)
			r := Pearson(x, y)
			out = append(out, Correlation{
				ColumnX:      numeric[i].Key,
				ColumnY:      numeric[j].Key,
				R:            schema.Round2(r),
				N:            len(x),
				Strength:     StrengthOf(r),
				Direction:    DirectionOf(r),
				Significance: significance(r, len(x)),
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(out[a].R) > math.Abs(out[b].R)
	})
	return out
}

// PairedValues collects the rows where both cells coerce to numbers.
func PairedValues(rows []schema.Row, keyX, keyY string) ([]float64, []float64) {
	x := make([]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for _, row := range rows {
		vx, okX := schema.Number(row.Get(keyX))
		vy, okY := schema.Number(row.Get(keyY))
		if okX && okY {
			x = append(x, vx)
			y = append(y, vy)
		}
	}
	return x, y
}

// significance maps r through the t statistic t = r·sqrt((n−2)/(1−r²))
// and a Student's t CDF with n−2 degrees of freedom into an approximate
// two-tailed p-value.
func significance(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	rr := r * r
	if rr >= 1 {
		return 0
	}
	t := math.Abs(r) * math.Sqrt(float64(n-2)/(1-rr))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p := 2 * (1 - dist.CDF(t))
	if p < 0 {
		p = 0
	}
	return schema.Round2(p)
}
