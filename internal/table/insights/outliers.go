package insights

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// DefaultZThreshold flags values more than 2.5 population standard
// deviations from the mean.
const DefaultZThreshold = 2.5

// Outlier identifies one flagged cell. Score is the |z| for the z-score
// method and the distance beyond the violated fence for the IQR method.
type Outlier struct {
	RowID  string  `json:"row_id"`
	Index  int     `json:"index"`
	Value  float64 `json:"value"`
	Score  float64 `json:"score"`
	Method string  `json:"method"`
}

// ZScoreOutliers flags |z| > threshold using population mean and standard
// deviation. Fewer than three numeric values, or zero spread, yield an
// empty result.
func ZScoreOutliers(rows []schema.Row, column string, threshold float64) []Outlier {
	if threshold <= 0 {
		threshold = DefaultZThreshold
	}

	numbers, indexes := columnNumbers(rows, column)
	if len(numbers) < 3 {
		return nil
	}

	mean := stat.Mean(numbers, nil)
	stdev := stat.PopStdDev(numbers, nil)
	if stdev == 0 {
		return nil
	}

	out := make([]Outlier, 0)
	for i, n := range numbers {
		z := (n - mean) / stdev
		if math.Abs(z) > threshold {
			out = append(out, Outlier{
				RowID:  rows[indexes[i]].ID,
				Index:  indexes[i],
				Value:  n,
				Score:  schema.Round2(math.Abs(z)),
				Method: "zscore",
			})
		}
	}
	return out
}

// IQROutliers flags values outside [Q1 − 1.5·IQR, Q3 + 1.5·IQR] using
// index-floor quartiles. Fewer than four numeric values yield an empty
// result.
func IQROutliers(rows []schema.Row, column string) []Outlier {
	numbers, indexes := columnNumbers(rows, column)
	if len(numbers) < 4 {
		return nil
	}

	lower, upper := IQRFences(numbers)

	out := make([]Outlier, 0)
	for i, n := range numbers {
		if n < lower || n > upper {
			score := n - upper
			if n < lower {
				score = lower - n
			}
			out = append(out, Outlier{
				RowID:  rows[indexes[i]].ID,
				Index:  indexes[i],
				Value:  n,
				Score:  schema.Round2(score),
				Method: "iqr",
			})
		}
	}
	return out
}

// IQRFences computes the 1.5·IQR fences with index-floor quartiles.
func IQRFences(numbers []float64) (lower, upper float64) {
	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	q1 := sorted[int(math.Floor(float64(len(sorted))*0.25))]
	q3 := sorted[int(math.Floor(float64(len(sorted))*0.75))]
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

// columnNumbers extracts the column's numeric values with their source
// row indexes so results can name the offending rows.
func columnNumbers(rows []schema.Row, column string) ([]float64, []int) {
	numbers := make([]float64, 0, len(rows))
	indexes := make([]int, 0, len(rows))
	for i, row := range rows {
		if n, ok := schema.Number(row.Get(column)); ok {
			numbers = append(numbers, n)
			indexes = append(indexes, i)
		}
	}
	return numbers, indexes
}
