package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gridforge/tabular/internal/table/schema"
)

// RegressionModel holds fitted least-squares coefficients and the
// goodness-of-fit metrics measured on the held-out test split.
type RegressionModel struct {
	Config       Config    `json:"config"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`

	TrainR2     float64   `json:"train_r2"`
	TestR2      float64   `json:"test_r2"`
	MSE         float64   `json:"mse"`
	RMSE        float64   `json:"rmse"`
	MAE         float64   `json:"mae"`
	Predictions []float64 `json:"predictions"`
}

// Predict applies the fitted model to one feature vector.
func (m *RegressionModel) Predict(features []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(features) {
			y += c * features[i]
		}
	}
	return y
}

// TrainRegression fits a linear model by solving the normal equations
// (XᵀX)⁻¹Xᵀy. A single feature reduces to the closed-form slope and
// intercept; more features go through an explicit Gauss-Jordan inverse
// so a degenerate design surfaces as ErrSingularMatrix instead of junk
// coefficients.
func TrainRegression(rows []schema.Row, cfg Config) (*RegressionModel, error) {
	train, test, err := prepare(rows, cfg)
	if err != nil {
		return nil, err
	}

	trainX, trainY, err := designMatrix(train, cfg)
	if err != nil {
		return nil, err
	}
	testX, testY, err := designMatrix(test, cfg)
	if err != nil {
		return nil, err
	}

	model := &RegressionModel{Config: cfg}
	if len(cfg.Features) == 1 {
		model.Intercept, model.Coefficients, err = fitSimple(trainX, trainY)
	} else {
		model.Intercept, model.Coefficients, err = fitNormalEquations(trainX, trainY)
	}
	if err != nil {
		return nil, err
	}

	trainPred := predictAll(model, trainX)
	model.TrainR2 = schema.Round2(clampR2(rSquared(trainY, trainPred)))

	testPred := predictAll(model, testX)
	model.Predictions = testPred
	model.TestR2 = schema.Round2(clampR2(rSquared(testY, testPred)))
	model.MSE, model.RMSE, model.MAE = residualMetrics(testY, testPred)
	return model, nil
}

// designMatrix extracts the numeric feature matrix and target vector.
// A non-numeric cell in a surviving row is caller input worth naming.
func designMatrix(rows []schema.Row, cfg Config) ([][]float64, []float64, error) {
	x := make([][]float64, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for _, row := range rows {
		target, ok := schema.Number(row.Get(cfg.Target))
		if !ok {
			return nil, nil, fmt.Errorf("target %s: value %q is not numeric",
				cfg.Target, schema.Text(row.Get(cfg.Target)))
		}
		features := make([]float64, len(cfg.Features))
		for i, f := range cfg.Features {
			n, ok := schema.Number(row.Get(f))
			if !ok {
				return nil, nil, fmt.Errorf("feature %s: value %q is not numeric",
					f, schema.Text(row.Get(f)))
			}
			features[i] = n
		}
		x = append(x, features)
		y = append(y, target)
	}
	return x, y, nil
}

func fitSimple(x [][]float64, y []float64) (float64, []float64, error) {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		xi := x[i][0]
		sumX += xi
		sumY += y[i]
		sumXY += xi * y[i]
		sumXX += xi * xi
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, nil, ErrSingularMatrix
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return intercept, []float64{slope}, nil
}

// fitNormalEquations solves (XᵀX)β = Xᵀy with X augmented by a bias
// column. gonum assembles the products; the inverse is a hand Gauss-
// Jordan so the pivot-zero check is explicit.
func fitNormalEquations(x [][]float64, y []float64) (float64, []float64, error) {
	rows := len(x)
	cols := len(x[0]) + 1

	design := mat.NewDense(rows, cols, nil)
	for i, features := range x {
		design.Set(i, 0, 1)
		for j, v := range features {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(rows, y)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var xty mat.VecDense
	xty.MulVec(design.T(), target)

	inverse, err := gaussJordanInverse(denseToSlices(&xtx))
	if err != nil {
		return 0, nil, err
	}

	beta := make([]float64, cols)
	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			beta[i] += inverse[i][j] * xty.AtVec(j)
		}
	}
	return beta[0], beta[1:], nil
}

func denseToSlices(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// gaussJordanInverse inverts a square matrix with partial pivoting,
// returning ErrSingularMatrix when no usable pivot remains.
func gaussJordanInverse(m [][]float64) ([][]float64, error) {
	n := len(m)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = make([]float64, 2*n)
		copy(aug[i], m[i])
		aug[i][n+i] = 1
	}

	const pivotEpsilon = 1e-10
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(aug[pivot][col]) < pivotEpsilon {
			return nil, ErrSingularMatrix
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := aug[col][col]
		for j := range aug[col] {
			aug[col][j] /= scale
		}
		for r := 0; r < n; r++ {
			if r == col || aug[r][col] == 0 {
				continue
			}
			factor := aug[r][col]
			for j := range aug[r] {
				aug[r][j] -= factor * aug[col][j]
			}
		}
	}

	inverse := make([][]float64, n)
	for i := range inverse {
		inverse[i] = aug[i][n:]
	}
	return inverse, nil
}

func predictAll(m *RegressionModel, x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, features := range x {
		out[i] = schema.Round2(m.Predict(features))
	}
	return out
}

func rSquared(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		ssRes += (v - predicted[i]) * (v - predicted[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func clampR2(r2 float64) float64 {
	if r2 < 0 {
		return 0
	}
	return r2
}

func residualMetrics(actual, predicted []float64) (mse, rmse, mae float64) {
	if len(actual) == 0 {
		return 0, 0, 0
	}
	for i, v := range actual {
		diff := v - predicted[i]
		mse += diff * diff
		mae += math.Abs(diff)
	}
	n := float64(len(actual))
	mse /= n
	mae /= n
	return schema.Round2(mse), schema.Round2(math.Sqrt(mse)), schema.Round2(mae)
}
