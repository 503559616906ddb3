package ml

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/tabular/internal/table/schema"
)

// linearRows builds rows where y = 2x, padded to clear the training
// minimums.
func linearRows(n int) []schema.Row {
	rows := make([]schema.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, schema.NewRow(map[string]any{
			"x": float64(i),
			"y": float64(2 * i),
		}))
	}
	return rows
}

func TestTrainRegressionSimple(t *testing.T) {
	model, err := TrainRegression(linearRows(12), Config{
		Target:   "y",
		Features: []string{"x"},
	})
	require.NoError(t, err)

	require.Len(t, model.Coefficients, 1)
	assert.InDelta(t, 2.0, model.Coefficients[0], 1e-9)
	assert.InDelta(t, 0.0, model.Intercept, 1e-9)
	assert.Equal(t, 1.0, model.TrainR2)
	assert.Equal(t, 1.0, model.TestR2)
	assert.Equal(t, 0.0, model.MSE)
	assert.Equal(t, 0.0, model.RMSE)
	assert.Equal(t, 0.0, model.MAE)

	// floor(12 * 0.8) = 9 train rows, 3 test predictions.
	assert.Len(t, model.Predictions, 3)
	assert.Equal(t, 20.0, model.Predictions[0])
}

func TestTrainRegressionMultiple(t *testing.T) {
	// y = 3a + 2b + 1 exactly.
	rows := make([]schema.Row, 0, 12)
	for i := 0; i < 12; i++ {
		a := float64(i)
		b := float64(i % 4)
		rows = append(rows, schema.NewRow(map[string]any{
			"a": a, "b": b, "y": 3*a + 2*b + 1,
		}))
	}
	model, err := TrainRegression(rows, Config{Target: "y", Features: []string{"a", "b"}})
	require.NoError(t, err)

	require.Len(t, model.Coefficients, 2)
	assert.InDelta(t, 3.0, model.Coefficients[0], 1e-6)
	assert.InDelta(t, 2.0, model.Coefficients[1], 1e-6)
	assert.InDelta(t, 1.0, model.Intercept, 1e-6)
	assert.Equal(t, 1.0, model.TestR2)
}

func TestTrainRegressionSingular(t *testing.T) {
	// Two identical features make XᵀX rank deficient.
	rows := make([]schema.Row, 0, 12)
	for i := 0; i < 12; i++ {
		v := float64(i)
		rows = append(rows, schema.NewRow(map[string]any{"a": v, "b": v, "y": v}))
	}
	_, err := TrainRegression(rows, Config{Target: "y", Features: []string{"a", "b"}})
	assert.ErrorIs(t, err, ErrSingularMatrix)
}

func TestTrainRegressionConstantFeature(t *testing.T) {
	rows := make([]schema.Row, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, schema.NewRow(map[string]any{"x": 5.0, "y": float64(i)}))
	}
	_, err := TrainRegression(rows, Config{Target: "y", Features: []string{"x"}})
	assert.ErrorIs(t, err, ErrSingularMatrix)
}

func TestTrainingContract(t *testing.T) {
	t.Run("too few rows overall", func(t *testing.T) {
		_, err := TrainRegression(linearRows(4), Config{Target: "y", Features: []string{"x"}})
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.Contains(t, err.Error(), "10")
	})

	t.Run("too few rows after cleaning", func(t *testing.T) {
		rows := linearRows(12)
		for i := 0; i < 9; i++ {
			rows[i].Fields["x"] = ""
		}
		_, err := TrainRegression(rows, Config{Target: "y", Features: []string{"x"}})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("missing target column", func(t *testing.T) {
		_, err := TrainRegression(linearRows(12), Config{Features: []string{"x"}})
		assert.Error(t, err)
	})

	t.Run("target as feature", func(t *testing.T) {
		_, err := TrainRegression(linearRows(12), Config{Target: "y", Features: []string{"y"}})
		assert.Error(t, err)
	})

	t.Run("split fraction leaves no training rows", func(t *testing.T) {
		// floor(10 * 0.05) = 0: the whole set would land in the test
		// split, so there is nothing to fit.
		_, err := TrainRegression(linearRows(10), Config{
			Target:         "y",
			Features:       []string{"x"},
			TrainTestSplit: 0.05,
		})
		assert.ErrorIs(t, err, ErrInsufficientData)

		rows := make([]schema.Row, 0, 10)
		for i := 0; i < 10; i++ {
			a := float64(i)
			rows = append(rows, schema.NewRow(map[string]any{
				"a": a, "b": float64(i % 3), "y": a,
			}))
		}
		_, err = TrainRegression(rows, Config{
			Target:         "y",
			Features:       []string{"a", "b"},
			TrainTestSplit: 0.05,
		})
		assert.ErrorIs(t, err, ErrInsufficientData)

		_, err = TrainClassifier(linearRows(10), Config{
			Target:         "y",
			Features:       []string{"x"},
			TrainTestSplit: 0.05,
		})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestSplitOrderPreserved(t *testing.T) {
	rows := linearRows(10)
	train, test, err := prepare(rows, Config{Target: "y", Features: []string{"x"}, TrainTestSplit: 0.5})
	require.NoError(t, err)
	require.Len(t, train, 5)
	require.Len(t, test, 5)
	assert.Equal(t, rows[0].ID, train[0].ID)
	assert.Equal(t, rows[5].ID, test[0].ID)
}

func TestTrainClassifier(t *testing.T) {
	// Weather toy set: "yes" when the outlook is sunny.
	rows := make([]schema.Row, 0, 16)
	for i := 0; i < 16; i++ {
		outlook := "sunny"
		play := "yes"
		if i%2 == 1 {
			outlook = "rainy"
			play = "no"
		}
		rows = append(rows, schema.NewRow(map[string]any{
			"outlook": outlook,
			"wind":    fmt.Sprintf("w%d", i%2),
			"play":    play,
		}))
	}
	c, err := TrainClassifier(rows, Config{Target: "play", Features: []string{"outlook", "wind"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"yes", "no"}, c.Classes)
	assert.Equal(t, 1.0, c.TrainAccuracy)
	assert.Equal(t, 1.0, c.TestAccuracy)
	assert.Equal(t, 1.0, c.Metrics.Accuracy)

	for _, pc := range c.Metrics.PerClass {
		assert.Equal(t, 1.0, pc.Precision, pc.Class)
		assert.Equal(t, 1.0, pc.Recall, pc.Class)
		assert.Equal(t, 1.0, pc.F1, pc.Class)
	}

	pred := c.Predict(schema.NewRow(map[string]any{"outlook": "sunny", "wind": "w0"}))
	assert.Equal(t, "yes", pred)
}

func TestClassifierTieBreaksToFirstClass(t *testing.T) {
	// A feature value never seen in training gives every class the same
	// smoothed likelihood; balanced priors leave a pure tie.
	rows := make([]schema.Row, 0, 12)
	for i := 0; i < 12; i++ {
		class := "alpha"
		if i%2 == 1 {
			class = "beta"
		}
		rows = append(rows, schema.NewRow(map[string]any{"f": "known", "t": class}))
	}
	c, err := TrainClassifier(rows, Config{Target: "t", Features: []string{"f"}, TrainTestSplit: 0.5})
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, c.Classes)

	pred := c.Predict(schema.NewRow(map[string]any{"f": "unseen"}))
	assert.Equal(t, "alpha", pred)
}

func TestClassMetricsZeroDenominators(t *testing.T) {
	// "b" is never predicted: precision denominator is zero.
	m := classMetrics([]string{"a", "b"},
		[]string{"a", "b", "b"},
		[]string{"a", "a", "a"})

	require.Len(t, m.PerClass, 2)
	b := m.PerClass[1]
	assert.Equal(t, 0.0, b.Precision)
	assert.Equal(t, 0.0, b.Recall)
	assert.Equal(t, 0.0, b.F1)
	assert.Equal(t, 0.33, m.Accuracy)
}
