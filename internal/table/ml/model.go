package ml

import (
	"errors"
	"fmt"
	"math"

	"github.com/gridforge/tabular/internal/table/schema"
)

const (
	minTotalRows = 10
	minCleanRows = 5

	defaultSplit = 0.8
)

var (
	// ErrSingularMatrix reports a degenerate design matrix, typically a
	// constant or collinear feature column.
	ErrSingularMatrix = errors.New("singular matrix: features are constant or collinear")

	// ErrInsufficientData reports a training set below the documented
	// minimums.
	ErrInsufficientData = fmt.Errorf(
		"insufficient data: need at least %d rows and %d complete rows after cleaning",
		minTotalRows, minCleanRows)
)

// Config selects the target, the feature columns, and the train/test
// split fraction for a training run.
type Config struct {
	Target         string   `json:"target"`
	Features       []string `json:"features"`
	TrainTestSplit float64  `json:"train_test_split"`
}

func (c Config) split() float64 {
	if c.TrainTestSplit <= 0 || c.TrainTestSplit >= 1 {
		return defaultSplit
	}
	return c.TrainTestSplit
}

func (c Config) validate() error {
	if c.Target == "" {
		return errors.New("target column is required")
	}
	if len(c.Features) == 0 {
		return errors.New("at least one feature column is required")
	}
	for _, f := range c.Features {
		if f == c.Target {
			return fmt.Errorf("feature %q is also the target", f)
		}
	}
	return nil
}

// cleanRows drops every row missing the target or any feature value,
// preserving original order.
func cleanRows(rows []schema.Row, cfg Config) []schema.Row {
	cleaned := make([]schema.Row, 0, len(rows))
rowLoop:
	for _, row := range rows {
		if schema.Empty(row.Get(cfg.Target)) {
			continue
		}
		for _, f := range cfg.Features {
			if schema.Empty(row.Get(f)) {
				continue rowLoop
			}
		}
		cleaned = append(cleaned, row)
	}
	return cleaned
}

// prepare validates the config, cleans the rows, and splits them at
// floor(n * split) without shuffling.
func prepare(rows []schema.Row, cfg Config) (train, test []schema.Row, err error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if len(rows) < minTotalRows {
		return nil, nil, ErrInsufficientData
	}
	cleaned := cleanRows(rows, cfg)
	if len(cleaned) < minCleanRows {
		return nil, nil, ErrInsufficientData
	}
	cut := int(math.Floor(float64(len(cleaned)) * cfg.split()))
	if cut == 0 {
		return nil, nil, ErrInsufficientData
	}
	return cleaned[:cut], cleaned[cut:], nil
}
