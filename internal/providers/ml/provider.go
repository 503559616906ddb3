// Package ml exposes regression and classification training as a
// service provider.
package ml

import (
	"context"
	"fmt"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/providers/params"
	tableml "github.com/gridforge/tabular/internal/table/ml"
	"github.com/gridforge/tabular/internal/table/schema"
	"github.com/gridforge/tabular/internal/types"
)

// Provider implements model training operations
type Provider struct {
	limits config.LimitsConfig
}

// NewProvider creates an ml provider
func NewProvider(limits config.LimitsConfig) *Provider {
	return &Provider{limits: limits}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "ml",
		Name:        "ML Service",
		Description: "Linear regression and Naive Bayes classification with train/test evaluation",
		Category:    types.CategoryML,
		Capabilities: []string{
			"regression",
			"classification",
			"train_test_split",
		},
		Tools: []types.Tool{
			{
				ID:          "ml.regression",
				Name:        "Train Regression",
				Description: "Fit a least-squares linear model and report fit metrics",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Training rows", Required: true},
					{Name: "target", Type: "string", Description: "Numeric target column", Required: true},
					{Name: "features", Type: "array", Description: "Numeric feature columns", Required: true},
					{Name: "train_test_split", Type: "number", Description: "Train fraction, default 0.8", Required: false},
				},
				Returns: "model",
			},
			{
				ID:          "ml.classify",
				Name:        "Train Classifier",
				Description: "Fit a Naive Bayes classifier and report accuracy metrics",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Training rows", Required: true},
					{Name: "target", Type: "string", Description: "Categorical target column", Required: true},
					{Name: "features", Type: "array", Description: "Categorical feature columns", Required: true},
					{Name: "train_test_split", Type: "number", Description: "Train fraction, default 0.8", Required: false},
				},
				Returns: "model",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, raw map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "ml.regression":
		return p.regression(raw)
	case "ml.classify":
		return p.classify(raw)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

type trainRequest struct {
	Rows []schema.Row `json:"rows"`
	tableml.Config
}

func (p *Provider) regression(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[trainRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if err := params.CheckRows(req.Rows, 0, p.limits.MaxRows, p.limits.MaxCells); err != nil {
		return types.Failure(err.Error())
	}

	model, err := tableml.TrainRegression(params.EnsureIDs(req.Rows), req.Config)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{"model": model})
}

func (p *Provider) classify(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[trainRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if err := params.CheckRows(req.Rows, 0, p.limits.MaxRows, p.limits.MaxCells); err != nil {
		return types.Failure(err.Error())
	}

	model, err := tableml.TrainClassifier(params.EnsureIDs(req.Rows), req.Config)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{"model": model})
}
