// Package validate exposes rule-based validation and auto-rule
// suggestion as a service provider.
package validate

import (
	"context"
	"fmt"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/providers/params"
	"github.com/gridforge/tabular/internal/table/schema"
	tablevalidate "github.com/gridforge/tabular/internal/table/validate"
	"github.com/gridforge/tabular/internal/types"
)

// Provider implements validation operations
type Provider struct {
	limits config.LimitsConfig
}

// NewProvider creates a validation provider
func NewProvider(limits config.LimitsConfig) *Provider {
	return &Provider{limits: limits}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "validate",
		Name:        "Validation Service",
		Description: "Rule-based row validation with quality scoring and rule suggestions",
		Category:    types.CategoryValidate,
		Capabilities: []string{
			"rules",
			"quality_score",
			"rule_suggestions",
		},
		Tools: []types.Tool{
			{
				ID:          "validate.run",
				Name:        "Run Validation",
				Description: "Check rules against every row and score the result",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to validate", Required: true},
					{Name: "rules", Type: "array", Description: "Validation rules", Required: true},
				},
				Returns: "report",
			},
			{
				ID:          "validate.suggest",
				Name:        "Suggest Rules",
				Description: "Propose a starter rule set from column contents",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to inspect", Required: true},
					{Name: "columns", Type: "array", Description: "Column descriptors", Required: true},
				},
				Returns: "rules",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, raw map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "validate.run":
		return p.run(raw)
	case "validate.suggest":
		return p.suggest(raw)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

type runRequest struct {
	Rows  []schema.Row         `json:"rows"`
	Rules []tablevalidate.Rule `json:"rules"`
}

func (p *Provider) run(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[runRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if err := params.CheckRows(req.Rows, 0, p.limits.MaxRows, p.limits.MaxCells); err != nil {
		return types.Failure(err.Error())
	}

	report, err := tablevalidate.Run(params.EnsureIDs(req.Rows), req.Rules)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{"report": report})
}

type suggestRequest struct {
	Rows    []schema.Row    `json:"rows"`
	Columns []schema.Column `json:"columns"`
}

func (p *Provider) suggest(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[suggestRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(req.Columns) == 0 {
		return types.Failure("columns array required")
	}

	rules := tablevalidate.SuggestRules(params.EnsureIDs(req.Rows), req.Columns)
	return types.Success(map[string]interface{}{"rules": rules})
}
