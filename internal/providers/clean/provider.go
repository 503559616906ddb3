// Package clean exposes the data repair engines: missing-value fills,
// deduplication, outlier remediation, text normalization, and type
// coercion.
package clean

import (
	"context"
	"fmt"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/providers/params"
	"github.com/gridforge/tabular/internal/table/cleaning"
	"github.com/gridforge/tabular/internal/table/schema"
	"github.com/gridforge/tabular/internal/types"
)

// Provider implements cleaning operations
type Provider struct {
	limits config.LimitsConfig
}

// NewProvider creates a cleaning provider
func NewProvider(limits config.LimitsConfig) *Provider {
	return &Provider{limits: limits}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "clean",
		Name:        "Cleaning Service",
		Description: "Missing value repair, deduplication, outlier remediation, text normalization, type coercion",
		Category:    types.CategoryCleaning,
		Capabilities: []string{
			"fill_missing",
			"deduplicate",
			"outlier_repair",
			"normalize_text",
			"coerce_types",
		},
		Tools: []types.Tool{
			{
				ID:          "clean.missing",
				Name:        "Fill Missing",
				Description: "Fill missing cells in a column",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to repair", Required: true},
					{Name: "column", Type: "string", Description: "Column to fill", Required: true},
					{Name: "strategy", Type: "string", Description: "mean, median, mode, custom, interpolate", Required: true},
					{Name: "value", Type: "any", Description: "Literal for the custom strategy", Required: false},
				},
				Returns: "rows",
			},
			{
				ID:          "clean.duplicates",
				Name:        "Deduplicate",
				Description: "Drop duplicate rows by full field equality",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to deduplicate", Required: true},
					{Name: "keep", Type: "string", Description: "first, last, most_complete", Required: false},
				},
				Returns: "rows",
			},
			{
				ID:          "clean.outliers",
				Name:        "Repair Outliers",
				Description: "Remove, cap, or log-transform a column's outliers",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to repair", Required: true},
					{Name: "column", Type: "string", Description: "Numeric column", Required: true},
					{Name: "action", Type: "string", Description: "remove, cap, transform", Required: true},
				},
				Returns: "rows",
			},
			{
				ID:          "clean.text",
				Name:        "Normalize Text",
				Description: "Trim, collapse whitespace, strip punctuation, lowercase text columns",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to normalize", Required: true},
					{Name: "columns", Type: "array", Description: "Column descriptors", Required: true},
				},
				Returns: "rows",
			},
			{
				ID:          "clean.coerce",
				Name:        "Coerce Types",
				Description: "Conform cells to their column's inferred type",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to conform", Required: true},
					{Name: "columns", Type: "array", Description: "Column descriptors", Required: true},
				},
				Returns: "rows",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, raw map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "clean.missing":
		return p.missing(raw)
	case "clean.duplicates":
		return p.duplicates(raw)
	case "clean.outliers":
		return p.outliers(raw)
	case "clean.text":
		return p.text(raw)
	case "clean.coerce":
		return p.coerce(raw)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func resultData(r cleaning.Result) map[string]interface{} {
	return map[string]interface{}{
		"rows":     r.Rows,
		"modified": r.Modified,
		"issues":   r.Issues,
	}
}

type missingRequest struct {
	Rows     []schema.Row          `json:"rows"`
	Column   string                `json:"column"`
	Strategy cleaning.FillStrategy `json:"strategy"`
	Value    any                   `json:"value"`
}

func (p *Provider) missing(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[missingRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column == "" || req.Strategy == "" {
		return types.Failure("column and strategy are required")
	}
	if req.Strategy == cleaning.FillCustom && req.Value == nil {
		return types.Failure("custom strategy requires a value")
	}

	result := cleaning.FillMissing(params.EnsureIDs(req.Rows), req.Column, req.Strategy, req.Value)
	return types.Success(resultData(result))
}

type duplicatesRequest struct {
	Rows []schema.Row          `json:"rows"`
	Keep cleaning.KeepStrategy `json:"keep"`
}

func (p *Provider) duplicates(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[duplicatesRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Keep == "" {
		req.Keep = cleaning.KeepFirst
	}

	result := cleaning.Deduplicate(params.EnsureIDs(req.Rows), req.Keep)
	return types.Success(resultData(result))
}

type outliersRequest struct {
	Rows   []schema.Row           `json:"rows"`
	Column string                 `json:"column"`
	Action cleaning.OutlierAction `json:"action"`
}

func (p *Provider) outliers(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[outliersRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column == "" || req.Action == "" {
		return types.Failure("column and action are required")
	}

	result := cleaning.RemediateOutliers(params.EnsureIDs(req.Rows), req.Column, req.Action)
	return types.Success(resultData(result))
}

type columnsRequest struct {
	Rows    []schema.Row    `json:"rows"`
	Columns []schema.Column `json:"columns"`
}

func (p *Provider) text(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[columnsRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(req.Columns) == 0 {
		return types.Failure("columns array required")
	}

	result := cleaning.NormalizeText(params.EnsureIDs(req.Rows), req.Columns)
	return types.Success(resultData(result))
}

func (p *Provider) coerce(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[columnsRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(req.Columns) == 0 {
		return types.Failure("columns array required")
	}

	result := cleaning.CoerceTypes(params.EnsureIDs(req.Rows), req.Columns)
	return types.Success(resultData(result))
}
