// Package stats exposes descriptive statistics and the advanced
// insight engines (correlations, outliers, normality, trend) as a
// service provider.
package stats

import (
	"context"
	"fmt"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/providers/params"
	"github.com/gridforge/tabular/internal/table/insights"
	"github.com/gridforge/tabular/internal/table/schema"
	tablestats "github.com/gridforge/tabular/internal/table/stats"
	"github.com/gridforge/tabular/internal/types"
)

// Provider implements statistical operations
type Provider struct {
	limits config.LimitsConfig
}

// NewProvider creates a stats provider
func NewProvider(limits config.LimitsConfig) *Provider {
	return &Provider{limits: limits}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "stats",
		Name:        "Statistics Service",
		Description: "Descriptive statistics, correlations, outliers, normality, trend",
		Category:    types.CategoryStats,
		Capabilities: []string{
			"descriptive",
			"correlation",
			"outliers",
			"normality",
			"trend",
		},
		Tools: []types.Tool{
			{
				ID:          "stats.column",
				Name:        "Column Statistics",
				Description: "Type-aware descriptive statistics for one column",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to analyze", Required: true},
					{Name: "column", Type: "object", Description: "Column descriptor", Required: true},
				},
				Returns: "column_stats",
			},
			{
				ID:          "stats.dataset",
				Name:        "Dataset Statistics",
				Description: "Dataset-wide statistics: completeness, duplicates, per-column summaries",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to analyze", Required: true},
					{Name: "columns", Type: "array", Description: "Column descriptors", Required: true},
				},
				Returns: "dataset_stats",
			},
			{
				ID:          "stats.correlations",
				Name:        "Correlations",
				Description: "Pairwise correlations over numeric columns",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to analyze", Required: true},
					{Name: "columns", Type: "array", Description: "Column descriptors", Required: true},
					{Name: "method", Type: "string", Description: "pearson or spearman for pairwise mode", Required: false},
					{Name: "x", Type: "string", Description: "Single-pair column key", Required: false},
					{Name: "y", Type: "string", Description: "Single-pair column key", Required: false},
				},
				Returns: "correlations",
			},
			{
				ID:          "stats.outliers",
				Name:        "Outliers",
				Description: "Flag outlier rows by z-score or IQR fences",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to analyze", Required: true},
					{Name: "column", Type: "string", Description: "Numeric column key", Required: true},
					{Name: "method", Type: "string", Description: "zscore or iqr", Required: false},
					{Name: "threshold", Type: "number", Description: "Z-score threshold", Required: false},
				},
				Returns: "outliers",
			},
			{
				ID:          "stats.normality",
				Name:        "Normality",
				Description: "Moment-based normality heuristic for a numeric column",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to analyze", Required: true},
					{Name: "column", Type: "string", Description: "Numeric column key", Required: true},
				},
				Returns: "normality",
			},
			{
				ID:          "stats.trend",
				Name:        "Trend",
				Description: "Least-squares trend of a numeric column over row order",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows in sequence order", Required: true},
					{Name: "column", Type: "string", Description: "Numeric column key", Required: true},
				},
				Returns: "trend",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, raw map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "stats.column":
		return p.column(raw)
	case "stats.dataset":
		return p.dataset(raw)
	case "stats.correlations":
		return p.correlations(raw)
	case "stats.outliers":
		return p.outliers(raw)
	case "stats.normality":
		return p.normality(raw)
	case "stats.trend":
		return p.trend(raw)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

type columnRequest struct {
	Rows   []schema.Row  `json:"rows"`
	Column schema.Column `json:"column"`
}

func (p *Provider) column(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[columnRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column.Key == "" {
		return types.Failure("column key required")
	}

	result := tablestats.Column(params.EnsureIDs(req.Rows), req.Column)
	return types.Success(map[string]interface{}{"stats": result})
}

type datasetRequest struct {
	Rows    []schema.Row    `json:"rows"`
	Columns []schema.Column `json:"columns"`
}

func (p *Provider) dataset(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[datasetRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if err := params.CheckRows(req.Rows, len(req.Columns), p.limits.MaxRows, p.limits.MaxCells); err != nil {
		return types.Failure(err.Error())
	}

	result := tablestats.Dataset(params.EnsureIDs(req.Rows), req.Columns)
	return types.Success(map[string]interface{}{"stats": result})
}

type correlationsRequest struct {
	Rows    []schema.Row    `json:"rows"`
	Columns []schema.Column `json:"columns"`
	Method  string          `json:"method"`
	X       string          `json:"x"`
	Y       string          `json:"y"`
}

func (p *Provider) correlations(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[correlationsRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	rows := params.EnsureIDs(req.Rows)

	// Single-pair mode computes one coefficient with the chosen method;
	// matrix mode is always Pearson.
	if req.X != "" && req.Y != "" {
		x, y := insights.PairedValues(rows, req.X, req.Y)
		r := insights.Pearson(x, y)
		if req.Method == "spearman" {
			r = insights.Spearman(x, y)
		}
		return types.Success(map[string]interface{}{
			"r":         schema.Round2(r),
			"n":         len(x),
			"strength":  insights.StrengthOf(r),
			"direction": insights.DirectionOf(r),
		})
	}

	matrix := insights.Matrix(rows, req.Columns)
	return types.Success(map[string]interface{}{"correlations": matrix})
}

type outliersRequest struct {
	Rows      []schema.Row `json:"rows"`
	Column    string       `json:"column"`
	Method    string       `json:"method"`
	Threshold float64      `json:"threshold"`
}

func (p *Provider) outliers(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[outliersRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column == "" {
		return types.Failure("column required")
	}
	rows := params.EnsureIDs(req.Rows)

	var found []insights.Outlier
	if req.Method == "iqr" {
		found = insights.IQROutliers(rows, req.Column)
	} else {
		found = insights.ZScoreOutliers(rows, req.Column, req.Threshold)
	}
	return types.Success(map[string]interface{}{
		"outliers": found,
		"count":    len(found),
	})
}

type seriesRequest struct {
	Rows   []schema.Row `json:"rows"`
	Column string       `json:"column"`
}

func (p *Provider) normality(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[seriesRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column == "" {
		return types.Failure("column required")
	}

	result := insights.Normality(numericColumn(params.EnsureIDs(req.Rows), req.Column))
	return types.Success(map[string]interface{}{"normality": result})
}

func (p *Provider) trend(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[seriesRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Column == "" {
		return types.Failure("column required")
	}

	result := insights.Trend(numericColumn(params.EnsureIDs(req.Rows), req.Column))
	return types.Success(map[string]interface{}{"trend": result})
}

func numericColumn(rows []schema.Row, column string) []float64 {
	numbers := make([]float64, 0, len(rows))
	for _, row := range rows {
		if n, ok := schema.Number(row.Get(column)); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}
