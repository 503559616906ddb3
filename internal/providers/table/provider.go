// Package table exposes the row query, aggregation, and derived-column
// engines as a service provider.
package table

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/providers/params"
	"github.com/gridforge/tabular/internal/table/aggregate"
	"github.com/gridforge/tabular/internal/table/filter"
	"github.com/gridforge/tabular/internal/table/formula"
	"github.com/gridforge/tabular/internal/table/schema"
	"github.com/gridforge/tabular/internal/types"
)

// Provider implements tabular query operations
type Provider struct {
	limits config.LimitsConfig
}

// NewProvider creates a table provider
func NewProvider(limits config.LimitsConfig) *Provider {
	return &Provider{limits: limits}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "table",
		Name:        "Table Service",
		Description: "Row filtering, search, sort, aggregation, pivot, and derived columns",
		Category:    types.CategoryTable,
		Capabilities: []string{
			"search",
			"filter",
			"sort",
			"aggregate",
			"pivot",
			"type_inference",
			"derived_columns",
			"relations",
		},
		Tools: []types.Tool{
			{
				ID:          "table.query",
				Name:        "Query",
				Description: "Filter, search, and sort rows",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to query", Required: true},
					{Name: "search", Type: "string", Description: "Global search text", Required: false},
					{Name: "mode", Type: "string", Description: "Search mode: normal, pattern, regex", Required: false},
					{Name: "column_filters", Type: "object", Description: "Per-column substring filters", Required: false},
					{Name: "groups", Type: "array", Description: "Condition groups", Required: false},
					{Name: "sort_column", Type: "string", Description: "Column to sort by", Required: false},
					{Name: "sort_direction", Type: "string", Description: "asc or desc", Required: false},
				},
				Returns: "rows",
			},
			{
				ID:          "table.aggregate",
				Name:        "Aggregate",
				Description: "Group rows and compute an aggregate per group",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to aggregate", Required: true},
					{Name: "group_by", Type: "string", Description: "Grouping column", Required: true},
					{Name: "target", Type: "string", Description: "Value column", Required: true},
					{Name: "func", Type: "string", Description: "sum, avg, count, min, max, median, std, distinct", Required: true},
				},
				Returns: "groups",
			},
			{
				ID:          "table.pivot",
				Name:        "Pivot",
				Description: "Two-dimensional cross tabulation",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to pivot", Required: true},
					{Name: "row_column", Type: "string", Description: "Row axis column", Required: true},
					{Name: "col_column", Type: "string", Description: "Column axis column", Required: true},
					{Name: "value_column", Type: "string", Description: "Value column", Required: true},
					{Name: "func", Type: "string", Description: "sum, avg, count, min, max", Required: true},
				},
				Returns: "pivot",
			},
			{
				ID:          "table.infer",
				Name:        "Infer Types",
				Description: "Infer column types from sampled values",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to sample", Required: true},
					{Name: "keys", Type: "array", Description: "Column keys to classify", Required: true},
				},
				Returns: "columns",
			},
			{
				ID:          "table.formula",
				Name:        "Formula",
				Description: "Evaluate an arithmetic expression into a new column",
				Parameters: []types.Parameter{
					{Name: "rows", Type: "array", Description: "Rows to extend", Required: true},
					{Name: "key", Type: "string", Description: "New column key", Required: true},
					{Name: "expression", Type: "string", Description: "Arithmetic expression over columns", Required: true},
				},
				Returns: "rows",
			},
			{
				ID:          "table.relations",
				Name:        "Relations",
				Description: "Detect likely join columns between sheets",
				Parameters: []types.Parameter{
					{Name: "sheets", Type: "object", Description: "Datasets keyed by sheet name", Required: true},
					{Name: "order", Type: "array", Description: "Sheet comparison order", Required: false},
				},
				Returns: "relations",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, raw map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "table.query":
		return p.query(raw)
	case "table.aggregate":
		return p.aggregate(raw)
	case "table.pivot":
		return p.pivot(raw)
	case "table.infer":
		return p.infer(raw)
	case "table.formula":
		return p.formula(raw)
	case "table.relations":
		return p.relations(raw)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

type queryRequest struct {
	Rows []schema.Row `json:"rows"`
	filter.Request
}

func (p *Provider) query(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[queryRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	rows := params.EnsureIDs(req.Rows)
	if err := params.CheckRows(rows, 0, p.limits.MaxRows, p.limits.MaxCells); err != nil {
		return types.Failure(err.Error())
	}

	result := filter.Apply(rows, req.Request)
	data := map[string]interface{}{
		"rows":  result.Rows,
		"total": len(result.Rows),
	}
	if result.Fallback {
		data["fallback"] = true
		data["warning"] = result.Warning
	}
	return types.Success(data)
}

type aggregateRequest struct {
	Rows []schema.Row `json:"rows"`
	aggregate.Rule
}

func (p *Provider) aggregate(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[aggregateRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.GroupBy == "" || req.Target == "" || req.Func == "" {
		return types.Failure("group_by, target, and func are required")
	}

	result := aggregate.Aggregate(params.EnsureIDs(req.Rows), req.Rule)
	return types.Success(map[string]interface{}{
		"results":      result.Results,
		"total_groups": result.TotalGroups,
		"total_rows":   result.TotalRows,
	})
}

type pivotRequest struct {
	Rows []schema.Row `json:"rows"`
	aggregate.PivotRequest
}

func (p *Provider) pivot(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[pivotRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.RowColumn == "" || req.ColColumn == "" || req.ValueColumn == "" {
		return types.Failure("row_column, col_column, and value_column are required")
	}
	if !aggregate.SupportedPivotFunc(req.Func) {
		return types.Failure(fmt.Sprintf("unsupported pivot function: %s", req.Func))
	}

	result := aggregate.Pivot(params.EnsureIDs(req.Rows), req.PivotRequest)
	return types.Success(map[string]interface{}{
		"row_keys": result.RowKeys,
		"col_keys": result.ColKeys,
		"records":  result.Records,
	})
}

type inferRequest struct {
	Rows []schema.Row `json:"rows"`
	Keys []string     `json:"keys"`
}

func (p *Provider) infer(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[inferRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(req.Keys) == 0 {
		return types.Failure("keys array required")
	}

	rows := params.EnsureIDs(req.Rows)
	if p.limits.SampleSize > 0 && len(rows) > p.limits.SampleSize {
		rows = rows[:p.limits.SampleSize]
	}

	columns := schema.InferColumns(req.Keys, rows)
	return types.Success(map[string]interface{}{"columns": columns})
}

type formulaRequest struct {
	Rows       []schema.Row `json:"rows"`
	Key        string       `json:"key"`
	Expression string       `json:"expression"`
}

func (p *Provider) formula(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[formulaRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if req.Key == "" || req.Expression == "" {
		return types.Failure("key and expression are required")
	}

	rows, issues, err := formula.Apply(params.EnsureIDs(req.Rows), req.Key, req.Expression)
	if err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{
		"rows":   rows,
		"issues": issues,
	})
}

type relationsRequest struct {
	Order  []string                   `json:"order"`
	Sheets map[string]*schema.Dataset `json:"sheets"`
}

func (p *Provider) relations(raw map[string]interface{}) (*types.Result, error) {
	req, err := params.Decode[relationsRequest](raw)
	if err != nil {
		return types.Failure(err.Error())
	}
	if len(req.Sheets) < 2 {
		return types.Failure("at least two sheets required")
	}
	if len(req.Order) == 0 {
		for name := range req.Sheets {
			req.Order = append(req.Order, name)
		}
		sort.Strings(req.Order)
	}

	book := &schema.Book{Order: req.Order, Sheets: req.Sheets}
	return types.Success(map[string]interface{}{
		"relations": schema.DetectRelations(book),
	})
}
