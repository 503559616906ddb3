package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/tabular/internal/config"
	"github.com/gridforge/tabular/internal/table/schema"
)

func testProvider() *Provider {
	return NewProvider(config.Default().Limits)
}

func sampleRows() []interface{} {
	return []interface{}{
		map[string]interface{}{"fields": map[string]interface{}{"name": "Alice", "dept": "eng", "salary": "100"}},
		map[string]interface{}{"fields": map[string]interface{}{"name": "Bob", "dept": "eng", "salary": "80"}},
		map[string]interface{}{"fields": map[string]interface{}{"name": "Cara", "dept": "ops", "salary": "90"}},
	}
}

func TestDefinition(t *testing.T) {
	def := testProvider().Definition()

	assert.Equal(t, "table", def.ID)
	require.NotEmpty(t, def.Tools)
	for _, tool := range def.Tools {
		assert.Contains(t, tool.ID, "table.")
	}
}

func TestQuerySearch(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.query", map[string]interface{}{
		"rows":   sampleRows(),
		"search": "alice",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.EqualValues(t, 1, result.Data["total"])
}

func TestQueryAssignsRowIDs(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.query", map[string]interface{}{
		"rows": sampleRows(),
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	rows, ok := result.Data["rows"].([]schema.Row)
	require.True(t, ok)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.NotEmpty(t, row.ID)
	}
}

func TestQueryRowLimit(t *testing.T) {
	p := NewProvider(config.LimitsConfig{MaxRows: 2})

	result, err := p.Execute(context.Background(), "table.query", map[string]interface{}{
		"rows": sampleRows(),
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "exceeds limit")
}

func TestAggregateSum(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.aggregate", map[string]interface{}{
		"rows":     sampleRows(),
		"group_by": "dept",
		"target":   "salary",
		"func":     "sum",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.EqualValues(t, 2, result.Data["total_groups"])
}

func TestAggregateMissingParams(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.aggregate", map[string]interface{}{
		"rows": sampleRows(),
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
}

func TestPivotRejectsUnsupportedFunc(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.pivot", map[string]interface{}{
		"rows":         sampleRows(),
		"row_column":   "dept",
		"col_column":   "name",
		"value_column": "salary",
		"func":         "distinct",
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unsupported pivot function")
}

func TestInferRequiresKeys(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.infer", map[string]interface{}{
		"rows": sampleRows(),
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
}

func TestFormula(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.formula", map[string]interface{}{
		"rows":       sampleRows(),
		"key":        "double",
		"expression": "salary * 2",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Empty(t, result.Data["issues"])
}

func TestFormulaBadExpression(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.formula", map[string]interface{}{
		"rows":       sampleRows(),
		"key":        "broken",
		"expression": "salary +",
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
}

func TestRelationsNeedsTwoSheets(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.relations", map[string]interface{}{
		"sheets": map[string]interface{}{
			"only": map[string]interface{}{"rows": sampleRows()},
		},
	}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
}

func TestUnknownTool(t *testing.T) {
	p := testProvider()

	result, err := p.Execute(context.Background(), "table.nope", nil, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
}
