package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/tabular/internal/table/schema"
)

func person(name, email, age any) schema.Row {
	return schema.NewRow(map[string]any{"name": name, "email": email, "age": age})
}

func f(v float64) *float64 { return &v }

func TestRunNoRules(t *testing.T) {
	_, err := Run(nil, nil)
	assert.ErrorIs(t, err, ErrNoRules)
}

func TestRunRequired(t *testing.T) {
	rows := []schema.Row{
		person("ana", "ana@example.com", "30"),
		person("", "luis@example.com", "41"),
	}
	report, err := Run(rows, []Rule{{Column: "name", Type: RuleRequired, Severity: SeverityError}})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ValidRows)
	assert.Equal(t, 1, report.InvalidRows)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, rows[1].ID, report.Violations[0].RowID)
	assert.Equal(t, 1, report.Violations[0].RowIndex)
}

func TestRunFormats(t *testing.T) {
	rules := []Rule{
		{Column: "email", Type: RuleFormat, Format: FormatEmail, Severity: SeverityError},
	}
	rows := []schema.Row{
		person("ana", "ana@example.com", "30"),
		person("luis", "not-an-email", "41"),
		person("mar", "", "25"), // empty cells skip non-required rules
	}
	report, err := Run(rows, rules)
	require.NoError(t, err)
	assert.Equal(t, 1, report.InvalidRows)
	assert.Equal(t, 2, report.ValidRows)
}

func TestRunRangeAndLength(t *testing.T) {
	rules := []Rule{
		{Column: "age", Type: RuleRange, Min: f(0), Max: f(120), Severity: SeverityError},
		{Column: "name", Type: RuleLength, Min: f(2), Severity: SeverityWarning},
	}
	rows := []schema.Row{
		person("ana", "", "30"),
		person("x", "", "150"),
		person("bo", "", "abc"),
	}
	report, err := Run(rows, rules)
	require.NoError(t, err)

	assert.Equal(t, 1, report.ValidRows)
	assert.Equal(t, 2, report.InvalidRows) // out-of-range and non-numeric
	require.Len(t, report.Violations, 3)
}

func TestRunPatternEnumUnique(t *testing.T) {
	rows := []schema.Row{
		schema.NewRow(map[string]any{"code": "A-1", "status": "Open"}),
		schema.NewRow(map[string]any{"code": "A-1", "status": "closed"}),
		schema.NewRow(map[string]any{"code": "b2", "status": "pending"}),
	}
	rules := []Rule{
		{Column: "code", Type: RulePattern, Pattern: `^[a-z]-\d$`, Flags: "i", Severity: SeverityError},
		{Column: "code", Type: RuleUnique, Severity: SeverityWarning},
		{Column: "status", Type: RuleEnum, Allowed: []any{"open", "closed"}, Severity: SeverityError},
	}
	report, err := Run(rows, rules)
	require.NoError(t, err)

	byRule := map[RuleType]int{}
	for _, v := range report.Violations {
		byRule[v.Rule]++
	}
	assert.Equal(t, 1, byRule[RulePattern]) // "b2"
	assert.Equal(t, 2, byRule[RuleUnique])  // both "A-1" rows
	assert.Equal(t, 1, byRule[RuleEnum])    // "pending"
}

func TestRunBadPattern(t *testing.T) {
	_, err := Run(nil, []Rule{{Column: "c", Type: RulePattern, Pattern: "["}})
	assert.Error(t, err)
}

func TestRunDateRange(t *testing.T) {
	rows := []schema.Row{
		schema.NewRow(map[string]any{"d": "2024-06-15"}),
		schema.NewRow(map[string]any{"d": "2023-01-01"}),
		schema.NewRow(map[string]any{"d": "garbage"}),
	}
	rules := []Rule{{
		Column: "d", Type: RuleDateRange,
		MinDate: "2024-01-01", MaxDate: "2024-12-31",
		Severity: SeverityError,
	}}
	report, err := Run(rows, rules)
	require.NoError(t, err)
	assert.Equal(t, 2, report.InvalidRows)
	assert.Equal(t, 1, report.ValidRows)
}

func TestScores(t *testing.T) {
	t.Run("no failures scores 100", func(t *testing.T) {
		rows := []schema.Row{person("ana", "", "1"), person("bo", "", "2")}
		report, err := Run(rows, []Rule{{Column: "name", Type: RuleRequired, Severity: SeverityError}})
		require.NoError(t, err)
		assert.Equal(t, 100.0, report.Score)
		require.Len(t, report.Columns, 1)
		assert.Equal(t, 100.0, report.Columns[0].Score)
	})

	t.Run("every row failing an error rule scores 0", func(t *testing.T) {
		rows := []schema.Row{person("", "", "1"), person("", "", "2")}
		report, err := Run(rows, []Rule{{Column: "name", Type: RuleRequired, Severity: SeverityError}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, report.Score)
		assert.Equal(t, 0.0, report.Columns[0].Score)
	})

	t.Run("warnings weigh less than errors", func(t *testing.T) {
		rows := []schema.Row{person("", "", "1"), person("ana", "", "2")}
		report, err := Run(rows, []Rule{{Column: "name", Type: RuleRequired, Severity: SeverityWarning}})
		require.NoError(t, err)
		// One of two rows warns: 100 - 0*100 - 0.5*30 = 85.
		assert.Equal(t, 85.0, report.Score)
		// Column weight is 50: 100 - 0.5*50 = 75.
		assert.Equal(t, 75.0, report.Columns[0].Score)
	})

	t.Run("empty dataset scores 100", func(t *testing.T) {
		report, err := Run(nil, []Rule{{Column: "name", Type: RuleRequired}})
		require.NoError(t, err)
		assert.Equal(t, 100.0, report.Score)
	})
}

func TestSuggestRules(t *testing.T) {
	columns := []schema.Column{
		{Key: "email", Type: schema.TypeText},
		{Key: "telefono", Type: schema.TypeText},
		{Key: "price", Type: schema.TypeNumber},
		{Key: "sparse", Type: schema.TypeText},
	}
	rows := []schema.Row{
		schema.NewRow(map[string]any{"email": "a@x.com", "telefono": "600 111 222", "price": "10", "sparse": "x"}),
		schema.NewRow(map[string]any{"email": "b@x.com", "telefono": "600 333 444", "price": "20", "sparse": ""}),
		schema.NewRow(map[string]any{"email": "c@x.com", "telefono": "600 555 666", "price": "30", "sparse": ""}),
	}
	rules := SuggestRules(rows, columns)

	find := func(column string, typ RuleType) *Rule {
		for i := range rules {
			if rules[i].Column == column && rules[i].Type == typ {
				return &rules[i]
			}
		}
		return nil
	}

	require.NotNil(t, find("email", RuleFormat))
	assert.Equal(t, FormatEmail, find("email", RuleFormat).Format)

	phone := find("telefono", RuleFormat)
	require.NotNil(t, phone)
	assert.Equal(t, FormatPhone, phone.Format)
	assert.Equal(t, SeverityWarning, phone.Severity)

	require.NotNil(t, find("email", RuleRequired))
	assert.Nil(t, find("sparse", RuleRequired))

	priceRange := find("price", RuleRange)
	require.NotNil(t, priceRange)
	assert.Equal(t, 9.0, *priceRange.Min)
	assert.Equal(t, 33.0, *priceRange.Max)
}
