package filter

import (
	"strings"
	"time"

	"github.com/gridforge/tabular/internal/table/schema"
)

// Operator is a typed condition predicate.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"

	OpGreaterThan    Operator = "greater_than"
	OpGreaterOrEqual Operator = "greater_or_equal"
	OpLessThan       Operator = "less_than"
	OpLessOrEqual    Operator = "less_or_equal"
	OpBetween        Operator = "between"

	OpIsEmpty    Operator = "is_empty"
	OpIsNotEmpty Operator = "is_not_empty"

	OpToday      Operator = "today"
	OpYesterday  Operator = "yesterday"
	OpThisWeek   Operator = "this_week"
	OpThisMonth  Operator = "this_month"
	OpThisYear   Operator = "this_year"
	OpLast7Days  Operator = "last_7_days"
	OpLast30Days Operator = "last_30_days"
)

// Logic combines the conditions within one group.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Condition tests one column against an operator. SecondValue is only read
// by the between operator.
type Condition struct {
	Column      string   `json:"column"`
	Operator    Operator `json:"operator"`
	Value       any      `json:"value"`
	SecondValue any      `json:"second_value,omitempty"`
}

// Group is one AND/OR cluster of conditions. Multiple groups always
// combine with AND.
type Group struct {
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

func matchGroups(row schema.Row, groups []Group) bool {
	now := time.Now()
	for _, group := range groups {
		if !matchGroup(row, group, now) {
			return false
		}
	}
	return true
}

func matchGroup(row schema.Row, group Group, now time.Time) bool {
	if len(group.Conditions) == 0 {
		return true
	}
	if group.Logic == LogicOr {
		for _, cond := range group.Conditions {
			if evalCondition(row, cond, now) {
				return true
			}
		}
		return false
	}
	for _, cond := range group.Conditions {
		if !evalCondition(row, cond, now) {
			return false
		}
	}
	return true
}

// evalCondition never errors: unparseable dates and failed numeric
// coercions make the condition false for that row.
func evalCondition(row schema.Row, cond Condition, now time.Time) bool {
	cell := row.Get(cond.Column)

	switch cond.Operator {
	case OpEquals:
		return strings.EqualFold(schema.Text(cell), schema.Text(cond.Value))
	case OpNotEquals:
		return !strings.EqualFold(schema.Text(cell), schema.Text(cond.Value))
	case OpContains:
		return containsFold(schema.Text(cell), schema.Text(cond.Value))
	case OpNotContains:
		return !containsFold(schema.Text(cell), schema.Text(cond.Value))
	case OpStartsWith:
		return strings.HasPrefix(lower(cell), lower(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(lower(cell), lower(cond.Value))

	case OpGreaterThan:
		return compareNumbers(cell, cond.Value, func(a, b float64) bool { return a > b })
	case OpGreaterOrEqual:
		return compareNumbers(cell, cond.Value, func(a, b float64) bool { return a >= b })
	case OpLessThan:
		return compareNumbers(cell, cond.Value, func(a, b float64) bool { return a < b })
	case OpLessOrEqual:
		return compareNumbers(cell, cond.Value, func(a, b float64) bool { return a <= b })
	case OpBetween:
		n, ok := schema.Number(cell)
		if !ok {
			return false
		}
		lo, lok := schema.Number(cond.Value)
		hi, hok := schema.Number(cond.SecondValue)
		if !lok || !hok {
			return false
		}
		return n >= lo && n <= hi

	case OpIsEmpty:
		return schema.Empty(cell)
	case OpIsNotEmpty:
		return !schema.Empty(cell)

	case OpToday, OpYesterday, OpThisWeek, OpThisMonth, OpThisYear,
		OpLast7Days, OpLast30Days:
		d, ok := schema.ParseDate(cell)
		if !ok {
			return false
		}
		return matchDateRelative(d, cond.Operator, now)
	}
	return false
}

// matchDateRelative works at day granularity in a single frame so that
// dates parsed as UTC compare correctly against the local clock.
func matchDateRelative(d time.Time, op Operator, now time.Time) bool {
	today := dateOnly(now)
	day := dateOnly(d)

	switch op {
	case OpToday:
		return day.Equal(today)
	case OpYesterday:
		return day.Equal(today.AddDate(0, 0, -1))
	case OpThisWeek:
		// Weeks start on Sunday; the range runs through today inclusive.
		weekStart := today.AddDate(0, 0, -int(now.Weekday()))
		return !day.Before(weekStart) && !day.After(today)
	case OpThisMonth:
		return d.Year() == now.Year() && d.Month() == now.Month()
	case OpThisYear:
		return d.Year() == now.Year()
	case OpLast7Days:
		return !day.Before(today.AddDate(0, 0, -7)) && !day.After(today)
	case OpLast30Days:
		return !day.Before(today.AddDate(0, 0, -30)) && !day.After(today)
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func compareNumbers(cell, value any, cmp func(a, b float64) bool) bool {
	a, aok := schema.Number(cell)
	b, bok := schema.Number(value)
	if !aok || !bok {
		return false
	}
	return cmp(a, b)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func lower(v any) string {
	return strings.ToLower(schema.Text(v))
}
