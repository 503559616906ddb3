package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/gridforge/tabular/internal/table/schema"
)

// SearchMode selects how the global search term is interpreted.
type SearchMode string

const (
	ModeNormal  SearchMode = "normal"  // case-insensitive substring
	ModePattern SearchMode = "pattern" // * and ? wildcards
	ModeRegex   SearchMode = "regex"   // raw regular expression
)

// Direction orders a sorted column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Request bundles every view parameter the engine evaluates in one pass.
type Request struct {
	Search        string            `json:"search"`
	Mode          SearchMode        `json:"mode"`
	ColumnFilters map[string]string `json:"column_filters"`
	Groups        []Group           `json:"groups"`
	SortColumn    string            `json:"sort_column"`
	SortDirection Direction         `json:"sort_direction"`
}

// Result is the filtered and sorted view. Fallback is set when a user
// regex failed to compile and the engine degraded to substring search for
// this invocation instead of erroring out.
type Result struct {
	Rows     []schema.Row `json:"rows"`
	Fallback bool         `json:"fallback"`
	Warning  string       `json:"warning,omitempty"`
}

// Apply filters and sorts rows. With no search term, no column filters and
// no groups it returns the rows content-equal and in their original order.
func Apply(rows []schema.Row, req Request) Result {
	result := Result{}

	match, fallback, warning := searchMatcher(req.Search, req.Mode)
	result.Fallback = fallback
	result.Warning = warning

	out := make([]schema.Row, 0, len(rows))
	for _, row := range rows {
		if match != nil && !match(row) {
			continue
		}
		if !matchColumnFilters(row, req.ColumnFilters) {
			continue
		}
		if !matchGroups(row, req.Groups) {
			continue
		}
		out = append(out, row)
	}

	sortRows(out, req.SortColumn, req.SortDirection)
	result.Rows = out
	return result
}

// searchMatcher builds the per-row predicate for the global search term.
// A nil predicate means no search constraint.
func searchMatcher(term string, mode SearchMode) (func(schema.Row) bool, bool, string) {
	if term == "" {
		return nil, false, ""
	}

	switch mode {
	case ModePattern:
		re := compileWildcard(term)
		return regexMatcher(re), false, ""
	case ModeRegex:
		re, err := regexp.Compile("(?i)" + term)
		if err != nil {
			// Degrade to substring search rather than failing the pass.
			return substringMatcher(term), true,
				fmt.Sprintf("invalid regular expression %q, using plain search", term)
		}
		return regexMatcher(re), false, ""
	default:
		return substringMatcher(term), false, ""
	}
}

func substringMatcher(term string) func(schema.Row) bool {
	needle := strings.ToLower(term)
	return func(row schema.Row) bool {
		for _, v := range row.Fields {
			if strings.Contains(strings.ToLower(schema.Text(v)), needle) {
				return true
			}
		}
		return false
	}
}

func regexMatcher(re *regexp.Regexp) func(schema.Row) bool {
	return func(row schema.Row) bool {
		for _, v := range row.Fields {
			if re.MatchString(schema.Text(v)) {
				return true
			}
		}
		return false
	}
}

// compileWildcard turns a user pattern into a case-insensitive regex:
// metacharacters are escaped first, then * becomes .* and ? becomes .
// The result cannot fail to compile.
func compileWildcard(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	escaped = strings.ReplaceAll(escaped, `\?`, `.`)
	return regexp.MustCompile("(?i)" + escaped)
}

// matchColumnFilters applies per-column substring filters as an additional
// AND constraint after the global search.
func matchColumnFilters(row schema.Row, filters map[string]string) bool {
	for key, term := range filters {
		if term == "" {
			continue
		}
		cell := strings.ToLower(schema.Text(row.Get(key)))
		if !strings.Contains(cell, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// sortRows orders by a single column. When both cells parse as numbers the
// comparison is numeric, otherwise it falls back to comparing string forms.
// The sort is stable: equal keys keep their relative order.
func sortRows(rows []schema.Row, column string, direction Direction) {
	if column == "" {
		return
	}
	desc := direction == Descending
	sort.SliceStable(rows, func(i, j int) bool {
		less := cellLess(rows[i].Get(column), rows[j].Get(column))
		if desc {
			return cellLess(rows[j].Get(column), rows[i].Get(column))
		}
		return less
	})
}

func cellLess(a, b any) bool {
	na, aok := schema.Number(a)
	nb, bok := schema.Number(b)
	if aok && bok {
		return na < nb
	}
	return schema.Text(a) < schema.Text(b)
}
