package cleaning

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gridforge/tabular/internal/table/schema"
)

// leadingNumeral extracts a numeric run from the start of a mixed
// string, e.g. "42kg" yields 42 but "$1,234.50/mo" and "abc42" are not
// matched.
var leadingNumeral = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// CoerceTypes conforms every cell to its column's inferred type. Numbers
// are recovered from mixed strings via a leading-numeral scan, dates are
// reparsed to ISO form, booleans are recognized from the fixed token set.
// Unrecognized values pass through unchanged and are reported as issues,
// never dropped.
func CoerceTypes(rows []schema.Row, columns []schema.Column) Result {
	out := make([]schema.Row, 0, len(rows))
	modified := 0
	var issues []string

	for i, row := range rows {
		var clone *schema.Row
		set := func(key string, v any) {
			if clone == nil {
				c := row.Clone()
				clone = &c
			}
			clone.Fields[key] = v
		}

		for _, col := range columns {
			raw := row.Get(col.Key)
			if schema.Empty(raw) {
				continue
			}
			switch col.Type {
			case schema.TypeNumber:
				if _, ok := schema.Number(raw); ok {
					continue
				}
				if m := leadingNumeral.FindString(schema.Text(raw)); m != "" {
					n, _ := strconv.ParseFloat(m, 64)
					set(col.Key, n)
				} else {
					issues = append(issues, coerceIssue(i, col.Key, raw, "number"))
				}
			case schema.TypeDate:
				d, ok := schema.ParseDate(raw)
				if !ok {
					issues = append(issues, coerceIssue(i, col.Key, raw, "date"))
					continue
				}
				iso := d.Format("2006-01-02")
				if schema.Text(raw) != iso {
					set(col.Key, iso)
				}
			case schema.TypeBoolean:
				if _, isBool := raw.(bool); isBool {
					continue
				}
				b, ok := schema.Bool(raw)
				if !ok {
					issues = append(issues, coerceIssue(i, col.Key, raw, "boolean"))
					continue
				}
				set(col.Key, b)
			}
		}

		if clone != nil {
			out = append(out, *clone)
			modified++
		} else {
			out = append(out, row)
		}
	}
	return Result{Rows: out, Modified: modified, Issues: issues}
}

func coerceIssue(rowIndex int, column string, value any, target string) string {
	return fmt.Sprintf("row %d, column %s: cannot coerce %q to %s",
		rowIndex, column, schema.Text(value), target)
}
