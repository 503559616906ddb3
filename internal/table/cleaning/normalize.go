package cleaning

import (
	"regexp"
	"strings"

	"github.com/gridforge/tabular/internal/table/schema"
)

var (
	innerWhitespace = regexp.MustCompile(`\s+`)
	nonWordOrSpace  = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeText canonicalizes every text-typed column: trim, collapse
// internal whitespace, strip non-word/non-space characters, lowercase.
// The operation is irreversible; other column types pass through.
func NormalizeText(rows []schema.Row, columns []schema.Column) Result {
	textKeys := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Type == schema.TypeText {
			textKeys = append(textKeys, col.Key)
		}
	}

	out := make([]schema.Row, 0, len(rows))
	modified := 0
	for _, row := range rows {
		var clone *schema.Row
		for _, key := range textKeys {
			raw, ok := row.Get(key).(string)
			if !ok {
				continue
			}
			normalized := normalizeString(raw)
			if normalized == raw {
				continue
			}
			if clone == nil {
				c := row.Clone()
				clone = &c
			}
			clone.Fields[key] = normalized
		}
		if clone != nil {
			out = append(out, *clone)
			modified++
		} else {
			out = append(out, row)
		}
	}
	return Result{Rows: out, Modified: modified}
}

func normalizeString(s string) string {
	s = strings.TrimSpace(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	s = nonWordOrSpace.ReplaceAllString(s, "")
	return strings.ToLower(s)
}
