package validate

import (
	"strings"

	"github.com/gridforge/tabular/internal/table/schema"
)

const (
	emailShareThreshold = 0.8
	fillRateThreshold   = 0.95
	rangePadding        = 0.1
)

var phoneKeyHints = []string{"phone", "telefono", "tel"}

// SuggestRules inspects column contents and proposes a starter rule set:
// columns that look like emails get a format rule, phone-named columns a
// phone warning, nearly-full columns a required rule, and non-negative
// numeric columns a padded range.
func SuggestRules(rows []schema.Row, columns []schema.Column) []Rule {
	var rules []Rule
	for _, col := range columns {
		filled := 0
		emails := 0
		numeric := 0
		allNonNegative := true
		min, max := 0.0, 0.0

		for _, row := range rows {
			v := row.Get(col.Key)
			if schema.Empty(v) {
				continue
			}
			filled++
			text := schema.Text(v)
			if emailPattern.MatchString(text) {
				emails++
			}
			if n, ok := schema.Number(v); ok {
				if numeric == 0 {
					min, max = n, n
				} else {
					if n < min {
						min = n
					}
					if n > max {
						max = n
					}
				}
				numeric++
				if n < 0 {
					allNonNegative = false
				}
			}
		}

		if filled > 0 && float64(emails)/float64(filled) > emailShareThreshold {
			rules = append(rules, Rule{
				Column:   col.Key,
				Type:     RuleFormat,
				Format:   FormatEmail,
				Severity: SeverityError,
			})
		}
		if keyHints(col.Key, phoneKeyHints) {
			rules = append(rules, Rule{
				Column:   col.Key,
				Type:     RuleFormat,
				Format:   FormatPhone,
				Severity: SeverityWarning,
			})
		}
		if len(rows) > 0 && float64(filled)/float64(len(rows)) > fillRateThreshold {
			rules = append(rules, Rule{
				Column:   col.Key,
				Type:     RuleRequired,
				Severity: SeverityError,
			})
		}
		if col.Type == schema.TypeNumber && numeric > 0 && allNonNegative {
			lo := schema.Round2(min * (1 - rangePadding))
			hi := schema.Round2(max * (1 + rangePadding))
			rules = append(rules, Rule{
				Column:   col.Key,
				Type:     RuleRange,
				Min:      &lo,
				Max:      &hi,
				Severity: SeverityWarning,
			})
		}
	}
	return rules
}

func keyHints(key string, hints []string) bool {
	lower := strings.ToLower(key)
	for _, h := range hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}
