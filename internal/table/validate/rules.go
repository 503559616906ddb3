package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gridforge/tabular/internal/table/schema"
)

// RuleType identifies what a rule checks.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleFormat    RuleType = "format"
	RuleRange     RuleType = "range"
	RuleLength    RuleType = "length"
	RulePattern   RuleType = "pattern"
	RuleEnum      RuleType = "enum"
	RuleUnique    RuleType = "unique"
	RuleDateRange RuleType = "date_range"
)

// Severity grades a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Format names the built-in format checks.
type Format string

const (
	FormatEmail Format = "email"
	FormatPhone Format = "phone"
	FormatURL   Format = "url"
	FormatDate  Format = "date"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{7,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s]+$`)
)

// ErrNoRules is returned when a validation run is requested with nothing
// to check.
var ErrNoRules = errors.New("no validation rules to run")

// Rule is a stateless validation recipe for one column.
type Rule struct {
	Column   string   `json:"column"`
	Type     RuleType `json:"type"`
	Severity Severity `json:"severity"`

	Format   Format   `json:"format,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	Flags    string   `json:"flags,omitempty"`
	Allowed  []any    `json:"allowed,omitempty"`
	MinDate  string   `json:"min_date,omitempty"`
	MaxDate  string   `json:"max_date,omitempty"`
}

// compiledRule carries per-run state derived once before row iteration.
type compiledRule struct {
	Rule
	re       *regexp.Regexp
	minDate  *time.Time
	maxDate  *time.Time
	enumSet  map[string]struct{}
	dupes    map[string]int
}

// compile validates rule configuration up front: a malformed user pattern
// or date bound is caller input, reported as a typed failure rather than
// silently skipped.
func compile(rules []Rule, rows []schema.Row) ([]compiledRule, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		cr := compiledRule{Rule: rule}
		if rule.Severity == "" {
			cr.Severity = SeverityError
		}

		switch rule.Type {
		case RulePattern:
			expr := rule.Pattern
			if strings.Contains(rule.Flags, "i") {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, rule.Pattern, err)
			}
			cr.re = re
		case RuleEnum:
			cr.enumSet = make(map[string]struct{}, len(rule.Allowed))
			for _, v := range rule.Allowed {
				cr.enumSet[strings.ToLower(schema.Text(v))] = struct{}{}
			}
		case RuleDateRange:
			if rule.MinDate != "" {
				d, ok := schema.ParseDate(rule.MinDate)
				if !ok {
					return nil, fmt.Errorf("rule %d: invalid min date %q", i, rule.MinDate)
				}
				cr.minDate = &d
			}
			if rule.MaxDate != "" {
				d, ok := schema.ParseDate(rule.MaxDate)
				if !ok {
					return nil, fmt.Errorf("rule %d: invalid max date %q", i, rule.MaxDate)
				}
				cr.maxDate = &d
			}
		case RuleUnique:
			cr.dupes = make(map[string]int)
			for _, row := range rows {
				v := row.Get(rule.Column)
				if schema.Empty(v) {
					continue
				}
				cr.dupes[schema.Text(v)]++
			}
		case RuleRequired, RuleFormat, RuleRange, RuleLength:
			// No precomputation.
		default:
			return nil, fmt.Errorf("rule %d: unknown type %q", i, rule.Type)
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// check evaluates one rule against one cell. Empty cells only fail the
// required rule; every other check is skipped for them so that emptiness
// is reported once, not once per rule.
func (cr *compiledRule) check(cell any) (bool, string) {
	if cr.Type == RuleRequired {
		if schema.Empty(cell) {
			return false, "value is required"
		}
		return true, ""
	}
	if schema.Empty(cell) {
		return true, ""
	}

	text := schema.Text(cell)
	switch cr.Type {
	case RuleFormat:
		return cr.checkFormat(text)
	case RuleRange:
		n, ok := schema.Number(cell)
		if !ok {
			return false, fmt.Sprintf("%q is not numeric", text)
		}
		if cr.Min != nil && n < *cr.Min {
			return false, fmt.Sprintf("%v is below minimum %v", n, *cr.Min)
		}
		if cr.Max != nil && n > *cr.Max {
			return false, fmt.Sprintf("%v is above maximum %v", n, *cr.Max)
		}
	case RuleLength:
		l := float64(len(text))
		if cr.Min != nil && l < *cr.Min {
			return false, fmt.Sprintf("length %d is below minimum %v", len(text), *cr.Min)
		}
		if cr.Max != nil && l > *cr.Max {
			return false, fmt.Sprintf("length %d is above maximum %v", len(text), *cr.Max)
		}
	case RulePattern:
		if !cr.re.MatchString(text) {
			return false, fmt.Sprintf("%q does not match pattern", text)
		}
	case RuleEnum:
		if _, ok := cr.enumSet[strings.ToLower(text)]; !ok {
			return false, fmt.Sprintf("%q is not an allowed value", text)
		}
	case RuleUnique:
		if cr.dupes[text] > 1 {
			return false, fmt.Sprintf("%q is duplicated", text)
		}
	case RuleDateRange:
		d, ok := schema.ParseDate(cell)
		if !ok {
			return false, fmt.Sprintf("%q is not a date", text)
		}
		if cr.minDate != nil && d.Before(*cr.minDate) {
			return false, fmt.Sprintf("%s is before %s", text, cr.MinDate)
		}
		if cr.maxDate != nil && d.After(*cr.maxDate) {
			return false, fmt.Sprintf("%s is after %s", text, cr.MaxDate)
		}
	}
	return true, ""
}

func (cr *compiledRule) checkFormat(text string) (bool, string) {
	switch cr.Format {
	case FormatEmail:
		if !emailPattern.MatchString(text) {
			return false, fmt.Sprintf("%q is not a valid email", text)
		}
	case FormatPhone:
		if !phonePattern.MatchString(text) {
			return false, fmt.Sprintf("%q is not a valid phone number", text)
		}
	case FormatURL:
		if !urlPattern.MatchString(text) {
			return false, fmt.Sprintf("%q is not a valid URL", text)
		}
	case FormatDate:
		if _, ok := schema.ParseDate(text); !ok {
			return false, fmt.Sprintf("%q is not a valid date", text)
		}
	}
	return true, ""
}
