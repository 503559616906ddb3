package schema

import (
	"regexp"
	"strings"
	"time"
)

// Layouts tried before the DD/MM/YYYY fallback, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

var dmyPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ParseDate parses a cell as a calendar date: standard layouts first, then
// a DD/MM/YYYY fallback. Unparseable cells fail the coercion; a condition
// referencing them evaluates to false rather than erroring.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		// DD/MM/YYYY fallback for day-first locales. The US layout above
		// wins when both readings are valid, matching native parsing.
		if m := dmyPattern.FindStringSubmatch(s); m != nil {
			day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
			if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
				t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				if t.Day() == day && int(t.Month()) == month {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// DaySpan is the inclusive day count between two dates: the ceiling of the
// millisecond difference over a day.
func DaySpan(min, max time.Time) int {
	diff := max.Sub(min)
	if diff <= 0 {
		return 0
	}
	days := diff.Hours() / 24
	span := int(days)
	if days > float64(span) {
		span++
	}
	return span
}
