package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Empty reports whether a cell holds no value: nil or a blank string.
func Empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// Number coerces a cell to float64. Booleans become 1/0, numeric strings
// are parsed, blank strings and everything else fail the coercion. A false
// second return means the value must be excluded, never treated as NaN.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Text renders a cell as its string form. Floats drop trailing zeros so
// 3.0 and "3" group and match identically.
func Text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		// Structured cells (decoded JSON objects, slices) must stay
		// distinguishable from empty in search and grouping keys.
		return fmt.Sprintf("%v", v)
	}
}

// Bool recognizes boolean cells from the fixed token set. Accepted truthy
// tokens: true/1/yes/y/sí/s; falsy: false/0/no/n.
func Bool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes", "y", "sí", "s":
			return true, true
		case "false", "0", "no", "n":
			return false, true
		}
	case float64:
		if b == 1 {
			return true, true
		}
		if b == 0 {
			return false, true
		}
	}
	return false, false
}

// Round2 rounds to two decimal places, the precision every numeric engine
// result is reported at.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds to one decimal place (completeness and frequency shares).
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
