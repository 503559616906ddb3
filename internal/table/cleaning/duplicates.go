package cleaning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridforge/tabular/internal/table/schema"
)

// KeepStrategy selects which occurrence of a duplicate group survives.
type KeepStrategy string

const (
	KeepFirst        KeepStrategy = "first"
	KeepLast         KeepStrategy = "last"
	KeepMostComplete KeepStrategy = "most_complete"
)

// Deduplicate groups rows by a canonical key over every field except the
// synthetic id and keeps one occurrence per group. Output preserves the
// original relative order of the kept rows; Modified reports how many
// rows were dropped.
func Deduplicate(rows []schema.Row, keep KeepStrategy) Result {
	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, row := range rows {
		key := canonicalKey(row)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	kept := make([]int, 0, len(order))
	for _, key := range order {
		kept = append(kept, pick(rows, groups[key], keep))
	}
	sort.Ints(kept)

	out := make([]schema.Row, 0, len(kept))
	for _, i := range kept {
		out = append(out, rows[i])
	}
	return Result{Rows: out, Modified: len(rows) - len(out)}
}

// canonicalKey joins sorted key:value pairs so column order never affects
// duplicate detection.
func canonicalKey(row schema.Row) string {
	keys := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, schema.Text(row.Fields[k])))
	}
	return strings.Join(parts, "|")
}

func pick(rows []schema.Row, indexes []int, keep KeepStrategy) int {
	switch keep {
	case KeepLast:
		return indexes[len(indexes)-1]
	case KeepMostComplete:
		// Linear scan; ties resolve to the earliest occurrence.
		best := indexes[0]
		bestFilled := filledCount(rows[best])
		for _, i := range indexes[1:] {
			if filled := filledCount(rows[i]); filled > bestFilled {
				best, bestFilled = i, filled
			}
		}
		return best
	default:
		return indexes[0]
	}
}

func filledCount(row schema.Row) int {
	filled := 0
	for _, v := range row.Fields {
		if !schema.Empty(v) {
			filled++
		}
	}
	return filled
}
