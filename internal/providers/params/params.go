// Package params decodes loosely typed tool parameters into the typed
// request structs the engines consume.
package params

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/gridforge/tabular/internal/table/schema"
)

// Decode re-marshals a parameter map into a typed request. Unknown keys
// are ignored; type mismatches surface as an error naming the field.
func Decode[T any](raw map[string]interface{}) (T, error) {
	var out T
	data, err := sonic.Marshal(raw)
	if err != nil {
		return out, fmt.Errorf("encode params: %w", err)
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode params: %w", err)
	}
	return out, nil
}

// EnsureIDs assigns a synthetic ID to any row that arrived without one.
func EnsureIDs(rows []schema.Row) []schema.Row {
	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = uuid.New().String()
		}
		if rows[i].Fields == nil {
			rows[i].Fields = make(map[string]any)
		}
	}
	return rows
}

// CheckRows enforces the configured row and cell ceilings. Zero limits
// disable the check.
func CheckRows(rows []schema.Row, columns int, maxRows, maxCells int) error {
	if maxRows > 0 && len(rows) > maxRows {
		return fmt.Errorf("row count %d exceeds limit %d", len(rows), maxRows)
	}
	if maxCells > 0 && columns > 0 && len(rows)*columns > maxCells {
		return fmt.Errorf("cell count %d exceeds limit %d", len(rows)*columns, maxCells)
	}
	return nil
}
