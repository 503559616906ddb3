package schema

import "github.com/google/uuid"

// Type classifies a column's values.
type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
)

// Column describes one field of a dataset. The key is the unique identifier
// used for row access; the label is what a host displays.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  Type   `json:"type"`
}

// Row is a single record: a synthetic identifier plus one value per column
// key. Values are loosely typed (string, float64, bool, date-like string);
// engines coerce through the helpers in this package.
type Row struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// NewRow creates a row with a fresh synthetic ID.
func NewRow(fields map[string]any) Row {
	if fields == nil {
		fields = make(map[string]any)
	}
	return Row{ID: uuid.New().String(), Fields: fields}
}

// Clone returns a deep copy of the row's field map. Engines that transform
// rows work on clones so callers never observe in-place mutation.
func (r Row) Clone() Row {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// Get returns the cell value for a column key.
func (r Row) Get(key string) any {
	return r.Fields[key]
}

// Dataset is one sheet's worth of data: an ordered schema plus rows.
type Dataset struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Book is a multi-sheet dataset. Only the active sheet is live in the
// engines; switching sheets replaces the working dataset wholesale.
type Book struct {
	Order  []string            `json:"order"`
	Sheets map[string]*Dataset `json:"sheets"`
	Active string              `json:"active"`
}

// ActiveSheet returns the live dataset, or nil if the book is empty.
func (b *Book) ActiveSheet() *Dataset {
	if b == nil || b.Sheets == nil {
		return nil
	}
	return b.Sheets[b.Active]
}
