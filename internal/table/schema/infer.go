package schema

// InferSampleSize is how many non-empty values are examined per column.
const InferSampleSize = 10

// InferType classifies a column from its sampled values using the
// precedence number → date → boolean → text. The first rule every sampled
// value satisfies wins; a column with no non-empty samples is text.
func InferType(values []any) Type {
	samples := make([]any, 0, InferSampleSize)
	for _, v := range values {
		if Empty(v) {
			continue
		}
		samples = append(samples, v)
		if len(samples) == InferSampleSize {
			break
		}
	}
	if len(samples) == 0 {
		return TypeText
	}

	if allOf(samples, func(v any) bool { _, ok := Number(v); return ok }) {
		return TypeNumber
	}
	if allOf(samples, func(v any) bool { _, ok := ParseDate(v); return ok }) {
		return TypeDate
	}
	if allOf(samples, func(v any) bool { _, ok := Bool(v); return ok }) {
		return TypeBoolean
	}
	return TypeText
}

func allOf(values []any, match func(any) bool) bool {
	for _, v := range values {
		if !match(v) {
			return false
		}
	}
	return true
}

// InferColumns builds a schema for the given keys by sampling the rows.
// Labels default to the key; a host may relabel afterwards. Types are
// immutable for the lifetime of a load.
func InferColumns(keys []string, rows []Row) []Column {
	columns := make([]Column, 0, len(keys))
	for _, key := range keys {
		values := make([]any, 0, len(rows))
		for _, row := range rows {
			values = append(values, row.Get(key))
		}
		columns = append(columns, Column{
			Key:   key,
			Label: key,
			Type:  InferType(values),
		})
	}
	return columns
}
