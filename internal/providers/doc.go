// Package providers implements the tool providers registered with the
// service registry.
//
// Each provider wraps one engine family behind the standardized
// tool-based interface:
//   - table: filtering, aggregation, pivot, type inference, formulas
//   - stats: descriptive and advanced statistics
//   - clean: missing values, duplicates, outliers, text, coercion
//   - validate: rule-based validation and rule suggestion
//   - ml: regression and classification
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and context
package providers
