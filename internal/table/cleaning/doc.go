// Package cleaning implements bulk data repair: missing-value imputation,
// duplicate removal, outlier remediation, text normalization and type
// coercion. Every operation returns a new row slice; callers never observe
// in-place mutation of their input.
package cleaning
