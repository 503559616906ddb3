// Package config provides 12-factor configuration management.
//
// Configuration is loaded from environment variables with sensible
// defaults. CLI flags can override environment variables.
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - LIMIT_MAX_ROWS, LIMIT_MAX_CELLS, LIMIT_SAMPLE_SIZE
package config
