// Package http provides the HTTP handlers for the REST API.
//
// Endpoints:
//   - Health: / and /health
//   - Services: /services, /services/discover, /services/execute
//   - Metrics: /metrics (Prometheus)
package http
