// Package middleware provides the HTTP middleware stack: CORS with
// configurable origins and per-IP token bucket rate limiting.
package middleware
