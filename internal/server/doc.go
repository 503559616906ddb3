// Package server wires the HTTP surface together.
//
// It builds the Gin router, installs the middleware stack (recovery,
// metrics, CORS, rate limiting), registers the tool providers with the
// service registry, and owns the http.Server lifecycle including
// graceful shutdown.
package server
