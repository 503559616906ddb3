// Package monitoring provides Prometheus metrics for the HTTP surface
// and per-tool execution counters, durations, and row volumes.
//
// Expose via the standard endpoint:
//
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
package monitoring
