package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures one tool execution
type Timer struct {
	start   time.Time
	metrics *Metrics
	service string
	tool    string
	rows    int
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, service, tool string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		service: service,
		tool:    tool,
	}
}

// SetRows records the input row count for the rows histogram.
func (t *Timer) SetRows(rows int) {
	t.rows = rows
}

// Stop stops the timer and records the execution
func (t *Timer) Stop(status string) {
	duration := time.Since(t.start)
	t.metrics.RecordToolCall(t.service, t.tool, status, duration, t.rows)
}
