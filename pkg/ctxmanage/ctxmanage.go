package ctxmanage

import (
	"github.com/gin-gonic/gin"
)

// TraceIDKey is the gin context key under which the logger middleware stores
// the per-request trace id.
const TraceIDKey = "trace_id"

// GetTraceIdOfRequest returns the trace id set by the logger middleware, or
// an empty string when the middleware did not run.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Get(TraceIDKey)
	if !ok {
		return ""
	}
	id, ok := traceId.(string)
	if !ok {
		return ""
	}
	return id
}
