package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceIDKey = "TraceID"

// TraceMiddleware propagates the caller's X-Trace-ID, minting one when the
// request arrives without it. The id is echoed on the response so clients
// can correlate their logs with ours.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(traceIDKey, traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}

// TraceID returns the trace id assigned to this request, or "" before
// TraceMiddleware has run.
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}
