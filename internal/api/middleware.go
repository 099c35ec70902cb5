package api

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDMiddleware reuses the caller's X-Request-Id or assigns a new one, makes it available
// to handlers and their context, echoes it back and logs the finished request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if strings.TrimSpace(rid) == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, rid))
		c.Writer.Header().Set(RequestIDHeader, rid)

		start := time.Now()
		c.Next()

		log.Printf("[req] id=%s method=%s path=%s status=%d latency=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// GetRequestID extracts the request ID from a standard context.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// requestLogger prefixes log lines with the request id and operation name.
type requestLogger struct {
	requestID string
}

func newRequestLogger(ctx context.Context) requestLogger {
	rid := GetRequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return requestLogger{requestID: rid}
}

func (l requestLogger) Infof(operation, format string, args ...any) {
	log.Printf("[info] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}

func (l requestLogger) Errorf(operation, format string, args ...any) {
	log.Printf("[error] request_id=%s operation=%s "+format, append([]any{l.requestID, operation}, args...)...)
}
