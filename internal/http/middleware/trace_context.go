package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/maiopinion/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"
)

// AttachTraceContext stores request and trace ids on the request context and
// echoes them back. An inbound X-Request-Id is kept; the trace id comes from
// the active span when otelgin runs first, otherwise it reuses the request id.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := ctxutil.IDs{Request: strings.TrimSpace(c.GetHeader(HeaderRequestID))}
		if ids.Request == "" || len(ids.Request) > 128 {
			ids.Request = uuid.NewString()
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			ids.Trace = sc.TraceID().String()
		} else {
			ids.Trace = ids.Request
		}

		c.Request = c.Request.WithContext(ctxutil.With(c.Request.Context(), ids))
		h := c.Writer.Header()
		h.Set(HeaderRequestID, ids.Request)
		h.Set(HeaderTraceID, ids.Trace)
		c.Next()
	}
}
