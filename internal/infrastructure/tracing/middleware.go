package tracing

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HTTPMiddleware opens a span per request. An incoming X-Trace-ID joins the
// caller's trace; the IDs are echoed in the response headers.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if traceID := c.GetHeader(TraceHeader); traceID != "" {
			ctx = context.WithValue(ctx, traceIDKey, TraceID(traceID))
		}
		if parentID := c.GetHeader(SpanHeader); parentID != "" {
			ctx = context.WithValue(ctx, spanIDKey, SpanID(parentID))
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, string(span.TraceID))
		c.Header(SpanHeader, string(span.SpanID))

		c.Next()

		span.SetStatus(c.Writer.Status())
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}
