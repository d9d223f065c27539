/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span. Trace context travels in the X-Trace-ID and
X-Span-ID headers: incoming values join the caller's trace, and the
generation client forwards them to the upstream model so a render can be
followed across services. Finished spans are logged by a buffered collector.

	tracer := tracing.New("studio", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
