package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/infrastructure/logging"
)

const (
	// TraceHeader carries the trace ID across process boundaries
	TraceHeader = "X-Trace-ID"
	// SpanHeader carries the caller's span ID
	SpanHeader = "X-Span-ID"

	spanBuffer = 1000
)

// TraceID represents a unique trace identifier
type TraceID string

// SpanID represents a unique span identifier
type SpanID string

// Span represents a single operation in a trace
type Span struct {
	TraceID    TraceID
	SpanID     SpanID
	ParentID   SpanID
	Name       string
	Service    string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Tags       map[string]string
	Error      error
	StatusCode int
}

// Tracer hands out spans and logs them once finished
type Tracer struct {
	service string
	logger  *logging.Logger
	spans   chan *Span
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// New creates a tracer and starts its collector
func New(service string, logger *logging.Logger) *Tracer {
	if logger == nil {
		logger = logging.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger.Named("tracing"),
		spans:   make(chan *Span, spanBuffer),
		done:    make(chan struct{}),
	}

	go t.collectSpans()
	return t
}

// StartSpan creates a child of the span in ctx, or a new trace root
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = TraceID(uuid.NewString())
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    SpanID(uuid.NewString()),
		ParentID:  GetSpanID(ctx),
		Name:      name,
		Service:   t.service,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}

	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
	if s.StatusCode == 0 {
		s.StatusCode = 500
	}
}

// SetStatus sets the HTTP status code
func (s *Span) SetStatus(code int) {
	s.StatusCode = code
}

func (t *Tracer) collectSpans() {
	defer close(t.done)
	for span := range t.spans {
		t.processSpan(span)
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := []zap.Field{
		zap.String("traceId", string(span.TraceID)),
		zap.String("spanId", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.String("service", span.Service),
	}
	if span.ParentID != "" {
		fields = append(fields, zap.String("parentId", string(span.ParentID)))
	}
	if span.StatusCode != 0 {
		fields = append(fields, zap.Int("status", span.StatusCode))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if span.Error != nil {
		fields = append(fields, zap.Error(span.Error))
		t.logger.Error("Span completed with error", fields...)
		return
	}
	t.logger.Debug("Span completed", fields...)
}

// Submit hands a finished span to the collector. Spans are dropped when the
// buffer is full or the tracer is closed.
func (t *Tracer) Submit(span *Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("Span buffer full, dropping span",
			zap.String("traceId", string(span.TraceID)),
			zap.String("spanId", string(span.SpanID)))
	}
}

// Close stops the collector after draining buffered spans
func (t *Tracer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.spans)
	t.mu.Unlock()

	<-t.done
}

// InjectTraceContext copies the trace context of ctx into headers
func InjectTraceContext(ctx context.Context, headers map[string]string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		headers[TraceHeader] = string(traceID)
	}
	if spanID := GetSpanID(ctx); spanID != "" {
		headers[SpanHeader] = string(spanID)
	}
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) TraceID {
	traceID, _ := ctx.Value(traceIDKey).(TraceID)
	return traceID
}

// GetSpanID retrieves the span ID from context
func GetSpanID(ctx context.Context) SpanID {
	spanID, _ := ctx.Value(spanIDKey).(SpanID)
	return spanID
}

// FormatTrace returns a formatted trace string for logging
func FormatTrace(traceID TraceID, spanID SpanID) string {
	return fmt.Sprintf("[trace:%s span:%s]", traceID, spanID)
}
