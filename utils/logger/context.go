package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	OperationKey ContextKey = "operation"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// RequestIDFrom returns the request ID stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

func contextFields(ctx context.Context, withTrace bool) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("request_id", v))
	}
	if v, ok := ctx.Value(OperationKey).(string); ok && v != "" {
		attrs = append(attrs, slog.String("operation", v))
	}
	if withTrace {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			attrs = append(attrs,
				slog.String("trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
				slog.Bool("trace_sampled", sc.IsSampled()),
			)
		}
	}
	return attrs
}

// ContextFieldsHandler adds request_id and operation from the record's
// context and, for the stdout handler, the trace and span IDs.
type ContextFieldsHandler struct {
	inner     slog.Handler
	withTrace bool
}

func NewContextFieldsHandler(inner slog.Handler) *ContextFieldsHandler {
	return &ContextFieldsHandler{inner: inner, withTrace: true}
}

func (h *ContextFieldsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextFieldsHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := contextFields(ctx, h.withTrace); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextFieldsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextFieldsHandler{inner: h.inner.WithAttrs(attrs), withTrace: h.withTrace}
}

func (h *ContextFieldsHandler) WithGroup(name string) slog.Handler {
	return &ContextFieldsHandler{inner: h.inner.WithGroup(name), withTrace: h.withTrace}
}
