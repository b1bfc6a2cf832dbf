package logger

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

// newOTelExportHandler bridges records to the global OTel logger provider.
// Trace correlation travels in the record context, so only request fields are added.
func newOTelExportHandler(serviceName, version string) slog.Handler {
	bridge := otelslog.NewHandler(
		serviceName,
		otelslog.WithVersion(version),
		otelslog.WithLoggerProvider(global.GetLoggerProvider()),
	)
	return &ContextFieldsHandler{inner: bridge}
}

// fanoutHandler writes every record to each handler that accepts its level.
// A failing handler does not stop the others; their errors are joined.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, inner := range h.handlers {
		if inner.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, inner := range h.handlers {
		if !inner.Enabled(ctx, r.Level) {
			continue
		}
		if err := inner.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *fanoutHandler) derive(fn func(slog.Handler) slog.Handler) *fanoutHandler {
	derived := make([]slog.Handler, len(h.handlers))
	for i, inner := range h.handlers {
		derived[i] = fn(inner)
	}
	return &fanoutHandler{handlers: derived}
}
