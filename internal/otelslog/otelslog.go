// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog correlates slog records with the active OpenTelemetry span.
package otelslog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handler is an slog.Handler which adds the trace and span ids of the
// span found in the record context. Records at or above the event level
// are also added to the span as events.
type Handler struct {
	slog       slog.Handler
	eventLevel slog.Level
}

// Option helps configure the Handler.
type Option func(*Handler)

// EventLevel sets the minimum level of records which are recorded as
// span events. It defaults to slog.LevelWarn.
func EventLevel(lvl slog.Level) Option {
	return func(h *Handler) {
		h.eventLevel = lvl
	}
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	oh := &Handler{
		slog:       h,
		eventLevel: slog.LevelWarn,
	}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if record.Level >= h.eventLevel && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(
			attribute.String("log.severity", record.Level.String()),
		))
	}

	r := record.Clone()
	r.AddAttrs(slog.Group(
		"otel",
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	))
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		slog:       h.slog.WithAttrs(attrs),
		eventLevel: h.eventLevel,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:       h.slog.WithGroup(name),
		eventLevel: h.eventLevel,
	}
}
