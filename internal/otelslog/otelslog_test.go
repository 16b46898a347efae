// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type record struct {
	Message string `json:"msg"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is invalid", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil)))

			log.InfoContext(context.Background(), "test")

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			require.NoError(t, err)
			assert.Equal(t, "test", r.Message)
			assert.Empty(t, r.OTel.TraceID)
			assert.Empty(t, r.OTel.SpanID)
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil)))

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			log.InfoContext(ctx, "test")
			span.End()

			var r record
			err := json.Unmarshal(buf.Bytes(), &r)
			require.NoError(t, err)
			assert.Equal(t, span.SpanContext().TraceID().String(), r.OTel.TraceID)
			assert.Equal(t, span.SpanContext().SpanID().String(), r.OTel.SpanID)
		})
	})

	t.Run("will record span events", func(t *testing.T) {
		t.Run("if the record level is at least the event level", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil)))

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			log.InfoContext(ctx, "not an event")
			log.WarnContext(ctx, "invalid config variable")
			span.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)

			events := spans[0].Events()
			require.Len(t, events, 1)
			assert.Equal(t, "invalid config variable", events[0].Name)
		})

		t.Run("with a custom event level", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), EventLevel(slog.LevelInfo)))

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

			ctx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			log.With(slog.String("component", "test")).InfoContext(ctx, "read config variable")
			span.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			require.Len(t, spans[0].Events(), 1)
		})
	})
}
