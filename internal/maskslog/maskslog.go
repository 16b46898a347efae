// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which masks attributes by key.
package maskslog

import (
	"context"
	"log/slog"
)

// MaskFunc replaces an attribute before it is handled.
type MaskFunc func(slog.Attr) slog.Attr

// Option helps configure the Handler.
type Option func(*Handler)

// Attr registers f for masking every attribute with the given key.
func Attr(key string, f MaskFunc) Option {
	return func(h *Handler) {
		h.masks[key] = f
	}
}

// Keys masks every attribute with one of the given keys using Anonymous.
func Keys(keys ...string) Option {
	return func(h *Handler) {
		for _, key := range keys {
			h.masks[key] = Anonymous
		}
	}
}

// Anonymous replaces the value of a with the string "****",
// regardless of its original kind.
func Anonymous(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// Handler is an slog.Handler which masks attributes before
// passing records on to another slog.Handler.
type Handler struct {
	slog  slog.Handler
	masks map[string]MaskFunc
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	mh := &Handler{
		slog:  h,
		masks: make(map[string]MaskFunc),
	}
	for _, opt := range opts {
		opt(mh)
	}
	return mh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.masks) == 0 {
		return h.slog.Handle(ctx, record)
	}

	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, nr)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &Handler{
		slog:  h.slog.WithAttrs(masked),
		masks: h.masks,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:  h.slog.WithGroup(name),
		masks: h.masks,
	}
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	if f, ok := h.masks[a.Key]; ok {
		return f(a)
	}

	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return a
	}

	group := a.Value.Group()
	masked := make([]slog.Attr, len(group))
	for i, ga := range group {
		masked[i] = h.mask(ga)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
}
