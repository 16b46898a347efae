// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/z5labs/envdef/internal/try"
)

const instrumentationName = "github.com/z5labs/envdef/config"

// Result is the outcome of checking a single field.
type Result struct {
	Var Var
	Err error
}

// SetOption configures a Set.
type SetOption func(*Set)

// WithLogger sets the logger used to report each checked variable.
// Values are never logged. By default nothing is logged.
func WithLogger(logger *slog.Logger) SetOption {
	return func(s *Set) {
		s.log = logger
	}
}

// WithTracerProvider sets the trace.TracerProvider used to trace Init.
// It defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) SetOption {
	return func(s *Set) {
		s.tracer = tp.Tracer(instrumentationName)
	}
}

// Set is an ordered collection of configuration fields which are
// checked together so every problem can be reported at once.
type Set struct {
	fields []Checker
	log    *slog.Logger
	tracer trace.Tracer
}

// NewSet returns a Set of the given fields, kept in order.
func NewSet(fields []Checker, opts ...SetOption) *Set {
	s := &Set{
		fields: fields,
		log:    slog.New(discardHandler{}),
		tracer: otel.GetTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vars returns the descriptions of every field in the Set.
func (s *Set) Vars() []Var {
	vars := make([]Var, len(s.fields))
	for i, f := range s.fields {
		vars[i] = f.Var()
	}
	return vars
}

// Results checks every field, in order, and returns their outcome.
//
// Fields using Cached are read for the first time by Results, so
// their values are fixed from then on even if the environment changes.
func (s *Set) Results(ctx context.Context) []Result {
	results := make([]Result, len(s.fields))
	for i, f := range s.fields {
		v := f.Var()
		err := check(ctx, f)
		results[i] = Result{Var: v, Err: err}

		if err != nil {
			s.log.WarnContext(ctx, "invalid config variable", slog.String("var", v.Name), slog.Any("error", err))
			continue
		}
		s.log.DebugContext(ctx, "read config variable", slog.String("var", v.Name))
	}
	return results
}

func check(ctx context.Context, c Checker) (err error) {
	defer func() {
		var verr VarError
		if errors.As(err, &verr) && verr.Var.Name == c.Var().Name {
			err = verr.Cause
		}
	}()
	defer try.Recover(&err)

	return c.Check(ctx)
}

// Init checks every field and returns an *InitError
// describing all of them if any field is invalid.
func (s *Set) Init(ctx context.Context) error {
	spanCtx, span := s.tracer.Start(ctx, "Set.Init")
	defer span.End()

	ierr := newInitError(s.Results(spanCtx))
	span.SetAttributes(
		attribute.Int("config.vars.valid", len(ierr.Valid)),
		attribute.Int("config.vars.invalid", len(ierr.Invalid)),
	)
	if len(ierr.Invalid) == 0 {
		return nil
	}
	span.RecordError(ierr)
	span.SetStatus(codes.Error, "invalid configuration")
	return ierr
}

// MustInit is the same as Init but panics if any field is invalid.
func (s *Set) MustInit(ctx context.Context) {
	err := s.Init(ctx)
	if err != nil {
		panic(err)
	}
}

// Describe writes the description of every variable in the Set to w,
// one per line.
func (s *Set) Describe(w io.Writer) error {
	for _, v := range s.Vars() {
		_, err := fmt.Fprintf(w, "- %s\n", v)
		if err != nil {
			return err
		}
	}
	return nil
}

// InitError aggregates the outcome of checking a whole Set.
type InitError struct {
	Valid   []Var
	Invalid []VarError
}

func newInitError(results []Result) *InitError {
	ierr := &InitError{}
	for _, res := range results {
		if res.Err != nil {
			ierr.Invalid = append(ierr.Invalid, VarError{Var: res.Var, Cause: res.Err})
			continue
		}
		ierr.Valid = append(ierr.Valid, res.Var)
	}
	return ierr
}

// Error implements the error interface. The message lists incorrect
// and valid variables followed by the description of all of them.
func (e *InitError) Error() string {
	var sb strings.Builder
	sb.WriteString("Error during configuration initialization:\n")

	fmt.Fprintf(&sb, "Got %d incorrect variable%s\n", len(e.Invalid), plural(len(e.Invalid)))
	for _, verr := range e.Invalid {
		fmt.Fprintf(&sb, "- %s\n", verr)
	}

	fmt.Fprintf(&sb, "Got %d valid variable%s\n", len(e.Valid), plural(len(e.Valid)))
	for _, v := range e.Valid {
		fmt.Fprintf(&sb, "- `%s`\n", v.Name)
	}

	sb.WriteString("Full required environment description:\n")
	for _, verr := range e.Invalid {
		fmt.Fprintf(&sb, "- %s\n", verr.Var)
	}
	for _, v := range e.Valid {
		fmt.Fprintf(&sb, "- %s\n", v)
	}
	return sb.String()
}

// Unwrap returns the error of every invalid variable.
func (e *InitError) Unwrap() []error {
	errs := make([]error, len(e.Invalid))
	for i, verr := range e.Invalid {
		errs[i] = verr
	}
	return errs
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// NilFieldError occurs when a configuration struct contains
// a Checker field which has not been initialized.
type NilFieldError struct {
	Path string
}

// Error implements the error interface.
func (e NilFieldError) Error() string {
	return fmt.Sprintf("config field is nil: %s", e.Path)
}

// InvalidTargetError occurs when Collect is given something
// other than a struct or a pointer to one.
type InvalidTargetError struct {
	Type reflect.Type
}

// Error implements the error interface.
func (e InvalidTargetError) Error() string {
	return fmt.Sprintf("config target must be a struct or a pointer to a struct: %v", e.Type)
}

var checkerType = reflect.TypeOf((*Checker)(nil)).Elem()

// Collect returns a Set of every Checker found in the exported fields of v,
// which must be a struct or a pointer to one. Nested and embedded structs
// are walked recursively and their fields are added in declaration order.
// Nil pointers to nested structs are skipped, nil Checker fields are an
// error. A struct reached twice through the same pointer is only walked once.
func Collect(v any, opts ...SetOption) (*Set, error) {
	c := &collector{visited: make(map[visit]bool)}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		c.visit(rv)
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, InvalidTargetError{Type: reflect.TypeOf(v)}
	}

	err := c.collect(rv, rv.Type().Name())
	if err != nil {
		return nil, err
	}
	return NewSet(c.fields, opts...), nil
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

type collector struct {
	fields  []Checker
	visited map[visit]bool
}

// visit reports whether the pointer p is seen for the first time.
func (c *collector) visit(p reflect.Value) bool {
	key := visit{ptr: p.Pointer(), typ: p.Type()}
	if c.visited[key] {
		return false
	}
	c.visited[key] = true
	return true
}

func (c *collector) collect(rv reflect.Value, path string) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		fv := rv.Field(i)
		fpath := path + "." + sf.Name

		if sf.Type.Implements(checkerType) {
			if !sf.IsExported() {
				continue
			}
			if isNil(fv) {
				return NilFieldError{Path: fpath}
			}
			c.fields = append(c.fields, fv.Interface().(Checker))
			continue
		}

		switch {
		case fv.Kind() == reflect.Struct:
			err := c.collect(fv, fpath)
			if err != nil {
				return err
			}
		case fv.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct && !fv.IsNil():
			if !c.visit(fv) {
				continue
			}
			err := c.collect(fv.Elem(), fpath)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// Init collects the fields of v, see Collect, and checks them all.
func Init(ctx context.Context, v any, opts ...SetOption) error {
	s, err := Collect(v, opts...)
	if err != nil {
		return err
	}
	return s.Init(ctx)
}

// MustInit is the same as Init but panics on failure.
func MustInit(ctx context.Context, v any, opts ...SetOption) {
	err := Init(ctx, v, opts...)
	if err != nil {
		panic(err)
	}
}

// Describe writes the description of every variable declared by v to w.
func Describe(w io.Writer, v any) error {
	s, err := Collect(v)
	if err != nil {
		return err
	}
	return s.Describe(w)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
