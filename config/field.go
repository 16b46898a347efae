// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"strings"
)

// Var describes an environment variable.
type Var struct {
	// Name of the environment variable.
	Name string

	// Description is a short, human readable explanation
	// of what the variable is used for.
	Description string

	// DefaultText is shown to users as the default of the variable.
	// It is purely informational, the actual default is provided
	// by a layer such as Default or OrElse.
	DefaultText string

	// Secret marks variables whose values must never be printed.
	Secret bool
}

// String formats the Var as "`NAME`: description (default: x)".
func (v Var) String() string {
	var sb strings.Builder
	sb.WriteString("`")
	sb.WriteString(v.Name)
	sb.WriteString("`")
	if v.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(v.Description)
	}
	if v.DefaultText != "" {
		sb.WriteString(" (default: ")
		sb.WriteString(v.DefaultText)
		sb.WriteString(")")
	}
	return sb.String()
}

// VarError associates a read failure with the variable it happened for.
type VarError struct {
	Var   Var
	Cause error
}

// Error implements the error interface.
func (e VarError) Error() string {
	return fmt.Sprintf("`%s`: %s", e.Var.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e VarError) Unwrap() error {
	return e.Cause
}

// Checker is implemented by every configuration field so it
// can be validated as part of a Set.
type Checker interface {
	Var() Var
	Check(context.Context) error
}

// Field is a single, described configuration value. Its Reader is always
// built on top of Env for the variable name.
type Field[T any] struct {
	v Var
	r Reader[T]
}

// NewField creates a Field for v. The build function receives the raw
// variable Reader and returns the layered Reader for the field, e.g.
//
//	port := config.NewField(
//	    config.Var{Name: "PORT", Description: "Port to listen on", DefaultText: "8080"},
//	    func(r config.Reader[string]) config.Reader[int] {
//	        return config.Default(8080, config.IntFromString(r))
//	    },
//	)
func NewField[T any](v Var, build func(Reader[string]) Reader[T]) *Field[T] {
	return &Field[T]{
		v: v,
		r: build(Env(v.Name)),
	}
}

// TextField creates a Field for v which returns the raw variable value.
func TextField(v Var) *Field[string] {
	return NewField(v, func(r Reader[string]) Reader[string] {
		return r
	})
}

// Var implements the Checker interface.
func (f *Field[T]) Var() Var {
	return f.v
}

// Read implements the Reader interface.
func (f *Field[T]) Read(ctx context.Context) (Value[T], error) {
	return f.r.Read(ctx)
}

// Check implements the Checker interface. For fields using Cached, Check
// performs the first read so later reads return the same result.
func (f *Field[T]) Check(ctx context.Context) error {
	_, err := f.Get(ctx)
	return err
}

// Get reads the field value. Failures, including a missing value,
// are returned as a VarError.
func (f *Field[T]) Get(ctx context.Context) (T, error) {
	v, err := Read[T](ctx, f.r)
	if err != nil {
		return v, VarError{Var: f.v, Cause: err}
	}
	return v, nil
}

// MustGet is the same as Get but panics on failure.
func (f *Field[T]) MustGet(ctx context.Context) T {
	v, err := Read[T](ctx, f.r)
	if err != nil {
		panic(fmt.Sprintf("couldn't get env var `%s` (expected type `%s`): %s", f.v.Name, typeName[T](), err))
	}
	return v
}

// WithDescription returns a copy of f with the given description.
// The copy shares its Reader, and therefore any cache, with f.
func (f *Field[T]) WithDescription(desc string) *Field[T] {
	nf := *f
	nf.v.Description = desc
	return &nf
}

// WithDefaultText returns a copy of f with the given default text.
// The copy shares its Reader, and therefore any cache, with f.
func (f *Field[T]) WithDefaultText(text string) *Field[T] {
	nf := *f
	nf.v.DefaultText = text
	return &nf
}
