// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"fmt"
)

// ErrValueNotSet is returned by Read when the underlying Reader
// did not produce a value.
var ErrValueNotSet = errors.New("value not set")

// Value represents a configuration value which may or may not be set.
type Value[T any] struct {
	v   T
	set bool
}

// ValueOf returns a Value which is set to v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Value returns the underlying value and whether or not it has been set.
func (v Value[T]) Value() (T, bool) {
	return v.v, v.set
}

// Reader represents a source of a single configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a functional implementation of Reader.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the Reader interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// ReaderOf returns a Reader which always returns v as a set value.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// Read reads the value from r. A value which is not set
// is reported as ErrValueNotSet.
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T
	val, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := val.Value()
	if !ok {
		return zero, ErrValueNotSet
	}
	return v, nil
}

// Must is the same as Read but panics if an error occurs or the
// value is not set.
func Must[T any](ctx context.Context, r Reader[T]) T {
	v, err := Read(ctx, r)
	if err != nil {
		panic(fmt.Sprintf("failed to read config value: %s", err))
	}
	return v
}

// MustOr returns def if r does not produce a value. It still
// panics if r fails.
func MustOr[T any](ctx context.Context, def T, r Reader[T]) T {
	return Must(ctx, Default(def, r))
}

// Default returns a Reader which substitutes def when r does not
// produce a value. Errors from r are propagated as is, so a present
// but invalid value is still reported.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		if _, ok := val.Value(); ok {
			return val, nil
		}
		return ValueOf(def), nil
	})
}

// OrElse returns a Reader which substitutes def whenever r fails or
// does not produce a value. The returned Reader never fails.
func OrElse[T any](def T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return ValueOf(def), nil
		}
		if _, ok := val.Value(); !ok {
			return ValueOf(def), nil
		}
		return val, nil
	})
}

// Or returns the first set value from the given readers, tried in order.
// The first error encountered is returned immediately.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			val, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := val.Value(); ok {
				return val, nil
			}
		}
		return Value[T]{}, nil
	})
}

// MapValue transforms the value read by r with f. An unset value is
// passed through without calling f.
func MapValue[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := val.Value()
		if !ok {
			return Value[B]{}, nil
		}
		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// Bind uses the value read by r to select the next Reader. An unset
// value is passed through without calling f.
func Bind[A, B any](r Reader[A], f func(context.Context, A) Reader[B]) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		val, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := val.Value()
		if !ok {
			return Value[B]{}, nil
		}
		return f(ctx, a).Read(ctx)
	})
}
