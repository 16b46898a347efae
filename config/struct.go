// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// UnsupportedEnvironError occurs when a Reader needs to enumerate the
// variables of an Environ which can only be queried one name at a time.
type UnsupportedEnvironError struct {
	Environ Environ
}

// Error implements the error interface.
func (e UnsupportedEnvironError) Error() string {
	return fmt.Sprintf("environ can not be enumerated: %T", e.Environ)
}

// Struct returns a Reader which populates T from `env` struct tags,
// looking variables up in the Environ carried by the context. Only
// variables starting with prefix are considered and the prefix is
// stripped before matching tags.
//
// The value is always set; missing required variables and conversion
// failures are reported together as a single error.
func Struct[T any](prefix string) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		vars, err := environMap(EnvironFromContext(ctx))
		if err != nil {
			return Value[T]{}, err
		}
		v, err := env.ParseAsWithOptions[T](env.Options{
			Environment: vars,
			Prefix:      prefix,
		})
		if err != nil {
			return Value[T]{}, err
		}
		return ValueOf(v), nil
	})
}

// environMap returns nil for OS so the env package falls back to os.Environ.
func environMap(e Environ) (map[string]string, error) {
	switch x := e.(type) {
	case osEnviron:
		return nil, nil
	case Map:
		if x == nil {
			return map[string]string{}, nil
		}
		return x, nil
	case layered:
		m := make(map[string]string)
		for _, sub := range x {
			sm, err := environMap(sub)
			if err != nil {
				return nil, err
			}
			if sm == nil {
				sm = MapOf(os.Environ())
			}
			for k, v := range sm {
				m[k] = v
			}
		}
		return m, nil
	default:
		return nil, UnsupportedEnvironError{Environ: e}
	}
}
