// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"os"
	"strings"
)

// Environ is a source of environment variables.
type Environ interface {
	LookupEnv(name string) (string, bool)
}

// EnvironFunc is a functional implementation of Environ.
type EnvironFunc func(string) (string, bool)

// LookupEnv implements the Environ interface.
func (f EnvironFunc) LookupEnv(name string) (string, bool) {
	return f(name)
}

type osEnviron struct{}

func (osEnviron) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

// OS is the Environ of the current process.
var OS Environ = osEnviron{}

// Map is an ordinary map[string]string but implements the Environ interface.
type Map map[string]string

// LookupEnv implements the Environ interface.
func (m Map) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// MapOf parses "KEY=VALUE" pairs, as returned by os.Environ, into a Map.
// Pairs without a "=" are skipped.
func MapOf(pairs []string) Map {
	m := make(Map, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

type layered []Environ

func (l layered) LookupEnv(name string) (string, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		v, ok := l[i].LookupEnv(name)
		if ok {
			return v, true
		}
	}
	return "", false
}

// Layered combines multiple Environs into one.
// Subsequent environs override previous environs.
func Layered(envs ...Environ) Environ {
	return layered(envs)
}

type environCtxKey struct{}

// WithEnviron returns a copy of ctx carrying env. Every Reader created by
// Env will look variables up in env instead of the process environment.
func WithEnviron(ctx context.Context, env Environ) context.Context {
	return context.WithValue(ctx, environCtxKey{}, env)
}

// EnvironFromContext returns the Environ carried by ctx or OS if none is set.
func EnvironFromContext(ctx context.Context) Environ {
	env, ok := ctx.Value(environCtxKey{}).(Environ)
	if !ok || env == nil {
		return OS
	}
	return env
}

// Env returns a Reader for the environment variable with the given name.
// A variable which is not present is reported as an unset value; a variable
// which is present but empty is set to the empty string.
func Env(name string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, ok := EnvironFromContext(ctx).LookupEnv(name)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}
