// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema loads YAML documents describing the environment
// variables expected by an application and turns them into config fields.
package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/z5labs/envdef/config"
	"github.com/z5labs/envdef/internal/try"
)

// Type names the Go type a variable is parsed into.
type Type string

// Supported variable types.
const (
	String   Type = "string"
	Int      Type = "int"
	Int64    Type = "int64"
	Float    Type = "float"
	Bool     Type = "bool"
	Duration Type = "duration"
	Strings  Type = "strings"
)

// Variable describes a single environment variable.
type Variable struct {
	Name        string `yaml:"name" json:"name" validate:"required,excludesall=="`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        Type   `yaml:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=string int int64 float bool duration strings"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	File        bool   `yaml:"file,omitempty" json:"file,omitempty"`
	Secret      bool   `yaml:"secret,omitempty" json:"secret,omitempty"`
	Validate    string `yaml:"validate,omitempty" json:"validate,omitempty"`
}

// Var returns the config.Var described by v.
func (v Variable) Var() config.Var {
	return config.Var{
		Name:        v.Name,
		Description: v.Description,
		DefaultText: v.Default,
		Secret:      v.Secret,
	}
}

// Schema is the list of variables an application expects.
type Schema struct {
	Variables []Variable `yaml:"variables" json:"variables" validate:"required,unique=Name,dive"`
}

// InvalidSchemaError occurs when a schema document can not be
// decoded or does not describe a usable set of variables.
type InvalidSchemaError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidSchemaError) Unwrap() error {
	return e.Cause
}

// InvalidDefaultError occurs when the default of a variable can not
// be parsed as the variable type.
type InvalidDefaultError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e InvalidDefaultError) Error() string {
	return fmt.Sprintf("invalid default for %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidDefaultError) Unwrap() error {
	return e.Cause
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load decodes and validates a schema document from r,
// closing r if it is an io.Closer.
func Load(r io.Reader) (_ *Schema, err error) {
	defer try.Close(&err, r)

	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err = dec.Decode(&s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, InvalidSchemaError{Cause: err}
	}

	err = validate.Struct(s)
	if err != nil {
		return nil, InvalidSchemaError{Cause: err}
	}

	for _, v := range s.Variables {
		if v.Default == "" {
			continue
		}
		_, derr := config.Read(context.Background(), parser(v.Type)(config.ReaderOf(v.Default)))
		if derr != nil {
			return nil, InvalidSchemaError{Cause: InvalidDefaultError{Name: v.Name, Cause: derr}}
		}
	}
	return &s, nil
}

// Fields builds a config field for every variable, in order.
func (s *Schema) Fields() []*config.Field[any] {
	fields := make([]*config.Field[any], len(s.Variables))
	for i, v := range s.Variables {
		fields[i] = Field(v)
	}
	return fields
}

// Set returns a config.Set of every variable in the schema.
func (s *Schema) Set(opts ...config.SetOption) *config.Set {
	fields := s.Fields()
	checkers := make([]config.Checker, len(fields))
	for i, f := range fields {
		checkers[i] = f
	}
	return config.NewSet(checkers, opts...)
}

// Secrets returns the names of every secret variable.
func (s *Schema) Secrets() []string {
	var names []string
	for _, v := range s.Variables {
		if v.Secret {
			names = append(names, v.Name)
		}
	}
	return names
}

// Field builds the config field described by v.
func Field(v Variable) *config.Field[any] {
	return config.NewField(v.Var(), func(r config.Reader[string]) config.Reader[any] {
		if v.File {
			r = config.TrimSpace(config.FileContent(r))
		}

		parse := parser(v.Type)
		parsed := parse(r)
		if v.Default != "" {
			parsed = config.Or(parsed, parse(config.ReaderOf(v.Default)))
		}
		if v.Validate != "" {
			parsed = config.Validate(parsed, v.Validate)
		}
		return parsed
	})
}

func parser(t Type) func(config.Reader[string]) config.Reader[any] {
	switch t {
	case Int:
		return typed[int]
	case Int64:
		return typed[int64]
	case Float:
		return typed[float64]
	case Bool:
		return typed[bool]
	case Duration:
		return typed[time.Duration]
	case Strings:
		return typed[[]string]
	default:
		return typed[string]
	}
}

func typed[T any](r config.Reader[string]) config.Reader[any] {
	return config.MapValue(config.FromString[T](r), func(_ context.Context, v T) (any, error) {
		return v, nil
	})
}
