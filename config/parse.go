// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"

	"github.com/z5labs/envdef/internal/try"
)

// ParseError occurs when a configuration value can not be parsed
// into its target type. Occurrences of the raw value are masked in
// the message since it may be a secret.
type ParseError struct {
	Type  string
	Cause error

	input string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse value as %s: %s", e.Type, mask(e.Cause.Error(), e.input))
}

const masked = "****"

// minBareMaskLen is the shortest input which is also masked when it
// appears inside a word.
const minBareMaskLen = 4

func mask(msg, input string) string {
	if input == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, strconv.Quote(input), strconv.Quote(masked))
	msg = strings.ReplaceAll(msg, "'"+input+"'", "'"+masked+"'")
	msg = maskWords(msg, input)
	if len(input) >= minBareMaskLen {
		msg = strings.ReplaceAll(msg, input, masked)
	}
	return msg
}

// maskWords replaces occurrences of input which are not surrounded
// by letters or digits.
func maskWords(msg, input string) string {
	var sb strings.Builder
	for {
		i := strings.Index(msg, input)
		if i < 0 {
			sb.WriteString(msg)
			return sb.String()
		}
		end := i + len(input)
		if isWordByte(msg, i-1) || isWordByte(msg, end) {
			sb.WriteString(msg[:i+1])
			msg = msg[i+1:]
			continue
		}
		sb.WriteString(msg[:i])
		sb.WriteString(masked)
		msg = msg[end:]
	}
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= utf8.RuneSelf
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.Cause
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.String()
}

// Parse converts the string read by r with f. Any failure, including
// a panic inside f, is reported as a ParseError.
func Parse[T any](r Reader[string], f func(string) (T, error)) Reader[T] {
	return MapValue(r, func(ctx context.Context, s string) (v T, err error) {
		defer func() {
			if err != nil {
				err = ParseError{Type: typeName[T](), Cause: err, input: s}
			}
		}()
		defer try.Recover(&err)

		return f(s)
	})
}

// BoolFromString parses the value read by r with strconv.ParseBool.
func BoolFromString(r Reader[string]) Reader[bool] {
	return Parse(r, strconv.ParseBool)
}

// IntFromString parses the value read by r with strconv.Atoi.
func IntFromString(r Reader[string]) Reader[int] {
	return Parse(r, strconv.Atoi)
}

// Int64FromString parses the value read by r as a base 10 int64.
func Int64FromString(r Reader[string]) Reader[int64] {
	return Parse(r, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// Float64FromString parses the value read by r as a float64.
func Float64FromString(r Reader[string]) Reader[float64] {
	return Parse(r, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// DurationFromString parses the value read by r with time.ParseDuration.
func DurationFromString(r Reader[string]) Reader[time.Duration] {
	return Parse(r, time.ParseDuration)
}

// Int64FromBytes decodes a fixed size int64 from the io.Reader read by r.
func Int64FromBytes[T io.Reader](order binary.ByteOrder, r Reader[T]) Reader[int64] {
	return MapValue(r, func(ctx context.Context, src T) (int64, error) {
		var n int64
		err := binary.Read(src, order, &n)
		if err != nil {
			return 0, ParseError{Type: "int64", Cause: err}
		}
		return n, nil
	})
}

// FromString decodes the value read by r into T. Besides the basic kinds,
// it supports time.Duration, comma separated slices and any type
// implementing encoding.TextUnmarshaler.
func FromString[T any](r Reader[string]) Reader[T] {
	return Parse(r, decodeString[T])
}

func decodeString[T any](s string) (T, error) {
	var v T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &v,
		WeaklyTypedInput: true,
		DecodeHook: composeDecodeHooks(
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return v, err
	}
	err = dec.Decode(s)
	if err != nil {
		return v, decodeError{Cause: err}
	}
	return v, nil
}

// decodeError drops the empty field name mapstructure
// reports when decoding a single value.
type decodeError struct {
	Cause error
}

func (e decodeError) Error() string {
	msg := e.Cause.Error()
	msg = strings.TrimPrefix(msg, "error decoding '': ")
	msg = strings.TrimPrefix(msg, "decoding failed due to the following error(s):\n\n")
	msg = strings.TrimPrefix(msg, "'' ")
	return strings.ReplaceAll(msg, " '' ", " ")
}

func (e decodeError) Unwrap() error {
	return e.Cause
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when a decode hook fails to convert
// a value to the requested type.
type TypeCoercionError struct {
	from  reflect.Type
	to    reflect.Type
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.from, e.to, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, TypeCoercionError{
				from:  f.Type(),
				to:    t.Type(),
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		if !reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t)
		u := result.Interface().(encoding.TextUnmarshaler)
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		return time.ParseDuration(reflect.ValueOf(data).String())
	}
}
