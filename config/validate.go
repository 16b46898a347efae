// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError occurs when a configuration value does not satisfy
// its validation rules.
type ValidationError struct {
	Tag   string
	Cause error
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("value does not satisfy %q: %s", e.Tag, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks the value read by r against the given validator tag,
// e.g. "min=1,max=65535" or "url". See github.com/go-playground/validator
// for the available rules.
func Validate[T any](r Reader[T], tag string) Reader[T] {
	return MapValue(r, func(ctx context.Context, v T) (T, error) {
		err := validate.VarCtx(ctx, v, tag)
		if err != nil {
			return v, ValidationError{Tag: tag, Cause: err}
		}
		return v, nil
	})
}
