// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/z5labs/envdef/internal/ioutil"
)

// ReadFile returns a Reader which opens the file at path. A file which does
// not exist is reported as an unset value. The caller is responsible for
// closing the returned file.
func ReadFile(path string) Reader[*os.File] {
	return ReaderFunc[*os.File](func(ctx context.Context) (Value[*os.File], error) {
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			return Value[*os.File]{}, nil
		}
		if err != nil {
			return Value[*os.File]{}, err
		}
		return ValueOf(f), nil
	})
}

// FileReadError occurs when the file referenced by a configuration
// value could not be read.
type FileReadError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e FileReadError) Unwrap() error {
	return e.Cause
}

// FileContent returns a Reader which treats the value read by r as a
// file path and returns the contents of that file. Unlike ReadFile,
// a missing file is an error since the path was explicitly configured.
func FileContent(r Reader[string]) Reader[string] {
	return MapValue(r, func(ctx context.Context, path string) (string, error) {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return "", FileReadError{Path: path, Cause: err}
		}
		return string(b), nil
	})
}

// TrimSpace removes leading and trailing white space from the value read by r.
func TrimSpace(r Reader[string]) Reader[string] {
	return MapValue(r, func(ctx context.Context, s string) (string, error) {
		return strings.TrimSpace(s), nil
	})
}
