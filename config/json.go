// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/envdef/internal/ioutil"
)

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// FromJson reads a JSON object from r and returns its values as a Map,
// suitable for use as an Environ. If r is an io.Closer it is closed.
func FromJson(r io.Reader) (_ Map, err error) {
	b, err := ioutil.ReadAllAndClose(r)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	err = dec.Decode(&doc)
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}

	m := make(Map, len(doc))
	flatten(m, "", doc)
	return m, nil
}
