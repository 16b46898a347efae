// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/z5labs/envdef/internal/ioutil"
)

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// FromYaml reads a YAML mapping from r and returns its values as a Map,
// suitable for use as an Environ. If r is an io.Closer it is closed.
func FromYaml(r io.Reader) (_ Map, err error) {
	b, err := ioutil.ReadAllAndClose(r)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any)
	err = yaml.Unmarshal(b, &doc)
	if err != nil {
		return nil, InvalidYamlError{Cause: err}
	}

	m := make(Map, len(doc))
	flatten(m, "", doc)
	return m, nil
}
