// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package ioutil provides io helpers which close their source once consumed.
package ioutil

import (
	"io"
	"os"

	"github.com/z5labs/envdef/internal/try"
)

// ReadAllAndClose reads r until EOF and closes it, if it is an io.Closer.
func ReadAllAndClose(r io.Reader) (_ []byte, err error) {
	defer try.Close(&err, r)
	return io.ReadAll(r)
}

// CopyAndClose copies src to dst and closes src, if it is an io.Closer.
func CopyAndClose(dst io.Writer, src io.Reader) (_ int64, err error) {
	defer try.Close(&err, src)
	return io.Copy(dst, src)
}

// ReadFile reads the whole file at path.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return ReadAllAndClose(f)
}
