// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"sync"
)

// CachedReader remembers the first result, value or error, of its
// underlying Reader and returns it for every subsequent Read.
type CachedReader[T any] struct {
	r Reader[T]

	mu     sync.Mutex
	cached bool
	val    Value[T]
	err    error
}

// Cached wraps r so it is only ever read once. Changes to the environment
// after the first Read are not observed until Reset is called.
func Cached[T any](r Reader[T]) *CachedReader[T] {
	return &CachedReader[T]{r: r}
}

// Read implements the Reader interface.
func (c *CachedReader[T]) Read(ctx context.Context) (Value[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cached {
		c.val, c.err = c.r.Read(ctx)
		c.cached = true
	}
	return c.val, c.err
}

// Reset drops the cached result, if any, and reports whether
// there was one. It is useful for values which should not
// be kept in memory after initialization.
func (c *CachedReader[T]) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	had := c.cached
	c.cached = false
	c.val = Value[T]{}
	c.err = nil
	return had
}
