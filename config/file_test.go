// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileContent(t *testing.T) {
	t.Run("will return the file contents", func(t *testing.T) {
		t.Run("if the variable points to an existing file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "secret")
			require.NoError(t, os.WriteFile(path, []byte("hello there"), 0600))

			ctx := WithEnviron(context.Background(), Map{"SECRET_FILE": path})
			val, err := Read(ctx, FileContent(Env("SECRET_FILE")))
			require.NoError(t, err)
			require.Equal(t, "hello there", val)
		})

		t.Run("if the path is derived from the variable", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "secret")
			require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

			ctx := WithEnviron(context.Background(), Map{"SECRET": "booga:" + path})
			r := FileContent(Parse(Env("SECRET"), func(s string) (string, error) {
				_, p, ok := strings.Cut(s, ":")
				if !ok {
					return "", errors.New("expected a prefixed path")
				}
				return p, nil
			}))
			val, err := Read(ctx, r)
			require.NoError(t, err)
			require.Equal(t, "hello", val)
		})

		t.Run("and it can be parsed", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "n")
			require.NoError(t, os.WriteFile(path, []byte("3\n"), 0600))

			ctx := WithEnviron(context.Background(), Map{"N_FILE": path})
			val, err := Read(ctx, IntFromString(TrimSpace(FileContent(Env("N_FILE")))))
			require.NoError(t, err)
			require.Equal(t, 3, val)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the file does not exist", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing")

			ctx := WithEnviron(context.Background(), Map{"SECRET_FILE": path})
			_, err := Read(ctx, FileContent(Env("SECRET_FILE")))

			var ferr FileReadError
			require.ErrorAs(t, err, &ferr)
			require.Equal(t, path, ferr.Path)
			require.ErrorIs(t, err, fs.ErrNotExist)
			require.NotEmpty(t, ferr.Error())
		})

		t.Run("if the file content fails to parse", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "n")
			require.NoError(t, os.WriteFile(path, []byte("foobar"), 0600))

			ctx := WithEnviron(context.Background(), Map{"N_FILE": path})
			_, err := Read(ctx, IntFromString(FileContent(Env("N_FILE"))))

			var perr ParseError
			require.ErrorAs(t, err, &perr)
		})
	})

	t.Run("will return unset", func(t *testing.T) {
		t.Run("if the variable is not set", func(t *testing.T) {
			ctx := WithEnviron(context.Background(), Map{})
			val, err := FileContent(Env("SECRET_FILE")).Read(ctx)
			require.NoError(t, err)
			_, ok := val.Value()
			require.False(t, ok)
		})
	})
}

func TestTrimSpace(t *testing.T) {
	val, err := Read(context.Background(), TrimSpace(ReaderOf("  hello \n")))
	require.NoError(t, err)
	require.Equal(t, "hello", val)
}
