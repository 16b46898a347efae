// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVar_String(t *testing.T) {
	testCases := []struct {
		name     string
		v        Var
		expected string
	}{
		{
			name:     "name only",
			v:        Var{Name: "MY_URL"},
			expected: "`MY_URL`",
		},
		{
			name:     "with description",
			v:        Var{Name: "MY_URL", Description: "Some URL"},
			expected: "`MY_URL`: Some URL",
		},
		{
			name:     "with description and default",
			v:        Var{Name: "MY_URL", Description: "Some URL", DefaultText: "hi"},
			expected: "`MY_URL`: Some URL (default: hi)",
		},
		{
			name:     "with default only",
			v:        Var{Name: "PORT", DefaultText: "8080"},
			expected: "`PORT` (default: 8080)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.v.String())
		})
	}
}

func TestField(t *testing.T) {
	t.Run("will read the variable", func(t *testing.T) {
		ctx := WithEnviron(context.Background(), Map{"MY_URL": "asd"})
		f := TextField(Var{Name: "MY_URL", Description: "Some URL"})

		val, err := f.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, "asd", val)
		require.Equal(t, "asd", f.MustGet(ctx))
		require.NoError(t, f.Check(ctx))
	})

	t.Run("will apply its layers", func(t *testing.T) {
		ctx := WithEnviron(context.Background(), Map{})
		f := NewField(
			Var{Name: "OPT_TIMEOUT_MS"},
			func(r Reader[string]) Reader[time.Duration] {
				ms := Parse(r, func(s string) (time.Duration, error) {
					d, err := time.ParseDuration(s + "ms")
					return d, err
				})
				return Default(3*time.Second, ms)
			},
		)

		val, err := f.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, 3*time.Second, val)

		ctx = WithEnviron(context.Background(), Map{"OPT_TIMEOUT_MS": "250"})
		val, err = f.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, 250*time.Millisecond, val)
	})

	t.Run("will return a VarError", func(t *testing.T) {
		t.Run("if the variable is missing", func(t *testing.T) {
			ctx := WithEnviron(context.Background(), Map{})
			f := TextField(Var{Name: "DB_URL"})

			_, err := f.Get(ctx)

			var verr VarError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, "DB_URL", verr.Var.Name)
			require.ErrorIs(t, err, ErrValueNotSet)
			require.Equal(t, "`DB_URL`: value not set", err.Error())
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the variable can not be parsed", func(t *testing.T) {
			ctx := WithEnviron(context.Background(), Map{"PORT": "eighty"})
			f := NewField(Var{Name: "PORT"}, IntFromString)

			require.PanicsWithValue(
				t,
				"couldn't get env var `PORT` (expected type `int`): failed to parse value as int: strconv.Atoi: parsing \"****\": invalid syntax",
				func() {
					f.MustGet(ctx)
				},
			)
		})
	})

	t.Run("will keep its reader when described again", func(t *testing.T) {
		env := Map{"USER": "foo"}
		ctx := WithEnviron(context.Background(), env)
		f := NewField(Var{Name: "USER", Description: "The user"}, func(r Reader[string]) Reader[string] {
			return Cached(r)
		})
		require.Equal(t, "foo", f.MustGet(ctx))

		g := f.WithDefaultText("hi").WithDescription("Another user")
		env["USER"] = "bar"

		require.Equal(t, Var{Name: "USER", Description: "Another user", DefaultText: "hi"}, g.Var())
		require.Equal(t, Var{Name: "USER", Description: "The user"}, f.Var())
		require.Equal(t, "foo", g.MustGet(ctx))
	})
}
