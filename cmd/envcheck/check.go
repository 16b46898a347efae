// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/z5labs/envdef/config"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve every declared variable and report the invalid ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environ()
			if err != nil {
				return err
			}
			ctx := config.WithEnviron(cmd.Context(), env)

			fields := c.schema.Fields()
			checkers := make([]config.Checker, len(fields))
			for i, f := range fields {
				checkers[i] = f
			}

			err = config.NewSet(checkers, c.setOptions()...).Init(ctx)

			var ierr *config.InitError
			if errors.As(err, &ierr) {
				fmt.Fprint(c.stdout, ierr.Error())
				return errInvalidEnvironment
			}
			if err != nil {
				return err
			}

			for _, f := range fields {
				v := f.MustGet(ctx)
				c.log.DebugContext(ctx, "resolved config variable", slog.Any(f.Var().Name, v))
			}

			n := len(fields)
			if n > 1 {
				fmt.Fprintf(c.stdout, "%d variables ok\n", n)
				return nil
			}
			fmt.Fprintf(c.stdout, "%d variable ok\n", n)
			return nil
		},
	}
}
