// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/z5labs/envdef/internal/try"
)

// UnknownOutputFormatError occurs when describe is asked
// for an unsupported output format.
type UnknownOutputFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownOutputFormatError) Error() string {
	return fmt.Sprintf("unknown output format: %s", e.Format)
}

func (c *cli) describeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print every variable declared by the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			switch format := c.v.GetString("output"); format {
			case "text":
				return c.schema.Set().Describe(c.stdout)
			case "yaml":
				enc := yaml.NewEncoder(c.stdout)
				defer try.Close(&err, enc)
				enc.SetIndent(2)
				return enc.Encode(c.schema)
			case "json":
				enc := json.NewEncoder(c.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(c.schema)
			default:
				return UnknownOutputFormatError{Format: format}
			}
		},
	}

	cmd.Flags().StringP("output", "o", "text", "output format: text, yaml or json")
	return cmd
}
