// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/z5labs/envdef/config"
	"github.com/z5labs/envdef/internal/maskslog"
	"github.com/z5labs/envdef/internal/otelslog"
	"github.com/z5labs/envdef/internal/schema"
	"github.com/z5labs/envdef/internal/try"
)

const serviceName = "envcheck"

// errInvalidEnvironment is returned once the InitError report
// has already been printed.
var errInvalidEnvironment = errors.New("invalid environment")

// UnknownLogFormatError occurs when the log format is neither text nor json.
type UnknownLogFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownLogFormatError) Error() string {
	return fmt.Sprintf("unknown log format: %s", e.Format)
}

type cli struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	schema *schema.Schema
	log    *slog.Logger
	tp     *sdktrace.TracerProvider
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := &cli{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
	}

	cmd := c.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	err = errors.Join(err, c.shutdown(ctx))
	if err == nil {
		return 0
	}
	if !errors.Is(err, errInvalidEnvironment) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Check and describe the environment variables of an application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			err = c.v.BindPFlags(cmd.Flags())
			if err != nil {
				return err
			}
			return c.init()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("schema", "s", "", "YAML file declaring the expected variables")
	flags.StringP("env-file", "e", "", "YAML or JSON file of variables layered over the process environment")
	flags.String("log-level", "error", "minimum log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Bool("trace", false, "write the spans of the run to stderr")

	c.v.SetEnvPrefix("ENVCHECK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	cmd.AddCommand(
		c.checkCmd(),
		c.describeCmd(),
	)
	return cmd
}

func (c *cli) init() error {
	path := c.v.GetString("schema")
	if path == "" {
		return errors.New("a schema is required, use --schema or ENVCHECK_SCHEMA")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	c.schema, err = schema.Load(f)
	if err != nil {
		return err
	}

	c.log, err = newLogger(c.stderr, c.v.GetString("log-level"), c.v.GetString("log-format"), c.schema.Secrets())
	if err != nil {
		return err
	}

	if c.v.GetBool("trace") {
		c.tp, err = newTracerProvider(c.stderr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) shutdown(ctx context.Context) error {
	if c.tp == nil {
		return nil
	}
	return c.tp.Shutdown(context.WithoutCancel(ctx))
}

func (c *cli) setOptions() []config.SetOption {
	opts := []config.SetOption{config.WithLogger(c.log)}
	if c.tp != nil {
		opts = append(opts, config.WithTracerProvider(c.tp))
	}
	return opts
}

// environ returns the process environment, with the variables
// of the env file layered on top of it if one was given.
func (c *cli) environ() (_ config.Environ, err error) {
	path := c.v.GetString("env-file")
	if path == "" {
		return config.OS, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := config.RenderTextTemplate(f)

	var m config.Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		m, err = config.FromJson(r)
	default:
		m, err = config.FromYaml(r)
	}
	if err != nil {
		return nil, err
	}
	return config.Layered(config.OS, m), nil
}

func newLogger(w io.Writer, level, format string, secrets []string) (*slog.Logger, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch format {
	case "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, UnknownLogFormatError{Format: format}
	}

	h = maskslog.NewHandler(h, maskslog.Keys(secrets...))
	h = otelslog.NewHandler(h)
	return slog.New(h), nil
}

func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	return tp, nil
}
