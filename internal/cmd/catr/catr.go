// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package catr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironcore-dev/catr/internal/emit"
	"github.com/ironcore-dev/catr/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

// UsageError reports an invalid command line. It is detected before any source is read.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

var ErrConflictingNumbering = errors.New("the flags --number and --number-nonblank cannot be used together")

type Options struct {
	NumberAll      bool
	NumberNonBlank bool
	Separate       bool
	Debug          bool
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.NumberAll, "number", "n", o.NumberAll, "Number all output lines")
	fs.BoolVarP(&o.NumberNonBlank, "number-nonblank", "b", o.NumberNonBlank, "Number non-blank output lines")
	fs.BoolVar(&o.Separate, "separate", o.Separate, "Print a blank line between the contents of consecutive files")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Write debug logs to standard error")
}

// Config is the resolved invocation.
type Config struct {
	Sources []string
	Emit    emit.Options
}

// Config validates o and resolves it together with the positional args.
func (o *Options) Config(args []string) (*Config, error) {
	if o.NumberAll && o.NumberNonBlank {
		return nil, &UsageError{Err: ErrConflictingNumbering}
	}

	mode := emit.Plain
	switch {
	case o.NumberAll:
		mode = emit.NumberAll
	case o.NumberNonBlank:
		mode = emit.NumberNonBlank
	}

	sources := args
	if len(sources) == 0 {
		sources = []string{source.Stdin}
	}

	return &Config{
		Sources: sources,
		Emit: emit.Options{
			Mode:     mode,
			Separate: o.Separate,
		},
	}, nil
}

func Command() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "catr [FILE]...",
		Short: "Concatenate files and print them to standard output",
		Long: `catr - Concatenate files

Print the contents of every FILE to standard output, in order.
With no FILE, or when FILE is -, read standard input.

Files that cannot be opened are reported on standard error and skipped.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config(args)
			if err != nil {
				return err
			}

			log := newLogger(cmd.ErrOrStderr(), opts.Debug)
			log.Debug("Resolved configuration", "sources", cfg.Sources, "mode", cfg.Emit.Mode, "separate", cfg.Emit.Separate)

			e := emit.New(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), emit.WithLogger(log))
			return e.Run(cfg.Sources, cfg.Emit)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	opts.AddFlags(cmd.Flags())
	return cmd
}

// Main runs catr with args and returns the process exit code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// cobra falls back to os.Args for nil args.
	if args == nil {
		args = []string{}
	}

	cmd := Command()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
