// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package emit writes the lines of a list of sources to an output, optionally numbered.
package emit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironcore-dev/catr/internal/source"
)

type Mode int

const (
	// Plain writes every line unchanged.
	Plain Mode = iota
	// NumberAll prefixes every line with its line number.
	NumberAll
	// NumberNonBlank prefixes only non-empty lines, counting only those.
	NumberNonBlank
)

func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case NumberAll:
		return "number"
	case NumberNonBlank:
		return "number-nonblank"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type Options struct {
	Mode Mode
	// Separate prints a blank line after every successfully processed source
	// that is not the last one requested.
	Separate bool
}

// Counter holds the line numbers of the source currently being emitted.
type Counter struct {
	Total    int
	NonBlank int
}

// FormatLine advances counter according to mode and returns the output for line,
// terminator included.
func FormatLine(mode Mode, counter *Counter, line string) string {
	switch mode {
	case NumberAll:
		counter.Total++
		return fmt.Sprintf("%6d\t%s\n", counter.Total, line)
	case NumberNonBlank:
		counter.Total++
		if line == "" {
			return "\n"
		}
		counter.NonBlank++
		return fmt.Sprintf("%6d\t%s\n", counter.NonBlank, line)
	default:
		counter.Total++
		return line + "\n"
	}
}

type OpenFunc func(id string, stdin io.Reader) (source.Source, error)

type Emitter struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Open   OpenFunc
	Log    *slog.Logger
}

type Option func(e *Emitter)

func WithLogger(log *slog.Logger) Option {
	return func(e *Emitter) {
		e.Log = log
	}
}

func WithOpenFunc(open OpenFunc) Option {
	return func(e *Emitter) {
		e.Open = open
	}
}

func New(stdin io.Reader, stdout, stderr io.Writer, opts ...Option) *Emitter {
	e := &Emitter{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Open:   source.Open,
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run emits every source named in ids, in order. Sources that cannot be opened
// are reported on Stderr and skipped. A *source.ReadError aborts the run.
func (e *Emitter) Run(ids []string, opts Options) error {
	out := bufio.NewWriter(e.Stdout)

	for i, id := range ids {
		src, err := e.Open(id, e.Stdin)
		if err != nil {
			var openErr *source.OpenError
			if !errors.As(err, &openErr) {
				return fmt.Errorf("error opening %s: %w", id, err)
			}

			// Keep stdout and stderr in the order things happened.
			if err := out.Flush(); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
			e.Log.Debug("Skipping source", "source", id, "error", openErr.Err)
			if _, err := fmt.Fprintln(e.Stderr, openErr.Error()); err != nil {
				return fmt.Errorf("error writing diagnostic: %w", err)
			}
			continue
		}

		e.Log.Debug("Opened source", "source", id, "mode", opts.Mode)
		counter, err := e.emitSource(out, src, opts.Mode)
		if err != nil {
			return err
		}
		e.Log.Debug("Emitted source", "source", id, "lines", counter.Total, "nonblank-lines", counter.NonBlank)

		if opts.Separate && i < len(ids)-1 {
			if err := out.WriteByte('\n'); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

func (e *Emitter) emitSource(out *bufio.Writer, src source.Source, mode Mode) (Counter, error) {
	var counter Counter
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			e.Log.Debug("Error closing source", "source", src.Name(), "error", closeErr)
		}
	}()

	for {
		line, err := src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return counter, nil
			}
			// Lines read before the failure are still written.
			if flushErr := out.Flush(); flushErr != nil {
				return counter, fmt.Errorf("error writing output: %w", flushErr)
			}
			return counter, err
		}

		if _, err := out.WriteString(FormatLine(mode, &counter, line)); err != nil {
			return counter, fmt.Errorf("error writing output: %w", err)
		}
	}
}
