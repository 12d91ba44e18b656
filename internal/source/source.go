// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package source opens the inputs catr reads from and yields them line by line.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// Stdin is the source identifier that denotes the process's standard input.
const Stdin = "-"

var (
	ErrIsDirectory = errors.New("is a directory")
	ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
)

// Source is an open, buffered, line-readable input.
type Source interface {
	// Name returns the identifier the source was opened with.
	Name() string
	// ReadLine returns the next line without its terminator.
	// It returns io.EOF once the source is exhausted.
	ReadLine() (string, error)
	Close() error
}

// OpenError reports a source that could not be opened for reading.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// ReadError reports a source that was opened but failed while its lines were read.
type ReadError struct {
	Name string
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading %s (line %d): %v", e.Name, e.Line, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

type lineSource struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	line   int
}

// Open resolves id to a Source. The Stdin sentinel always succeeds and reads
// from stdin, anything else is opened as a file path.
func Open(id string, stdin io.Reader) (Source, error) {
	if id == Stdin {
		return newLineSource(id, stdin, nil), nil
	}

	f, err := os.Open(id)
	if err != nil {
		return nil, &OpenError{Name: id, Err: unwrapPathError(err)}
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &OpenError{Name: id, Err: unwrapPathError(err)}
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, &OpenError{Name: id, Err: ErrIsDirectory}
	}

	return newLineSource(id, f, f), nil
}

// NewReader wraps an already open reader as a Source named name.
// Closing the returned source does not close r.
func NewReader(name string, r io.Reader) Source {
	return newLineSource(name, r, nil)
}

func newLineSource(name string, r io.Reader, closer io.Closer) *lineSource {
	return &lineSource{
		name:   name,
		r:      bufio.NewReader(r),
		closer: closer,
	}
}

func (s *lineSource) Name() string {
	return s.name
}

func (s *lineSource) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", &ReadError{Name: s.name, Line: s.line + 1, Err: unwrapPathError(err)}
		}
		if line == "" {
			return "", io.EOF
		}
	}
	s.line++

	if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
		line = strings.TrimSuffix(trimmed, "\r")
	}

	if !utf8.ValidString(line) {
		return "", &ReadError{Name: s.name, Line: s.line, Err: ErrInvalidUTF8}
	}
	return line, nil
}

func (s *lineSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// unwrapPathError drops the op and path of a *fs.PathError; the callers
// already carry the source name.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
