// SPDX-License-Identifier: MPL-2.0

package scripts

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"installbuilder-cli/pkg/datafile"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"
)

// Terminator is appended to every rendered script.
const Terminator = "exit 0\n"

// ErrInvalidScript is the sentinel error wrapped by SyntaxError.
var ErrInvalidScript = errors.New("invalid maintainer script")

type (
	// SyntaxError reports a rendered script that does not parse.
	SyntaxError struct {
		Section string
		Line    uint
		Column  uint
		Msg     string
	}

	// WriterOptions configures a Writer.
	WriterOptions struct {
		// Dir receives one <Section>.sh file per script.
		Dir string
		// Lint parses every script before it is written.
		Lint bool
		// Fs defaults to the OS filesystem.
		Fs afero.Fs
		// Logger defaults to a discarding logger.
		Logger *log.Logger
	}

	// Writer writes rendered scripts to a directory.
	Writer struct {
		opts   WriterOptions
		fs     afero.Fs
		logger *log.Logger
	}

	// Written describes a script file produced by Writer.WriteAll.
	Written struct {
		Section string
		Path    string
		Lines   int
	}
)

// Render returns the shell text of s: every evaluated line followed by a
// newline, then Terminator.
func Render(s datafile.Script) string {
	var sb strings.Builder
	for _, l := range s.Lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	sb.WriteString(Terminator)
	return sb.String()
}

// Lint parses body as a POSIX-compatible shell script.
func Lint(section, body string) error {
	_, err := parse(section, body)
	return err
}

func parse(section, body string) (*syntax.File, error) {
	f, err := syntax.NewParser().Parse(strings.NewReader(body), section)
	if err == nil {
		return f, nil
	}
	var perr syntax.ParseError
	if errors.As(err, &perr) {
		return nil, &SyntaxError{Section: section, Line: perr.Pos.Line(), Column: perr.Pos.Col(), Msg: perr.Text}
	}
	return nil, &SyntaxError{Section: section, Msg: err.Error()}
}

// NewWriter returns a Writer for opts. Dir is required.
func NewWriter(opts WriterOptions) (*Writer, error) {
	if opts.Dir == "" {
		return nil, errors.New("scripts: output directory is required")
	}
	w := &Writer{opts: opts, fs: opts.Fs, logger: opts.Logger}
	if w.fs == nil {
		w.fs = afero.NewOsFs()
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	return w, nil
}

// WriteAll renders every script of m into <Dir>/<Section>.sh with mode 0755.
// Sections that evaluated to no lines are skipped. When linting is enabled
// nothing is written unless every script parses.
func (w *Writer) WriteAll(m *datafile.Manifest) ([]Written, error) {
	bodies := make([]string, len(m.Scripts))
	for i, s := range m.Scripts {
		bodies[i] = Render(s)
		if w.opts.Lint && len(s.Lines) > 0 {
			if err := Lint(s.Name, bodies[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := w.fs.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create script directory: %w", err)
	}

	var written []Written
	for i, s := range m.Scripts {
		if len(s.Lines) == 0 {
			continue
		}
		path := filepath.Join(w.opts.Dir, s.Name+".sh")
		if err := afero.WriteFile(w.fs, path, []byte(bodies[i]), 0o755); err != nil {
			return written, fmt.Errorf("write script %s: %w", s.Name, err)
		}
		if err := w.fs.Chmod(path, 0o755); err != nil {
			return written, fmt.Errorf("write script %s: %w", s.Name, err)
		}
		w.logger.Debug("wrote script", "section", s.Name, "path", path, "lines", len(s.Lines))
		written = append(written, Written{Section: s.Name, Path: path, Lines: len(s.Lines)})
	}
	return written, nil
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Section, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Section, e.Line, e.Column, e.Msg)
}

// Unwrap returns ErrInvalidScript for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrInvalidScript }
