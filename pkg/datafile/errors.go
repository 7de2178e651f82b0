// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"errors"
	"fmt"
)

var (
	// ErrLineOutsideSection is returned for content that precedes the first section header.
	ErrLineOutsideSection = errors.New("line is not inside any section")
	// ErrEmptySectionName is returned for a "%" header without a name.
	ErrEmptySectionName = errors.New("section header has no name")
	// ErrSectionRedefined is returned when a non-reopenable section is declared twice.
	ErrSectionRedefined = errors.New("section is defined more than once")
	// ErrVariableSyntax is returned for a malformed Variables entry.
	ErrVariableSyntax = errors.New("invalid variable line entry, usage: VARIABLE_NAME: 'VALUE'")
	// ErrDefineSyntax is returned for a malformed Defines entry.
	ErrDefineSyntax = errors.New("invalid define line entry, usage: DEFINE_NAME")
	// ErrFieldCount is returned when a File, Directory or Link record has the wrong number of fields.
	ErrFieldCount = errors.New("incorrect number of fields")
	// ErrExpressionSyntax is returned for a malformed directive argument list.
	ErrExpressionSyntax = errors.New("bad directive syntax")
	// ErrUnknownVariable is returned when an #if expression names an undefined variable.
	ErrUnknownVariable = errors.New("unable to find variable in defined variables")
	// ErrUnknownOperator is returned for a comparison operator that is not supported.
	ErrUnknownOperator = errors.New("operator is not valid")
	// ErrNotNumeric is returned when a numeric comparison meets a non-numeric operand.
	ErrNotNumeric = errors.New("operand is not numeric")
	// ErrUnbalancedConditional is returned for #endif, #else or #elseif without an open #if.
	ErrUnbalancedConditional = errors.New("conditional directive without matching #if")
	// ErrOpenConditional is returned when a section ends with an unclosed #if.
	ErrOpenConditional = errors.New("there is at least one open conditional (#if) that has not been closed by the end of this section")
	// ErrConditionalState is returned when a conditional level is executed twice.
	ErrConditionalState = errors.New("conditional level has already been executed or is currently executing")
	// ErrUndefinedReference is returned for a ${{NAME}} placeholder naming an undefined variable.
	ErrUndefinedReference = errors.New("reference to undefined variable")
	// ErrUnknownSection is returned when #include names a section that does not exist.
	ErrUnknownSection = errors.New("unknown section")
	// ErrIncludeCycle is returned when sections include each other.
	ErrIncludeCycle = errors.New("include cycle detected")
	// ErrIncludeNotAllowed is returned for #include inside the Variables or Defines sections.
	ErrIncludeNotAllowed = errors.New("#include is not allowed in this section")
	// ErrInvalidOverride is returned for a malformed --NAME[=VALUE] argument.
	ErrInvalidOverride = errors.New("invalid command line variable")
)

type (
	// LineError attributes an evaluation error to a datafile line.
	LineError struct {
		Line RawLine
		Err  error
	}

	// SectionError attributes an evaluation error to a whole section.
	SectionError struct {
		Section string
		Err     error
	}
)

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Line.Pos(), e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *SectionError) Error() string {
	return fmt.Sprintf("section %s: %v", e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *SectionError) Unwrap() error { return e.Err }

func lineErrorf(line RawLine, sentinel error, format string, args ...any) error {
	return &LineError{Line: line, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
