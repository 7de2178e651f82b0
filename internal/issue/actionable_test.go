// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "stage files"}, "failed to stage files"},
		{"with resource", &ActionableError{Operation: "load datafile", Resource: "base.data"}, "failed to load datafile: base.data"},
		{
			"with cause",
			&ActionableError{Operation: "load datafile", Resource: "base.data", Cause: errors.New("boom")},
			"failed to load datafile: base.data: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("no such file")
	err := NewErrorContext().
		WithOperation("load datafile").
		WithResource("base.data").
		WithSuggestion("Check DATAFILE_PATH").
		WithSuggestions("Check the file name", "Check permissions").
		Wrap(fmt.Errorf("open: %w", root)).
		Build()

	short := err.Format(false)
	for _, want := range []string{"failed to load datafile: base.data", "  • Check DATAFILE_PATH", "  • Check permissions"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) = %q, missing %q", short, want)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. open: no such file") || !strings.Contains(verbose, "2. no such file") {
		t.Errorf("Format(true) = %q, missing error chain", verbose)
	}
	if !errors.Is(err, root) {
		t.Error("errors.Is should reach the root cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithResource("x")
	if ctx.Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	cause := errors.New("denied")
	ae := WrapWithContext(cause, "create link", "/staging/usr/bin/app")
	if ae.Operation != "create link" || ae.Resource != "/staging/usr/bin/app" || !errors.Is(ae, cause) {
		t.Errorf("WrapWithContext() = %+v", ae)
	}
}
