// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"installbuilder-cli/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeOf maps a child process status to the installbuilder exit code.
// Statuses outside 1-255 become ExitFailure.
func exitCodeOf(status int) types.ExitCode {
	code := types.ExitCode(status)
	if code.IsSuccess() || code.Validate() != nil {
		return types.ExitFailure
	}
	return code
}
