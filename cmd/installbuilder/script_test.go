// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/testutil/datafiletest"
)

func writeScriptDatafile(t *testing.T, lines ...string) string {
	t.Helper()

	dir := t.TempDir()
	datafiletest.New().
		Variables("SHORT_NAME", "app").
		Section("Postinstall", lines...).
		Write(t, dir, "base.data")
	return dir
}

func TestScriptLint(t *testing.T) {
	t.Parallel()

	dir := writeScriptDatafile(t, "if [ -d /opt/${{SHORT_NAME}} ]; then", "  echo present", "fi")
	res := runCLI(t, testConfig(), "script", "lint", "Postinstall", "base.data", "--DATAFILE_PATH="+dir)
	if res.err != nil {
		t.Fatalf("script lint error = %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "Postinstall is valid") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestScriptLint_Invalid(t *testing.T) {
	t.Parallel()

	dir := writeScriptDatafile(t, "if [ -d /opt ]; then", "  echo unterminated")
	res := runCLI(t, testConfig(), "script", "lint", "Postinstall", "base.data", "--DATAFILE_PATH="+dir)
	wantIssue(t, res.err, issue.ScriptInvalidId)
}

func TestScriptRun(t *testing.T) {
	t.Parallel()

	dir := writeScriptDatafile(t, `echo "hello $SHORT_NAME $1"`, "rm -rf /opt/${{SHORT_NAME}}")
	res := runCLI(t, testConfig(), "script", "run", "Postinstall", "base.data", "--DATAFILE_PATH="+dir, "--ib-arg", "world")
	if res.err != nil {
		t.Fatalf("script run error = %v\nstderr: %s", res.err, res.stderr)
	}
	if res.stdout != "hello app world\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, "hello app world\n")
	}
	if !strings.Contains(res.stderr, "rm -rf /opt/app") {
		t.Errorf("skipped command not reported on stderr:\n%s", res.stderr)
	}
}

func TestScriptRun_ExitStatus(t *testing.T) {
	t.Parallel()

	dir := writeScriptDatafile(t, "exit 4")
	res := runCLI(t, testConfig(), "script", "run", "Postinstall", "base.data", "--DATAFILE_PATH="+dir)
	wantIssue(t, res.err, issue.ScriptExecutionFailedId)

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != 4 {
		t.Errorf("error = %v, want *ExitError with code 4", res.err)
	}
}

func TestScriptArgs_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing section", []string{"script", "lint"}},
		{"not a script section", []string{"script", "lint", "Files", "base.data"}},
		{"run option on lint", []string{"script", "lint", "Postinstall", "--ib-exec"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, testConfig(), tt.args...)
			wantIssue(t, res.err, issue.InvalidArgumentsId)
		})
	}
}
