// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/issue"
)

type (
	staticConfig struct {
		cfg *config.Config
		err error
	}

	cliResult struct {
		stdout string
		stderr string
		err    error
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

// testConfig returns defaults with the virtual packaging runtime so that
// packaging commands run in the embedded interpreter.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Packaging.Runtime = config.RuntimeVirtual
	cfg.Log.Level = config.LogLevelError
	return cfg
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := NewRootCommand(app)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// wantIssue checks that err carries the given issue catalog id.
func wantIssue(t *testing.T, err error, id issue.Id) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with issue %d, got nil", id)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError in chain, got %T: %v", err, err)
	}
	if svcErr.IssueID != id {
		t.Fatalf("IssueID = %d, want %d (err: %v)", svcErr.IssueID, id, err)
	}
}
