// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/testutil"
)

func TestConfigDump(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	res := runCLI(t, cfg, "config", "dump")
	if res.err != nil {
		t.Fatalf("config dump error = %v", res.err)
	}
	if want := config.GenerateCUE(cfg); res.stdout != want {
		t.Errorf("config dump output mismatch:\n got: %q\nwant: %q", res.stdout, want)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testConfig(), "config", "show", "--ib-config", filepath.Join(t.TempDir(), "absent.cue"))
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	for _, want := range []string{
		"Current Configuration",
		"runtime: virtual",
		"rpm: ",
		"dpkg: ",
		"debounce: 500ms",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config show output missing %q\n%s", want, res.stdout)
		}
	}
}

func TestConfigShow_LoadFailure(t *testing.T) {
	t.Parallel()

	var stdout, stderr strings.Builder
	app := NewApp(Dependencies{Config: staticConfig{err: errors.New("bad config")}, Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetArgs([]string{"config", "show"})

	err := root.Execute()
	wantIssue(t, err, issue.ConfigLoadFailedId)
	if !strings.Contains(stderr.String(), "bad config") {
		t.Errorf("stderr = %q, want the load error", stderr.String())
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	res := runCLI(t, testConfig(), "config", "init", "--dir", dir)
	if res.err != nil {
		t.Fatalf("config init error = %v", res.err)
	}

	path := filepath.Join(dir, "config.cue")
	if got := testutil.MustReadFile(t, path); got != config.GenerateCUE(config.DefaultConfig()) {
		t.Errorf("config.cue does not hold the defaults:\n%s", got)
	}
	if !strings.Contains(res.stdout, path) {
		t.Errorf("stdout = %q, want the created path", res.stdout)
	}

	res = runCLI(t, testConfig(), "config", "init", "--dir", dir)
	if !errors.Is(res.err, config.ErrConfigExists) {
		t.Errorf("second config init error = %v, want ErrConfigExists", res.err)
	}

	res = runCLI(t, testConfig(), "config", "init", "--dir", dir, "--force")
	if res.err != nil {
		t.Errorf("config init --force error = %v", res.err)
	}
}

func TestConfigPath_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	res := runCLI(t, testConfig(), "config", "path", "--ib-config="+path)
	if res.err != nil {
		t.Fatalf("config path error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "Config file: "+path) {
		t.Errorf("stdout = %q, want the explicit config path", res.stdout)
	}
}
