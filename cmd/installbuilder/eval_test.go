// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/report"
	"installbuilder-cli/internal/testutil/datafiletest"
)

func writeSampleDatafiles(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	datafiletest.New().
		Variables("VERSION", "1.2", "SHORT_NAME", "app").
		Section("Files",
			"#if VERSION > 1",
			"/opt/${{SHORT_NAME}}/bin/app; bin/app; 755; root; root",
			"#else",
			"/opt/${{SHORT_NAME}}/bin/old; bin/old; 755; root; root",
			"#endif",
		).
		Section("Directories", "/opt/${{SHORT_NAME}}; 755; root; root").
		Section("Postinstall", "echo installed ${{SHORT_NAME}} ${{VERSION}}").
		Write(t, dir, "base.data")
	datafiletest.New().
		Section("Dependencies",
			"#ifdef LINUX",
			"glibc >= 2.17",
			"#endif",
		).
		Write(t, dir, "linux.data")
	return dir
}

func TestEval_Text(t *testing.T) {
	t.Parallel()

	dir := writeSampleDatafiles(t)
	res := runCLI(t, testConfig(), "eval", "base.data", "linux.data", "--DATAFILE_PATH="+dir, "--LINUX")
	if res.err != nil {
		t.Fatalf("eval error = %v\nstderr: %s", res.err, res.stderr)
	}

	for _, want := range []string{
		"%Variables\n",
		`VERSION: "1.2"`,
		"%Defines\nLINUX\n",
		"%Directories\n/opt/app; 755; root; root; \n",
		"%Files\n/opt/app/bin/app; bin/app; 755; root; root; \n",
		"%Postinstall\necho installed app 1.2\n",
		"%Dependencies\nglibc >= 2.17\n",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("eval output missing %q\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "bin/old") {
		t.Errorf("eval output contains the #else branch:\n%s", res.stdout)
	}
}

func TestEval_OverrideWins(t *testing.T) {
	t.Parallel()

	dir := writeSampleDatafiles(t)
	res := runCLI(t, testConfig(), "eval", "base.data", "--DATAFILE_PATH="+dir, "--VERSION=0.9", "--ib-section", "Files")
	if res.err != nil {
		t.Fatalf("eval error = %v\nstderr: %s", res.err, res.stderr)
	}

	want := "%Files\n/opt/app/bin/old; bin/old; 755; root; root; \n"
	if res.stdout != want {
		t.Errorf("eval --ib-section output = %q, want %q", res.stdout, want)
	}
}

func TestEval_RedefinitionReportedAtDefaultLevel(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Log.Level = config.DefaultConfig().Log.Level
	dir := writeSampleDatafiles(t)
	res := runCLI(t, cfg, "eval", "base.data", "--DATAFILE_PATH="+dir, "--VERSION=0.9")
	if res.err != nil {
		t.Fatalf("eval error = %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stderr, "variable is already defined") || !strings.Contains(res.stderr, "VERSION") {
		t.Errorf("stderr = %q, want a redefinition notice for VERSION", res.stderr)
	}
}

func TestEval_DatafilePathFromConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Datafile.Path = writeSampleDatafiles(t)
	res := runCLI(t, cfg, "eval", "base.data", "--ib-section=Postinstall")
	if res.err != nil {
		t.Fatalf("eval error = %v\nstderr: %s", res.err, res.stderr)
	}
	if want := "%Postinstall\necho installed app 1.2\n"; res.stdout != want {
		t.Errorf("output = %q, want %q", res.stdout, want)
	}
}

func TestEval_TOML(t *testing.T) {
	t.Parallel()

	dir := writeSampleDatafiles(t)
	res := runCLI(t, testConfig(), "eval", "base.data", "--DATAFILE_PATH="+dir, "--ib-format=toml")
	if res.err != nil {
		t.Fatalf("eval error = %v\nstderr: %s", res.err, res.stderr)
	}

	m, err := report.ReadTOML(strings.NewReader(res.stdout))
	if err != nil {
		t.Fatalf("ReadTOML() error = %v\n%s", err, res.stdout)
	}
	if got := m.Variables["VERSION"]; got != "1.2" {
		t.Errorf("VERSION = %q, want %q", got, "1.2")
	}
	if len(m.Files) != 1 || m.Files[0].StagedLocation != "/opt/app/bin/app" {
		t.Errorf("Files = %+v, want the /opt/app/bin/app entry", m.Files)
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	dir := writeSampleDatafiles(t)
	datafiletest.New().
		Section("Files", "#if UNDEFINED == 1", "x; y; 644; root; root", "#endif").
		Write(t, dir, "bad.data")

	tests := []struct {
		name string
		args []string
		want issue.Id
	}{
		{"no datafiles", []string{"eval", "--DATAFILE_PATH=" + dir}, issue.InvalidArgumentsId},
		{"missing datafile", []string{"eval", "missing.data", "--DATAFILE_PATH=" + dir}, issue.DatafileNotFoundId},
		{"bad expression", []string{"eval", "bad.data", "--DATAFILE_PATH=" + dir}, issue.DatafileParseErrorId},
		{"unknown format", []string{"eval", "base.data", "--DATAFILE_PATH=" + dir, "--ib-format=yaml"}, issue.InvalidArgumentsId},
		{"section with toml", []string{"eval", "base.data", "--DATAFILE_PATH=" + dir, "--ib-format=toml", "--ib-section=Files"}, issue.InvalidArgumentsId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, testConfig(), tt.args...)
			wantIssue(t, res.err, tt.want)

			var exitErr *ExitError
			if !errors.As(res.err, &exitErr) {
				t.Fatalf("error %T is not an *ExitError", res.err)
			}
			if exitErr.Code != 1 {
				t.Errorf("exit code = %d, want 1", exitErr.Code)
			}
			if !strings.Contains(res.stderr, "Error:") {
				t.Errorf("stderr does not report the error:\n%s", res.stderr)
			}
		})
	}
}

func TestEval_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	var stdout, stderr strings.Builder
	app := NewApp(Dependencies{
		Config: staticConfig{err: errors.New("boom")},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs([]string{"eval", "base.data"})
	err := root.Execute()
	wantIssue(t, err, issue.ConfigLoadFailedId)
}

func TestEval_Help(t *testing.T) {
	t.Parallel()

	res := runCLI(t, testConfig(), "eval", "--ib-help")
	if res.err != nil {
		t.Fatalf("eval --ib-help error = %v", res.err)
	}
	for _, want := range []string{"--ib-format", "--ib-section", "--ib-watch", "--ib-config"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}
