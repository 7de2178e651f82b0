// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/pkg/datafile"
	"installbuilder-cli/pkg/platform"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

type fakeRuntime struct {
	code    int
	err     error
	command string
	inv     Invocation
	calls   int
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) Run(_ context.Context, command string, inv Invocation) (int, error) {
	f.calls++
	f.command = command
	f.inv = inv
	return f.code, f.err
}

func manifest(vars map[string]string) *datafile.Manifest {
	base := map[string]string{
		"PF":           "Linux",
		"PACKAGE_TYPE": "DPKG",
		"TARGET_DIR":   "/out",
		"STAGING_DIR":  "/stage",
	}
	for k, v := range vars {
		if v == "<unset>" {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	return &datafile.Manifest{Variables: base}
}

func newTestPackager(t *testing.T, rt Runtime, fsys afero.Fs) *Packager {
	t.Helper()
	p, err := New(Options{
		Config:     config.PackagingConfig{Commands: map[string]string{"dpkg": "dpkg-deb --build", "pkg": "pkgmk"}},
		Runtime:    rt,
		ScriptsDir: "/work/scripts",
		Fs:         fsys,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuild_RunsCommand(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{}
	fsys := afero.NewMemMapFs()
	p := newTestPackager(t, rt, fsys)

	res, err := p.Build(context.Background(), manifest(map[string]string{"OUTPUTFILE": "demo-1.0"}))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := &Result{
		Target:      platform.Target{Platform: platform.PlatformLinux, PackageType: platform.PackageDPKG},
		Command:     "dpkg-deb --build",
		PackageFile: "demo-1.0.deb",
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}

	if rt.inv.Dir != "/out" {
		t.Errorf("Dir = %q, want /out", rt.inv.Dir)
	}
	for k, v := range map[string]string{
		"STAGING_DIR":  "/stage",
		"PACKAGE_TYPE": "DPKG",
		"PACKAGE_FILE": "demo-1.0.deb",
		"SCRIPTS_DIR":  "/work/scripts",
	} {
		if got := rt.inv.Env[k]; got != v {
			t.Errorf("env %s = %q, want %q", k, got, v)
		}
	}

	data, err := afero.ReadFile(fsys, "/out/package_filename")
	if err != nil {
		t.Fatalf("package_filename not written: %v", err)
	}
	if string(data) != "demo-1.0.deb\n" {
		t.Errorf("package_filename = %q", data)
	}
}

func TestBuild_DefaultPackageTypeAndNoOutputFile(t *testing.T) {
	t.Parallel()

	rt := &fakeRuntime{}
	fsys := afero.NewMemMapFs()
	p := newTestPackager(t, rt, fsys)

	res, err := p.Build(context.Background(), manifest(map[string]string{"PF": "SunOS", "PACKAGE_TYPE": "<unset>"}))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Target.PackageType != platform.PackagePKG || rt.command != "pkgmk" {
		t.Errorf("Build() = %+v, command %q", res, rt.command)
	}
	if _, ok := rt.inv.Env["PACKAGE_FILE"]; ok {
		t.Error("PACKAGE_FILE should not be exported without OUTPUTFILE")
	}
	if ok, _ := afero.Exists(fsys, "/out/package_filename"); ok {
		t.Error("package_filename should not be written without OUTPUTFILE")
	}
}

func TestBuild_Skips(t *testing.T) {
	t.Parallel()

	t.Run("SKIP_BUILDING_PACKAGE", func(t *testing.T) {
		t.Parallel()
		rt := &fakeRuntime{}
		p := newTestPackager(t, rt, afero.NewMemMapFs())
		res, err := p.Build(context.Background(), manifest(map[string]string{"SKIP_BUILDING_PACKAGE": ""}))
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if !res.Skipped || rt.calls != 0 {
			t.Errorf("Skipped = %v, calls = %d", res.Skipped, rt.calls)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		t.Parallel()
		rt := &fakeRuntime{}
		p := newTestPackager(t, rt, afero.NewMemMapFs())
		p.opts.DryRun = true
		res, err := p.Build(context.Background(), manifest(nil))
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if !res.Skipped || rt.calls != 0 || res.Command != "dpkg-deb --build" {
			t.Errorf("Build() = %+v, calls = %d", res, rt.calls)
		}
	})
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		rt   *fakeRuntime
		want error
	}{
		{"missing PF", map[string]string{"PF": "<unset>"}, &fakeRuntime{}, ErrMissingVariable},
		{"unsupported platform", map[string]string{"PF": "Windows"}, &fakeRuntime{}, platform.ErrUnsupportedPlatform},
		{"linux without package type", map[string]string{"PACKAGE_TYPE": "<unset>"}, &fakeRuntime{}, platform.ErrUnsupportedPlatform},
		{"missing TARGET_DIR", map[string]string{"TARGET_DIR": "<unset>"}, &fakeRuntime{}, ErrMissingVariable},
		{"no command", map[string]string{"PACKAGE_TYPE": "RPM"}, &fakeRuntime{}, ErrNoCommand},
		{"tool failure", nil, &fakeRuntime{code: 2}, ErrToolFailed},
		{"runtime error", nil, &fakeRuntime{code: -1, err: os.ErrPermission}, os.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestPackager(t, tt.rt, afero.NewMemMapFs())
			_, err := p.Build(context.Background(), manifest(tt.vars))
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToolError(t *testing.T) {
	t.Parallel()

	err := &ToolError{Target: platform.Target{Platform: platform.PlatformAIX, PackageType: platform.PackageLPP}, ExitCode: 9}
	if got := err.Error(); got != "packaging tool for AIX/LPP exited with status 9" {
		t.Errorf("Error() = %q", got)
	}
}

func TestNewRuntime(t *testing.T) {
	t.Parallel()

	rt, err := NewRuntime("", "")
	if err != nil || rt.Name() != "native" || rt.(*NativeRuntime).Shell != "/bin/sh" {
		t.Errorf("NewRuntime(default) = %v, %v", rt, err)
	}
	if rt, err := NewRuntime(config.RuntimeVirtual, ""); err != nil || rt.Name() != "virtual" {
		t.Errorf("NewRuntime(virtual) = %v, %v", rt, err)
	}
	if _, err := NewRuntime("container", ""); !errors.Is(err, config.ErrInvalidPackagingRuntime) {
		t.Errorf("NewRuntime(container) error = %v", err)
	}
}

func TestVirtualRuntime_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout bytes.Buffer
	code, err := (&VirtualRuntime{}).Run(context.Background(),
		`echo "$PACKAGE_TYPE" > built.txt; echo done; exit 0`,
		Invocation{Dir: dir, Env: map[string]string{"PACKAGE_TYPE": "RPM"}, Stdout: &stdout})
	if err != nil || code != 0 {
		t.Fatalf("Run() = %d, %v", code, err)
	}
	if stdout.String() != "done\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "built.txt"))
	if err != nil || strings.TrimSpace(string(data)) != "RPM" {
		t.Errorf("built.txt = %q, %v", data, err)
	}

	code, err = (&VirtualRuntime{}).Run(context.Background(), "exit 5", Invocation{Dir: dir})
	if err != nil || code != 5 {
		t.Errorf("Run(exit 5) = %d, %v", code, err)
	}
}

func TestNativeRuntime_Run(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("native runtime test uses /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	rt := &NativeRuntime{Shell: "/bin/sh"}
	var stdout bytes.Buffer
	code, err := rt.Run(context.Background(), `printf '%s' "$SHORT_NAME"; exit 4`,
		Invocation{Dir: dir, Env: map[string]string{"SHORT_NAME": "demo"}, Stdout: &stdout})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 4 || stdout.String() != "demo" {
		t.Errorf("Run() = %d, stdout %q", code, stdout.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := rt.Run(ctx, "sleep 5", Invocation{Dir: dir}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run(timeout) error = %v, want DeadlineExceeded", err)
	}
}
