// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"installbuilder-cli/internal/config"
	"installbuilder-cli/pkg/datafile"
	"installbuilder-cli/pkg/platform"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Build variables read by the packager.
const (
	VarPlatform     = "PF"
	VarPackageType  = "PACKAGE_TYPE"
	VarTargetDir    = "TARGET_DIR"
	VarOutputFile   = "OUTPUTFILE"
	VarSkipBuilding = "SKIP_BUILDING_PACKAGE"

	// VarPackageFile and VarScriptsDir are exported to the packaging command.
	VarPackageFile = "PACKAGE_FILE"
	VarScriptsDir  = "SCRIPTS_DIR"

	// PackageFilenameFile records the produced package name inside TARGET_DIR.
	PackageFilenameFile = "package_filename"
)

var (
	// ErrNoCommand is returned when no packaging command is configured for the target.
	ErrNoCommand = errors.New("no packaging command configured")
	// ErrMissingVariable is returned when a build variable the packager needs is unset.
	ErrMissingVariable = errors.New("missing build variable")
	// ErrToolFailed is the sentinel error wrapped by ToolError.
	ErrToolFailed = errors.New("packaging tool failed")
)

type (
	// Options configures a Packager.
	Options struct {
		Config  config.PackagingConfig
		Runtime Runtime
		// ScriptsDir is exported as SCRIPTS_DIR.
		ScriptsDir string
		// DryRun resolves the target and command without running it.
		DryRun bool
		Stdout io.Writer
		Stderr io.Writer
		// Fs receives package_filename and defaults to the OS filesystem.
		Fs     afero.Fs
		Logger *log.Logger
	}

	// Packager runs the packaging command of a build.
	Packager struct {
		opts   Options
		fs     afero.Fs
		logger *log.Logger
	}

	// Result describes a packaging run.
	Result struct {
		Target  platform.Target
		Command string
		// PackageFile is the package name derived from OUTPUTFILE, or "".
		PackageFile string
		// Skipped is set when SKIP_BUILDING_PACKAGE is defined or DryRun is on.
		Skipped bool
	}

	// ToolError reports a packaging command that exited unsuccessfully.
	ToolError struct {
		Target   platform.Target
		ExitCode int
	}
)

// New returns a Packager. When opts.Runtime is nil the runtime is chosen
// from opts.Config.
func New(opts Options) (*Packager, error) {
	if opts.Runtime == nil {
		rt, err := NewRuntime(opts.Config.Runtime, opts.Config.Shell)
		if err != nil {
			return nil, err
		}
		opts.Runtime = rt
	}
	p := &Packager{opts: opts, fs: opts.Fs, logger: opts.Logger}
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	if p.opts.Stdout == nil {
		p.opts.Stdout = io.Discard
	}
	if p.opts.Stderr == nil {
		p.opts.Stderr = io.Discard
	}
	return p, nil
}

// Resolve returns the target selected by the manifest's PF and PACKAGE_TYPE.
func Resolve(m *datafile.Manifest) (platform.Target, error) {
	pf, ok := m.Variables[VarPlatform]
	if !ok {
		return platform.Target{}, fmt.Errorf("%w: %s", ErrMissingVariable, VarPlatform)
	}
	return platform.Resolve(pf, m.Variables[VarPackageType])
}

// Build runs the packaging command for m. The command runs in TARGET_DIR,
// which is created when missing. After a successful run with OUTPUTFILE set,
// the package name is written to TARGET_DIR/package_filename.
func (p *Packager) Build(ctx context.Context, m *datafile.Manifest) (*Result, error) {
	target, err := Resolve(m)
	if err != nil {
		return nil, err
	}
	res := &Result{Target: target}

	targetDir, ok := m.Variables[VarTargetDir]
	if !ok || targetDir == "" {
		return res, fmt.Errorf("%w: %s", ErrMissingVariable, VarTargetDir)
	}

	if out, ok := m.Variables[VarOutputFile]; ok && out != "" {
		res.PackageFile = out + target.PackageType.Extension()
	}

	if _, skip := m.Variables[VarSkipBuilding]; skip {
		p.logger.Info("skipping package build", "target", target, "reason", VarSkipBuilding)
		res.Skipped = true
		return res, nil
	}

	command, ok := p.opts.Config.Command(string(target.PackageType))
	if !ok {
		return res, fmt.Errorf("%w for %s (set packaging.commands.%s)", ErrNoCommand, target, strings.ToLower(string(target.PackageType)))
	}
	res.Command = command

	if p.opts.DryRun {
		p.logger.Info("dry run, not packaging", "target", target, "command", command)
		res.Skipped = true
		return res, nil
	}

	if err := p.fs.MkdirAll(targetDir, 0o755); err != nil {
		return res, fmt.Errorf("create target directory: %w", err)
	}

	runCtx := ctx
	if p.opts.Config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.opts.Config.Timeout)
		defer cancel()
	}

	p.logger.Info("packaging", "target", target, "runtime", p.opts.Runtime.Name(), "dir", targetDir)
	code, err := p.opts.Runtime.Run(runCtx, command, Invocation{
		Dir:    targetDir,
		Env:    p.environment(m, target, res.PackageFile),
		Stdout: p.opts.Stdout,
		Stderr: p.opts.Stderr,
	})
	if err != nil {
		return res, fmt.Errorf("run packaging command for %s: %w", target, err)
	}
	if code != 0 {
		return res, &ToolError{Target: target, ExitCode: code}
	}

	if res.PackageFile != "" {
		path := filepath.Join(targetDir, PackageFilenameFile)
		if err := afero.WriteFile(p.fs, path, []byte(res.PackageFile+"\n"), 0o644); err != nil {
			return res, fmt.Errorf("record package filename: %w", err)
		}
	}
	p.logger.Info("package built", "target", target, "file", res.PackageFile)
	return res, nil
}

// environment returns the variables exported to the packaging command.
func (p *Packager) environment(m *datafile.Manifest, target platform.Target, packageFile string) map[string]string {
	env := maps.Clone(m.Variables)
	if env == nil {
		env = make(map[string]string)
	}
	env[VarPackageType] = string(target.PackageType)
	if packageFile != "" {
		env[VarPackageFile] = packageFile
	}
	if p.opts.ScriptsDir != "" {
		env[VarScriptsDir] = p.opts.ScriptsDir
	}
	return env
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("packaging tool for %s exited with status %d", e.Target, e.ExitCode)
}

// Unwrap returns ErrToolFailed for errors.Is() compatibility.
func (e *ToolError) Unwrap() error { return ErrToolFailed }

func sortedNames(env map[string]string) []string {
	keys := maps.Keys(env)
	slices.Sort(keys)
	return keys
}
