// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/packager"
	"installbuilder-cli/pkg/datafile"
	"installbuilder-cli/pkg/platform"
	"installbuilder-cli/pkg/types"
)

// Build variables read by the build driver.
const (
	VarDatafilePath    = "DATAFILE_PATH"
	VarBaseDir         = "BASE_DIR"
	VarStagingDir      = "STAGING_DIR"
	VarIntermediateDir = "INTERMEDIATE_DIR"
	VarTargetDir       = packager.VarTargetDir
)

var (
	errNoDatafiles = errors.New("no datafiles given")

	requiredBuildVariables = []string{
		VarBaseDir,
		VarStagingDir,
		VarIntermediateDir,
		VarTargetDir,
		packager.VarPlatform,
	}
)

type (
	// evaluation is a loaded datafile set whose Variables and Defines have
	// been evaluated and overlaid with the command line.
	evaluation struct {
		ctx *datafile.EvaluationContext
		// Dir is the resolved DATAFILE_PATH.
		Dir string
		// Paths are the datafiles joined with Dir.
		Paths []string
	}

	// buildDirs are the absolute directories of a build.
	buildDirs struct {
		Base         string
		Staging      string
		Intermediate string
		Target       string
	}
)

// prepare runs the first evaluation passes: load, Variables and Defines,
// then the command line overlay. DATAFILE_PATH defaults to datafile.path
// from the configuration.
func (s *session) prepare(overrides datafile.Overrides, files []string) (*evaluation, error) {
	if len(files) == 0 {
		return nil, invalidArguments(errNoDatafiles)
	}
	overrides = overrides.Default(VarDatafilePath, s.cfg.Datafile.Path)
	value, _ := overrides.Get(VarDatafilePath)
	dir, err := types.FilesystemPath(value).Abs()
	if err != nil {
		return nil, invalidArguments(fmt.Errorf("%s: %w", VarDatafilePath, err))
	}

	ec := datafile.New(
		datafile.WithFs(s.app.Fs),
		datafile.WithLogger(s.component("datafile")),
	)
	if err := ec.Load(dir, files); err != nil {
		return nil, datafileError(err, dir)
	}
	if err := ec.EvaluateVariablesAndDefines(); err != nil {
		return nil, datafileError(err, dir)
	}
	ec.ApplyOverrides(overrides)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, filepath.Join(dir, f))
	}
	s.logger.Debug("datafiles loaded", "dir", dir, "files", len(files), "sections", len(ec.Sections()))
	return &evaluation{ctx: ec, Dir: dir, Paths: paths}, nil
}

// manifest evaluates every packaging section.
func (e *evaluation) manifest() (*datafile.Manifest, error) {
	m, err := e.ctx.EvaluateAll()
	if err != nil {
		return nil, datafileError(err, e.Dir)
	}
	return m, nil
}

// section evaluates a single section.
func (e *evaluation) section(name string) (*datafile.Section, error) {
	sec, err := e.ctx.EvaluateSection(name)
	if err != nil {
		return nil, datafileError(err, e.Dir)
	}
	return sec, nil
}

// evaluateManifest is prepare followed by manifest.
func (s *session) evaluateManifest(overrides datafile.Overrides, files []string) (*datafile.Manifest, error) {
	ev, err := s.prepare(overrides, files)
	if err != nil {
		return nil, err
	}
	return ev.manifest()
}

// resolveBuildDirs checks the required build variables and rewrites the
// directory variables of m as absolute paths with "~" expanded, so that staging, scripts and
// the packaging command see the same locations.
func resolveBuildDirs(m *datafile.Manifest) (buildDirs, error) {
	var missing []string
	for _, name := range requiredBuildVariables {
		if _, ok := m.Variables[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		err := fmt.Errorf("%w: %s", packager.ErrMissingVariable, strings.Join(missing, ", "))
		return buildDirs{}, newServiceError(issue.NewErrorContext().
			WithOperation("resolve build variables").
			WithSuggestion("Define them in the Variables section or pass --"+missing[0]+"=VALUE").
			Wrap(err).
			BuildError(), issue.MissingBuildVariableId, "")
	}

	var dirs buildDirs
	for name, dst := range map[string]*string{
		VarBaseDir:         &dirs.Base,
		VarStagingDir:      &dirs.Staging,
		VarIntermediateDir: &dirs.Intermediate,
		VarTargetDir:       &dirs.Target,
	} {
		abs, err := types.FilesystemPath(m.Variables[name]).Abs()
		if err != nil {
			return buildDirs{}, newServiceError(issue.NewErrorContext().
				WithOperation("resolve build variables").
				WithResource(name).
				Wrap(err).
				BuildError(), issue.MissingBuildVariableId, "")
		}
		m.Variables[name] = abs
		*dst = abs
	}
	return dirs, nil
}

// resolveTarget maps PF and PACKAGE_TYPE to a package target.
func resolveTarget(m *datafile.Manifest) (platform.Target, error) {
	target, err := packager.Resolve(m)
	if err != nil {
		return platform.Target{}, packagingError(err)
	}
	return target, nil
}

// datafileError attaches the issue catalog entry matching a datafile failure.
func datafileError(err error, dir string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return newServiceError(issue.NewErrorContext().
			WithOperation("load datafiles").
			WithResource(dir).
			WithSuggestion("Pass --DATAFILE_PATH=DIR or set datafile.path in the configuration").
			Wrap(err).
			BuildError(), issue.DatafileNotFoundId, "")
	}
	return newServiceError(issue.NewErrorContext().
		WithOperation("evaluate datafiles").
		WithResource(dir).
		WithSuggestion("Check the directive and entry syntax at the reported line").
		Wrap(err).
		BuildError(), issue.DatafileParseErrorId, "")
}

// packagingError attaches the issue catalog entry matching a packager failure.
func packagingError(err error) error {
	var toolErr *packager.ToolError
	switch {
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		return newServiceError(issue.NewErrorContext().
			WithOperation("select package format").
			WithSuggestion("Set PF to Linux, SunOS, AIX, HPUX or Darwin").
			WithSuggestion("On Linux set PACKAGE_TYPE to RPM or DPKG").
			Wrap(err).
			BuildError(), issue.UnsupportedPlatformId, "")
	case errors.Is(err, packager.ErrMissingVariable):
		return newServiceError(issue.NewErrorContext().
			WithOperation("resolve build variables").
			Wrap(err).
			BuildError(), issue.MissingBuildVariableId, "")
	case errors.As(err, &toolErr):
		svcErr := newServiceError(issue.NewErrorContext().
			WithOperation("build package").
			WithResource(toolErr.Target.String()).
			WithSuggestion("Re-run with --ib-verbose to see the packaging command").
			Wrap(err).
			BuildError(), issue.PackageToolFailedId, "")
		return &ExitError{Code: exitCodeOf(toolErr.ExitCode), Err: svcErr}
	default:
		return newServiceError(issue.NewErrorContext().
			WithOperation("build package").
			WithSuggestion("Check packaging.commands in the configuration").
			Wrap(err).
			BuildError(), issue.PackageToolFailedId, "")
	}
}
