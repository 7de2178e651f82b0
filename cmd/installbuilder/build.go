// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/packager"
	"installbuilder-cli/internal/report"
	"installbuilder-cli/internal/scripts"
	"installbuilder-cli/internal/staging"
	"installbuilder-cli/pkg/datafile"

	"github.com/spf13/cobra"
)

// buildArgs is the command line of `installbuilder build`.
type buildArgs struct {
	*passThroughArgs
	dryRun bool
}

func newBuildArgs() *buildArgs {
	b := &buildArgs{passThroughArgs: newPassThroughArgs("build")}
	b.flags.BoolVar(&b.dryRun, "ib-dry-run", false, "evaluate and validate without staging or packaging")
	return b
}

// newBuildCommand creates the `installbuilder build` command.
func newBuildCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build [datafiles...] [--NAME=VALUE | --NAME]...",
		Short: "Evaluate datafiles, stage the files and build the package",
		Long: `Evaluate datafiles, stage the files and build the package.

Datafiles are read from DATAFILE_PATH in the order given. Every --NAME=VALUE
argument sets a build variable and every --NAME argument adds a define; both
override the values from the datafiles.

The build needs the variables BASE_DIR, STAGING_DIR, INTERMEDIATE_DIR,
TARGET_DIR and PF. On Linux, PACKAGE_TYPE selects RPM or DPKG.

` + SubtitleStyle.Render("Pipeline:") + `
  1. Stage Directories, Files and Links under STAGING_DIR
  2. Write maintainer scripts to INTERMEDIATE_DIR/<scripts.dir>
  3. Write INTERMEDIATE_DIR/manifest.toml
  4. Run the packaging command for the target in TARGET_DIR

` + SubtitleStyle.Render("Examples:") + `
  installbuilder build base.data linux.data --PF=Linux --PACKAGE_TYPE=RPM \
      --BASE_DIR=.. --STAGING_DIR=stage --INTERMEDIATE_DIR=obj --TARGET_DIR=out
  installbuilder build base.data --DEBUG --ib-dry-run`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := newBuildArgs()
			if err := b.parse(args); err != nil {
				return app.fail(cmd, err, b.verbose)
			}
			if b.help {
				return passThroughHelp(cmd, b.passThroughArgs)
			}
			return app.fail(cmd, runBuild(cmd.Context(), app, b), b.verbose)
		},
	}
}

func runBuild(ctx context.Context, app *App, b *buildArgs) error {
	sess, err := app.newSession(ctx, b.configPath, b.verbose)
	if err != nil {
		return err
	}

	m, err := sess.evaluateManifest(b.Overrides, b.Files)
	if err != nil {
		return err
	}
	dirs, err := resolveBuildDirs(m)
	if err != nil {
		return err
	}
	target, err := resolveTarget(m)
	if err != nil {
		return err
	}

	if m.Defined(datafile.DebugDefine) {
		if err := report.Write(app.stdout, m, report.FormatText); err != nil {
			return err
		}
	}

	if b.dryRun {
		return dryRunBuild(ctx, sess, m, dirs)
	}

	stager, err := staging.New(staging.Options{
		BaseDir:    dirs.Base,
		StagingDir: dirs.Staging,
		Clean:      sess.cfg.Staging.Clean,
		Exclude:    sess.cfg.Staging.Exclude,
		Fs:         app.Fs,
		Logger:     sess.component("staging"),
	})
	if err != nil {
		return err
	}
	staged, err := stager.Stage(ctx, m)
	if err != nil {
		return stagingError(err, dirs.Staging)
	}
	fmt.Fprintf(app.stdout, "%s Staged %d directories, %d files and %d links into %s\n",
		SuccessStyle.Render("✓"), staged.Directories, staged.Files, staged.Links, CmdStyle.Render(dirs.Staging))
	for _, excluded := range staged.Excluded {
		sess.logger.Debug("excluded from staging", "file", excluded)
	}

	scriptsDir := filepath.Join(dirs.Intermediate, sess.cfg.Scripts.Dir)
	writer, err := scripts.NewWriter(scripts.WriterOptions{
		Dir:    scriptsDir,
		Lint:   sess.cfg.Scripts.Lint,
		Fs:     app.Fs,
		Logger: sess.component("scripts"),
	})
	if err != nil {
		return err
	}
	written, err := writer.WriteAll(m)
	if err != nil {
		return scriptError(err)
	}
	if len(written) > 0 {
		fmt.Fprintf(app.stdout, "%s Wrote %d maintainer scripts to %s\n",
			SuccessStyle.Render("✓"), len(written), CmdStyle.Render(scriptsDir))
	}

	manifestPath, err := report.WriteManifestFile(app.Fs, dirs.Intermediate, m)
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	sess.logger.Debug("manifest written", "path", manifestPath)

	pkg, err := packager.New(packager.Options{
		Config:     sess.cfg.Packaging,
		ScriptsDir: scriptsDir,
		Stdout:     app.stdout,
		Stderr:     app.stderr,
		Fs:         app.Fs,
		Logger:     sess.component("packager"),
	})
	if err != nil {
		return packagingError(err)
	}
	res, err := pkg.Build(ctx, m)
	if err != nil {
		return packagingError(err)
	}

	switch {
	case res.Skipped:
		fmt.Fprintf(app.stdout, "%s Skipped building the %s package (%s)\n",
			WarningStyle.Render("!"), target, packager.VarSkipBuilding)
	case res.PackageFile != "":
		fmt.Fprintf(app.stdout, "%s Built %s package %s\n",
			SuccessStyle.Render("✓"), target, CmdStyle.Render(filepath.Join(dirs.Target, res.PackageFile)))
	default:
		fmt.Fprintf(app.stdout, "%s Built %s package in %s\n",
			SuccessStyle.Render("✓"), target, CmdStyle.Render(dirs.Target))
	}
	return nil
}

// dryRunBuild validates the maintainer scripts and prints the packaging
// command without touching the filesystem.
func dryRunBuild(ctx context.Context, sess *session, m *datafile.Manifest, dirs buildDirs) error {
	out := sess.app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Dry run"))
	fmt.Fprintf(out, "  %s %d directories, %d files, %d links into %s\n",
		SubtitleStyle.Render("stage:"), len(m.Directories), len(m.Files), len(m.Links), dirs.Staging)

	for _, s := range m.Scripts {
		if len(s.Lines) == 0 {
			continue
		}
		if sess.cfg.Scripts.Lint {
			if err := scripts.Lint(s.Name, scripts.Render(s)); err != nil {
				return scriptError(err)
			}
		}
		fmt.Fprintf(out, "  %s %s\n", SubtitleStyle.Render("script:"),
			filepath.Join(dirs.Intermediate, sess.cfg.Scripts.Dir, s.Name+".sh"))
	}

	pkg, err := packager.New(packager.Options{
		Config: sess.cfg.Packaging,
		DryRun: true,
		Fs:     sess.app.Fs,
		Logger: sess.component("packager"),
	})
	if err != nil {
		return packagingError(err)
	}
	res, err := pkg.Build(ctx, m)
	if err != nil {
		return packagingError(err)
	}
	if res.Command != "" {
		fmt.Fprintf(out, "  %s %s: %s\n", SubtitleStyle.Render("package:"), res.Target, CmdStyle.Render(res.Command))
	} else {
		fmt.Fprintf(out, "  %s %s skipped (%s)\n", SubtitleStyle.Render("package:"), res.Target, packager.VarSkipBuilding)
	}
	return nil
}

func stagingError(err error, stagingDir string) error {
	return newServiceError(issue.NewErrorContext().
		WithOperation("stage files").
		WithResource(stagingDir).
		WithSuggestion("Check that every Files base location exists under BASE_DIR").
		Wrap(err).
		BuildError(), issue.StagingFailedId, "")
}

func scriptError(err error) error {
	var syntaxErr *scripts.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newServiceError(issue.NewErrorContext().
			WithOperation("validate maintainer script").
			WithResource(syntaxErr.Section).
			WithSuggestion("Run 'installbuilder script lint "+syntaxErr.Section+"' with the same datafiles").
			Wrap(err).
			BuildError(), issue.ScriptInvalidId, "")
	}
	return newServiceError(issue.NewErrorContext().
		WithOperation("write maintainer scripts").
		Wrap(err).
		BuildError(), issue.ScriptInvalidId, "")
}

// passThroughHelp prints the help of a command whose flags cobra does not parse.
func passThroughHelp(cmd *cobra.Command, p *passThroughArgs) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n%s\n  %s\n\n%s\n%s", cmd.Long,
		SubtitleStyle.Render("Usage:"), cmd.UseLine(),
		SubtitleStyle.Render("Options:"), p.usage())
	return nil
}
