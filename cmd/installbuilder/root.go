// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"installbuilder-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags of commands that cobra parses.
// Pass-through commands read the same options from their own arguments.
type rootFlagValues struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the installbuilder command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rf := &rootFlagValues{}
	rootCmd := &cobra.Command{
		Use:   "installbuilder",
		Short: "Build native installation packages from datafiles",
		Long: TitleStyle.Render("installbuilder") + SubtitleStyle.Render(" - Build native installation packages from datafiles") + `

installbuilder evaluates a set of datafiles (sections of variables, defines,
file lists and maintainer scripts with #if/#elseif/#else/#endif, #include and
${{NAME}} macros), stages the files and runs the native packaging tool for
the target platform: RPM or DPKG on Linux, PKG on SunOS, LPP on AIX, DEPOT on
HPUX and PKG on Darwin.

` + SubtitleStyle.Render("Examples:") + `
  installbuilder eval base.data linux.data --PF=Linux --PACKAGE_TYPE=RPM
  installbuilder build base.data linux.data --PF=Linux --PACKAGE_TYPE=DPKG ...
  installbuilder diff base.data --ib-a VERSION=1 --ib-b VERSION=2
  installbuilder script lint Postinstall base.data --PF=Linux
  installbuilder config show`,
	}

	rootCmd.PersistentFlags().StringVar(&rf.configPath, "ib-config", "", "config file (default is $HOME/.config/installbuilder/config.cue)")
	rootCmd.PersistentFlags().BoolVar(&rf.verbose, "ib-verbose", false, "enable verbose output")

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newEvalCommand(app))
	rootCmd.AddCommand(newDiffCommand(app))
	rootCmd.AddCommand(newScriptCommand(app))
	rootCmd.AddCommand(newConfigCommand(app, rf))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the root command. It is called by main.main() and is the
// only place that exits the process.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler leaves errors already rendered by App.fail alone and hands
// everything else, such as cobra usage errors, to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
