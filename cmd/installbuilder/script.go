// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/internal/scripts"
	"installbuilder-cli/pkg/datafile"

	"github.com/spf13/cobra"
)

// scriptArgs is the command line of `installbuilder script lint|run`.
type scriptArgs struct {
	*passThroughArgs
	exec bool
	args []string

	// Section is the script base name, the first positional argument.
	Section string
}

func newScriptArgs(name string, run bool) *scriptArgs {
	s := &scriptArgs{passThroughArgs: newPassThroughArgs(name)}
	if run {
		s.flags.BoolVar(&s.exec, "ib-exec", false, "run external commands instead of logging them")
		s.flags.StringArrayVar(&s.args, "ib-arg", nil, "positional parameter passed to the script (repeatable)")
	}
	return s
}

func (s *scriptArgs) parse(args []string) error {
	if err := s.passThroughArgs.parse(args); err != nil {
		return err
	}
	if s.help {
		return nil
	}
	if len(s.Files) == 0 {
		return invalidArguments(fmt.Errorf("missing script section, one of %s", strings.Join(datafile.ScriptSections, ", ")))
	}
	s.Section, s.Files = s.Files[0], s.Files[1:]
	if datafile.KindOf(s.Section) != datafile.KindScript {
		return invalidArguments(fmt.Errorf("%q is not a script section, want one of %s",
			s.Section, strings.Join(datafile.ScriptSections, ", ")))
	}
	return nil
}

// newScriptCommand creates the `installbuilder script` command tree.
func newScriptCommand(app *App) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Inspect evaluated maintainer scripts",
		Long: `Inspect evaluated maintainer scripts.

A maintainer script is the evaluated text of a script section (Preinstall,
Postinstall, Preuninstall, Postuninstall, Preupgrade, iConfig or rConfig),
including every numbered fragment, followed by "exit 0".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	scriptCmd.AddCommand(&cobra.Command{
		Use:                "lint SECTION [datafiles...] [--NAME=VALUE | --NAME]...",
		Short:              "Check that an evaluated script parses as a shell script",
		Long:               "Check that an evaluated script parses as a shell script.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newScriptArgs("lint", false)
			if err := s.parse(args); err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			if s.help {
				return passThroughHelp(cmd, s.passThroughArgs)
			}
			return app.fail(cmd, runScriptLint(cmd.Context(), app, s), s.verbose)
		},
	})

	scriptCmd.AddCommand(&cobra.Command{
		Use:   "run SECTION [datafiles...] [--NAME=VALUE | --NAME]...",
		Short: "Run an evaluated script in the embedded shell interpreter",
		Long: `Run an evaluated script in the embedded shell interpreter.

The build variables are exported to the script. External commands are
logged and treated as successful unless --ib-exec is given, so scripts can
be previewed on a build host.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newScriptArgs("run", true)
			if err := s.parse(args); err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			if s.help {
				return passThroughHelp(cmd, s.passThroughArgs)
			}
			return app.fail(cmd, runScriptRun(cmd.Context(), app, s), s.verbose)
		},
	})

	return scriptCmd
}

// evaluateScript evaluates the datafiles and renders the requested script.
func evaluateScript(ctx context.Context, app *App, s *scriptArgs) (*session, *datafile.Manifest, string, error) {
	sess, err := app.newSession(ctx, s.configPath, s.verbose)
	if err != nil {
		return nil, nil, "", err
	}
	m, err := sess.evaluateManifest(s.Overrides, s.Files)
	if err != nil {
		return nil, nil, "", err
	}
	script, _ := m.Script(s.Section)
	return sess, m, scripts.Render(script), nil
}

func runScriptLint(ctx context.Context, app *App, s *scriptArgs) error {
	_, _, body, err := evaluateScript(ctx, app, s)
	if err != nil {
		return err
	}
	if err := scripts.Lint(s.Section, body); err != nil {
		return scriptError(err)
	}
	fmt.Fprintf(app.stdout, "%s %s is valid\n", SuccessStyle.Render("✓"), CmdStyle.Render(s.Section))
	return nil
}

func runScriptRun(ctx context.Context, app *App, s *scriptArgs) error {
	sess, m, body, err := evaluateScript(ctx, app, s)
	if err != nil {
		return err
	}

	res, err := scripts.Run(ctx, s.Section, body, scripts.RunOptions{
		Env:        m.Variables,
		InheritEnv: true,
		Args:       s.args,
		Stdin:      os.Stdin,
		Stdout:     app.stdout,
		Stderr:     app.stderr,
		AllowExec:  s.exec,
		Logger:     sess.component("scripts"),
	})
	if err != nil {
		return scriptError(err)
	}

	for _, skipped := range res.Skipped {
		fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("skipped:"), skipped)
	}
	if res.ExitCode != 0 {
		err := fmt.Errorf("script %s exited with status %d", s.Section, res.ExitCode)
		return &ExitError{
			Code: exitCodeOf(res.ExitCode),
			Err:  newServiceError(err, issue.ScriptExecutionFailedId, ""),
		}
	}
	return nil
}
