// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"installbuilder-cli/internal/report"
	"installbuilder-cli/internal/watch"

	"github.com/spf13/cobra"
)

// evalArgs is the command line of `installbuilder eval`.
type evalArgs struct {
	*passThroughArgs
	format  string
	section string
	watch   bool
}

func newEvalArgs() *evalArgs {
	e := &evalArgs{passThroughArgs: newPassThroughArgs("eval")}
	e.flags.StringVar(&e.format, "ib-format", string(report.FormatText), "output format: text or toml")
	e.flags.StringVar(&e.section, "ib-section", "", "print only the named section")
	e.flags.BoolVar(&e.watch, "ib-watch", false, "re-evaluate whenever a datafile changes")
	return e
}

// newEvalCommand creates the `installbuilder eval` command.
func newEvalCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [datafiles...] [--NAME=VALUE | --NAME]...",
		Short: "Evaluate datafiles and print the resulting manifest",
		Long: `Evaluate datafiles and print the resulting manifest.

The manifest holds the final variables and defines, the Files, Directories
and Links entries, every maintainer script and the dependencies, after all
conditionals, includes and ${{NAME}} substitutions have been applied.

` + SubtitleStyle.Render("Examples:") + `
  installbuilder eval base.data linux.data --PF=Linux --VERSION=2
  installbuilder eval base.data --ib-section=Preinstall --PF=Linux
  installbuilder eval base.data --ib-format=toml > manifest.toml
  installbuilder eval base.data linux.data --ib-watch`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := newEvalArgs()
			if err := e.parse(args); err != nil {
				return app.fail(cmd, err, e.verbose)
			}
			if e.help {
				return passThroughHelp(cmd, e.passThroughArgs)
			}
			return app.fail(cmd, runEval(cmd.Context(), app, e), e.verbose)
		},
	}
}

func runEval(ctx context.Context, app *App, e *evalArgs) error {
	format, err := report.ParseFormat(e.format)
	if err != nil {
		return invalidArguments(err)
	}
	if e.section != "" && format != report.FormatText {
		return invalidArguments(errors.New("--ib-section only supports the text format"))
	}

	sess, err := app.newSession(ctx, e.configPath, e.verbose)
	if err != nil {
		return err
	}

	ev, err := sess.prepare(e.Overrides, e.Files)
	if err != nil {
		return err
	}
	if err := printEvaluation(app.stdout, ev, format, e.section); err != nil {
		return err
	}
	if !e.watch {
		return nil
	}

	w, err := watch.New(watch.Config{
		Files:       ev.Paths,
		Debounce:    sess.cfg.Watch.Debounce,
		ClearScreen: true,
		Stdout:      app.stdout,
		Logger:      sess.component("watch"),
		OnChange: func(ctx context.Context, changed []string) error {
			sess.logger.Debug("datafiles changed", "files", changed)
			next, err := sess.prepare(e.Overrides, e.Files)
			if err == nil {
				err = printEvaluation(app.stdout, next, format, e.section)
			}
			if err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, sess.verbose))
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stderr, "%s watching %d datafiles, press Ctrl+C to stop\n",
		SubtitleStyle.Render("eval:"), len(ev.Paths))
	return w.Run(ctx)
}

// printEvaluation writes the manifest of ev to w, or only the named section.
func printEvaluation(w io.Writer, ev *evaluation, format report.Format, section string) error {
	if section != "" {
		sec, err := ev.section(section)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, report.SectionText(sec))
		return err
	}
	m, err := ev.manifest()
	if err != nil {
		return err
	}
	return report.Write(w, m, format)
}
