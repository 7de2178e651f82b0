// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"installbuilder-cli/internal/report"
	"installbuilder-cli/pkg/datafile"
	"installbuilder-cli/pkg/types"

	"github.com/spf13/cobra"
)

// diffArgs is the command line of `installbuilder diff`.
type diffArgs struct {
	*passThroughArgs
	a []string
	b []string
}

func newDiffArgs() *diffArgs {
	d := &diffArgs{passThroughArgs: newPassThroughArgs("diff")}
	d.flags.StringArrayVar(&d.a, "ib-a", nil, "override for the first evaluation (NAME=VALUE or NAME, repeatable)")
	d.flags.StringArrayVar(&d.b, "ib-b", nil, "override for the second evaluation (NAME=VALUE or NAME, repeatable)")
	return d
}

// newDiffCommand creates the `installbuilder diff` command.
func newDiffCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff --ib-a NAME=VALUE... --ib-b NAME=VALUE... [datafiles...] [--NAME=VALUE | --NAME]...",
		Short: "Compare the manifests of two evaluations",
		Long: `Compare the manifests of two evaluations.

The datafiles are evaluated twice with the shared overrides, once with the
--ib-a overrides on top and once with the --ib-b overrides on top. The two
text manifests are printed as a unified diff. The exit status is 1 when the
manifests differ.

` + SubtitleStyle.Render("Examples:") + `
  installbuilder diff base.data linux.data --PF=Linux \
      --ib-a PACKAGE_TYPE=RPM --ib-b PACKAGE_TYPE=DPKG`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := newDiffArgs()
			if err := d.parse(args); err != nil {
				return app.fail(cmd, err, d.verbose)
			}
			if d.help {
				return passThroughHelp(cmd, d.passThroughArgs)
			}
			return app.fail(cmd, runDiff(cmd.Context(), app, d), d.verbose)
		},
	}
}

func runDiff(ctx context.Context, app *App, d *diffArgs) error {
	if len(d.a) == 0 && len(d.b) == 0 {
		return invalidArguments(errors.New("at least one --ib-a or --ib-b override is required"))
	}
	aOverrides, err := parseOverrideList(d.a)
	if err != nil {
		return invalidArguments(err)
	}
	bOverrides, err := parseOverrideList(d.b)
	if err != nil {
		return invalidArguments(err)
	}

	sess, err := app.newSession(ctx, d.configPath, d.verbose)
	if err != nil {
		return err
	}

	texts := make([]string, 0, 2)
	for _, extra := range []datafile.Overrides{aOverrides, bOverrides} {
		overrides := append(append(datafile.Overrides{}, d.Overrides...), extra...)
		m, err := sess.evaluateManifest(overrides, d.Files)
		if err != nil {
			return err
		}
		texts = append(texts, report.Text(m))
	}

	out, err := report.Diff(diffLabel("a", aOverrides), diffLabel("b", bOverrides), texts[0], texts[1])
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" manifests are identical")
		return nil
	}
	fmt.Fprint(app.stdout, colorizeDiff(out))
	return &ExitError{Code: types.ExitFailure}
}

// parseOverrideList parses --ib-a/--ib-b values. A leading "--" is optional.
func parseOverrideList(values []string) (datafile.Overrides, error) {
	overrides := make(datafile.Overrides, 0, len(values))
	for _, v := range values {
		o, err := datafile.ParseOverride(strings.TrimPrefix(v, "--"))
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, nil
}

func diffLabel(side string, overrides datafile.Overrides) string {
	if len(overrides) == 0 {
		return side
	}
	parts := make([]string, 0, len(overrides))
	for _, o := range overrides {
		parts = append(parts, o.String())
	}
	return side + " (" + strings.Join(parts, " ") + ")"
}

func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			sb.WriteString(TitleStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(diffHunkStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(diffAddStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(diffDelStyle.Render(body))
		default:
			sb.WriteString(body)
		}
		sb.WriteString(nl)
	}
	return sb.String()
}
