// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/pkg/datafile"

	"github.com/spf13/pflag"
)

// OptionPrefix marks the tool's own options on pass-through command lines.
// Every other "--NAME[=VALUE]" argument is a datafile override.
const OptionPrefix = "--ib-"

// passThroughArgs is the parsed command line of a command with flag parsing
// disabled.
type passThroughArgs struct {
	flags      *pflag.FlagSet
	configPath string
	verbose    bool
	help       bool

	Overrides datafile.Overrides
	Files     []string
}

// newPassThroughArgs returns a FlagSet carrying the options shared by every
// pass-through command. Callers register their own --ib-* options on
// p.flags before calling parse.
func newPassThroughArgs(name string) *passThroughArgs {
	p := &passThroughArgs{flags: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	p.flags.StringVar(&p.configPath, "ib-config", "", "config file (default is the user config directory)")
	p.flags.BoolVar(&p.verbose, "ib-verbose", false, "enable verbose output")
	p.flags.BoolVar(&p.help, "ib-help", false, "show help for this command")
	p.flags.SortFlags = false
	return p
}

// parse splits args into --ib-* options, overrides and datafile names.
func (p *passThroughArgs) parse(args []string) error {
	own, rest := splitOptions(p.flags, args)
	if err := p.flags.Parse(own); err != nil {
		return invalidArguments(err)
	}
	if extra := p.flags.Args(); len(extra) > 0 {
		return invalidArguments(fmt.Errorf("unexpected argument %q", extra[0]))
	}

	overrides, files, err := datafile.ParseArgs(rest)
	if err != nil {
		return invalidArguments(err)
	}
	p.Overrides = overrides
	p.Files = files
	return nil
}

// usage renders the --ib-* options for the command help.
func (p *passThroughArgs) usage() string {
	return p.flags.FlagUsages()
}

// splitOptions separates the arguments that belong to fs from the rest. A
// value-taking option written as two arguments ("--ib-config PATH") keeps
// its value.
func splitOptions(fs *pflag.FlagSet, args []string) (own, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, OptionPrefix) {
			rest = append(rest, arg)
			continue
		}
		own = append(own, arg)
		name, _, hasValue := strings.Cut(arg[2:], "=")
		if hasValue {
			continue
		}
		if f := fs.Lookup(name); f != nil && f.NoOptDefVal == "" && i+1 < len(args) {
			own = append(own, args[i+1])
			i++
		}
	}
	return own, rest
}

func invalidArguments(err error) error {
	return newServiceError(issue.NewErrorContext().
		WithOperation("parse command line").
		WithSuggestion("Pass build variables as --NAME=VALUE and defines as --NAME").
		WithSuggestion("Prefix installbuilder options with " + OptionPrefix).
		Wrap(err).
		BuildError(), issue.InvalidArgumentsId, "")
}
