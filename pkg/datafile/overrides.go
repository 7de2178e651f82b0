// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"fmt"
	"strings"
)

type (
	// Override is one command line "--NAME=VALUE" variable or "--NAME" define.
	Override struct {
		Name   string
		Value  string
		Define bool
	}

	// Overrides holds command line overrides in argument order.
	Overrides []Override
)

// ParseArgs splits installbuilder arguments into overrides and datafile
// names. Anything that does not start with "--" is a datafile name.
func ParseArgs(args []string) (Overrides, []string, error) {
	var (
		overrides Overrides
		files     []string
	)
	for _, arg := range args {
		if len(arg) < 2 || !strings.HasPrefix(arg, "--") {
			files = append(files, arg)
			continue
		}
		o, err := ParseOverride(arg[2:])
		if err != nil {
			return nil, nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, files, nil
}

// ParseOverride parses "NAME=VALUE" or "NAME" without the leading dashes.
func ParseOverride(s string) (Override, error) {
	name, value, isVar := strings.Cut(s, "=")
	if name == "" {
		return Override{}, fmt.Errorf("%w: --%s", ErrInvalidOverride, s)
	}
	if isVar {
		return Override{Name: name, Value: value}, nil
	}
	return Override{Name: name, Define: true}, nil
}

// Get returns the value of the last override for name.
func (o Overrides) Get(name string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Name == name {
			return o[i].Value, true
		}
	}
	return "", false
}

// Default appends a variable override unless name is already overridden.
func (o Overrides) Default(name, value string) Overrides {
	if _, ok := o.Get(name); ok {
		return o
	}
	return append(o, Override{Name: name, Value: value})
}

// String renders the override as a command line argument.
func (o Override) String() string {
	if o.Define {
		return "--" + o.Name
	}
	return "--" + o.Name + "=" + o.Value
}

// ApplyOverrides overlays command line overrides on the registries. It must
// run after EvaluateVariablesAndDefines so that the command line wins.
// A define override also sets an empty variable of the same name.
func (c *EvaluationContext) ApplyOverrides(overrides Overrides) {
	for _, o := range overrides {
		if o.Define {
			if c.defines.Add(o.Name) {
				c.logger.Info("define is already defined", "name", o.Name, "pos", "command line")
			}
		}
		if c.vars.Set(o.Name, o.Value) {
			c.logger.Info("variable is already defined", "name", o.Name, "pos", "command line")
		}
	}
}
