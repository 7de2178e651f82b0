// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"strconv"
	"strings"
)

// compare evaluates "VAR OP VALUE". Equality operators compare text; the
// ordering operators compare both sides as floating point numbers.
func (c *EvaluationContext) compare(args []string, line RawLine) (bool, error) {
	if len(args) < 3 {
		return false, lineErrorf(line, ErrExpressionSyntax, "#if expects VAR OP VALUE")
	}
	if len(args) > 3 {
		return false, lineErrorf(line, ErrExpressionSyntax, "chained expressions are not supported: %s", strings.Join(args, " "))
	}
	name, op, want := args[0], args[1], args[2]

	have, ok := c.vars.Get(name)
	if !ok {
		return false, lineErrorf(line, ErrUnknownVariable, "%s", name)
	}

	switch op {
	case "==":
		return have == want, nil
	case "!=":
		return have != want, nil
	case ">", ">=", "<", "<=":
	default:
		return false, lineErrorf(line, ErrUnknownOperator, "%s", op)
	}

	lhs, err := strconv.ParseFloat(strings.TrimSpace(have), 64)
	if err != nil {
		return false, lineErrorf(line, ErrNotNumeric, "variable %s is %q", name, have)
	}
	rhs, err := strconv.ParseFloat(want, 64)
	if err != nil {
		return false, lineErrorf(line, ErrNotNumeric, "%q", want)
	}

	switch op {
	case ">":
		return lhs > rhs, nil
	case ">=":
		return lhs >= rhs, nil
	case "<":
		return lhs < rhs, nil
	default:
		return lhs <= rhs, nil
	}
}

// defined reports whether the first argument names a define or a variable.
func (c *EvaluationContext) defined(args []string, line RawLine) (bool, error) {
	if len(args) < 1 {
		return false, lineErrorf(line, ErrExpressionSyntax, "#ifdef expects a name")
	}
	return c.defines.Has(args[0]) || c.vars.Has(args[0]), nil
}
