// SPDX-License-Identifier: MPL-2.0

package datafile

import "strings"

const (
	dirIf        = "#if"
	dirIfdef     = "#ifdef"
	dirIfndef    = "#ifndef"
	dirElseif    = "#elseif"
	dirElseifdef = "#elseifdef"
	dirElse      = "#else"
	dirEndif     = "#endif"
	dirInclude   = "#include"
)

var directives = map[string]struct{}{
	dirIf: {}, dirIfdef: {}, dirIfndef: {}, dirElseif: {},
	dirElseifdef: {}, dirElse: {}, dirEndif: {}, dirInclude: {},
}

// parseDirective splits a directive line into its keyword and arguments.
// A directive must start at the first column; indented "#if" text is
// ordinary content, which keeps indented shell comments intact.
func parseDirective(text string) (keyword string, args []string, ok bool) {
	if !strings.HasPrefix(text, "#") {
		return "", nil, false
	}
	tokens := strings.Fields(text)
	if _, found := directives[tokens[0]]; !found {
		return "", nil, false
	}
	return tokens[0], tokens[1:], true
}

// conditional applies an #if-family directive to the stack.
func (c *EvaluationContext) conditional(st *condStack, line RawLine, keyword string, args []string) error {
	switch keyword {
	case dirIf, dirIfdef, dirIfndef:
		st.push(line)
		ok, err := c.guard(keyword, args, line)
		if err != nil {
			return err
		}
		if ok {
			return st.execute(line)
		}
	case dirElseif, dirElseifdef:
		if err := st.next(line); err != nil {
			return err
		}
		if !st.pending() {
			return nil
		}
		ok, err := c.guard(keyword, args, line)
		if err != nil {
			return err
		}
		if ok {
			return st.execute(line)
		}
	case dirElse:
		if err := st.next(line); err != nil {
			return err
		}
		if st.pending() {
			return st.execute(line)
		}
	case dirEndif:
		return st.pop(line)
	}
	return nil
}

func (c *EvaluationContext) guard(keyword string, args []string, line RawLine) (bool, error) {
	switch keyword {
	case dirIf, dirElseif:
		return c.compare(args, line)
	case dirIfndef:
		ok, err := c.defined(args, line)
		return !ok, err
	default:
		return c.defined(args, line)
	}
}
