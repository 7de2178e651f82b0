// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"strings"
	"unicode"
)

// EvaluateVariablesAndDefines consumes the Variables section and then the
// Defines section, honouring conditional directives inline so that later
// declarations can depend on earlier ones.
func (c *EvaluationContext) EvaluateVariablesAndDefines() error {
	if err := c.declare(SectionVariables, c.declareVariable); err != nil {
		return err
	}
	return c.declare(SectionDefines, c.declareDefine)
}

func (c *EvaluationContext) declare(section string, decl func(text string, line RawLine) error) error {
	var st condStack
	for _, line := range c.sections[section] {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if keyword, args, ok := parseDirective(text); ok {
			if keyword == dirInclude {
				return lineErrorf(line, ErrIncludeNotAllowed, "%s", section)
			}
			if err := c.conditional(&st, line, keyword, args); err != nil {
				return err
			}
			continue
		}
		if !st.live() {
			continue
		}
		if err := decl(text, line); err != nil {
			return err
		}
	}
	return st.check(section)
}

// declareVariable parses "KEY: 'VALUE'" or `KEY: "VALUE"`.
func (c *EvaluationContext) declareVariable(text string, line RawLine) error {
	key, value, found := strings.Cut(text, ":")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !found || key == "" || !quoted(value) {
		return &LineError{Line: line, Err: ErrVariableSyntax}
	}
	value = value[1 : len(value)-1]
	if c.vars.Set(key, value) {
		c.logger.Info("variable is already defined", "name", key, "pos", line.Pos())
	}
	return nil
}

func (c *EvaluationContext) declareDefine(text string, line RawLine) error {
	if strings.ContainsFunc(text, unicode.IsSpace) {
		return &LineError{Line: line, Err: ErrDefineSyntax}
	}
	if c.defines.Add(text) {
		c.logger.Info("define is already defined", "name", text, "pos", line.Pos())
	}
	return nil
}

func quoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	first, last := s[0], s[len(s)-1]
	return first == last && (first == '\'' || first == '"')
}
