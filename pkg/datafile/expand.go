// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Section is the evaluated form of a section. File-kind sections fill the
// entry list matching their name; every other kind fills Lines.
type Section struct {
	Name        string
	Kind        SectionKind
	Lines       []string
	Files       []FileEntry
	Directories []DirectoryEntry
	Links       []LinkEntry
}

// Text returns the section content as text lines. Entries are rendered in
// record syntax.
func (s *Section) Text() []string {
	if s.Kind != KindFile {
		return s.Lines
	}
	var out []string
	for _, e := range s.Files {
		out = append(out, e.String())
	}
	for _, e := range s.Directories {
		out = append(out, e.String())
	}
	for _, e := range s.Links {
		out = append(out, e.String())
	}
	return out
}

// Len returns the number of evaluated lines or entries.
func (s *Section) Len() int {
	return len(s.Lines) + len(s.Files) + len(s.Directories) + len(s.Links)
}

// add appends one live, substituted line.
func (s *Section) add(text string, line RawLine) error {
	if s.Kind.skipsBlank() && strings.TrimSpace(text) == "" {
		return nil
	}
	if s.Kind != KindFile {
		s.Lines = append(s.Lines, text)
		return nil
	}

	fields := splitFields(text)
	switch s.Name {
	case SectionFiles:
		e, err := newFileEntry(fields, line)
		if err != nil {
			return err
		}
		s.Files = append(s.Files, e)
	case SectionDirectories:
		e, err := newDirectoryEntry(fields, line)
		if err != nil {
			return err
		}
		s.Directories = append(s.Directories, e)
	case SectionLinks:
		e, err := newLinkEntry(fields, line)
		if err != nil {
			return err
		}
		s.Links = append(s.Links, e)
	}
	return nil
}

// HasSection reports whether name was loaded. For script base names any
// numbered fragment counts.
func (c *EvaluationContext) HasSection(name string) bool {
	if KindOf(name) == KindScript {
		return len(c.fragments(name)) > 0
	}
	_, ok := c.sections[name]
	return ok
}

// EvaluateSection evaluates one section: conditionals are resolved,
// includes are spliced in, placeholders are substituted and File-kind
// records are tokenized. A section that was never loaded evaluates empty.
func (c *EvaluationContext) EvaluateSection(name string) (*Section, error) {
	return c.evaluate(name, nil)
}

func (c *EvaluationContext) evaluate(name string, chain []string) (*Section, error) {
	if slices.Contains(chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncludeCycle, strings.Join(chain, " -> "), name)
	}
	chain = append(slices.Clone(chain), name)

	kind := KindOf(name)
	if kind == KindVariable {
		return nil, &SectionError{Section: name, Err: ErrIncludeNotAllowed}
	}

	raw := c.sections[name]
	if kind == KindScript {
		raw = c.Combined(name)
	}

	out := &Section{Name: name, Kind: kind}
	var st condStack
	for _, line := range raw {
		if kind.skipsBlank() && strings.TrimSpace(line.Text) == "" {
			continue
		}

		if keyword, args, ok := parseDirective(line.Text); ok {
			if keyword != dirInclude {
				if err := c.conditional(&st, line, keyword, args); err != nil {
					return nil, err
				}
				continue
			}
			if !st.live() {
				continue
			}
			if err := c.include(out, args, line, chain); err != nil {
				return nil, err
			}
			continue
		}

		if !st.live() {
			continue
		}

		text, missing := c.vars.Expand(line.Text)
		if missing != "" {
			return nil, lineErrorf(line, ErrUndefinedReference, "%s", missing)
		}
		if err := out.add(text, line); err != nil {
			return nil, err
		}
	}

	if err := st.check(name); err != nil {
		return nil, err
	}
	return out, nil
}

// include evaluates the named section on its own and appends its text to
// out. The included lines are already substituted.
func (c *EvaluationContext) include(out *Section, args []string, line RawLine, chain []string) error {
	if len(args) != 1 {
		return lineErrorf(line, ErrExpressionSyntax, "#include expects one section name")
	}
	target := args[0]
	if !c.HasSection(target) {
		return lineErrorf(line, ErrUnknownSection, "%s", target)
	}
	sub, err := c.evaluate(target, chain)
	if err != nil {
		return &LineError{Line: line, Err: err}
	}
	for _, text := range sub.Text() {
		if err := out.add(text, line); err != nil {
			return err
		}
	}
	return nil
}
