// SPDX-License-Identifier: MPL-2.0

package datafiletest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type (
	// Builder accumulates datafile sections in insertion order.
	Builder struct {
		sections []section
	}

	section struct {
		name  string
		lines []string
	}
)

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Section appends a %name header followed by lines.
func (b *Builder) Section(name string, lines ...string) *Builder {
	b.sections = append(b.sections, section{name: name, lines: lines})
	return b
}

// Variables appends a Variables section from name/value pairs. Values are
// double quoted. It panics on an odd number of arguments.
func (b *Builder) Variables(pairs ...string) *Builder {
	if len(pairs)%2 != 0 {
		panic("datafiletest: Variables needs name/value pairs")
	}
	lines := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		lines = append(lines, fmt.Sprintf("%s: %q", pairs[i], pairs[i+1]))
	}
	return b.Section("Variables", lines...)
}

// Defines appends a Defines section.
func (b *Builder) Defines(names ...string) *Builder {
	return b.Section("Defines", names...)
}

// String renders the datafile.
func (b *Builder) String() string {
	var sb strings.Builder
	for _, s := range b.sections {
		sb.WriteString("%" + s.name + "\n")
		for _, l := range s.lines {
			sb.WriteString(l + "\n")
		}
	}
	return sb.String()
}

// Write stores the datafile as dir/name and returns its path.
func (b *Builder) Write(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write datafile %s: %v", path, err)
	}
	return path
}
