// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// DebugDefine makes the build driver dump the evaluated manifest.
const DebugDefine = "DEBUG"

type (
	// EvaluationContext owns the sections, variables and defines of one
	// build. It is not safe for concurrent use.
	EvaluationContext struct {
		fs       afero.Fs
		logger   *log.Logger
		sections map[string][]RawLine
		order    []string
		vars     *Registry
		defines  *DefineSet
	}

	// Option configures an EvaluationContext.
	Option func(*EvaluationContext)

	// Script is an evaluated maintainer script, without the terminating
	// "exit 0" the packagers append.
	Script struct {
		Name  string   `json:"name" toml:"name"`
		Lines []string `json:"lines" toml:"lines"`
	}

	// Manifest is the fully evaluated result handed to packagers.
	Manifest struct {
		Variables    map[string]string `json:"variables" toml:"variables"`
		Defines      []string          `json:"defines" toml:"defines"`
		Files        []FileEntry       `json:"files" toml:"files"`
		Directories  []DirectoryEntry  `json:"directories" toml:"directories"`
		Links        []LinkEntry       `json:"links" toml:"links"`
		Scripts      []Script          `json:"scripts" toml:"scripts"`
		Dependencies []string          `json:"dependencies" toml:"dependencies"`
	}
)

// WithFs reads datafiles from fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(c *EvaluationContext) { c.fs = fsys }
}

// WithLogger sets the logger used for informational redefinition messages.
func WithLogger(l *log.Logger) Option {
	return func(c *EvaluationContext) { c.logger = l }
}

// New creates an empty EvaluationContext.
func New(opts ...Option) *EvaluationContext {
	c := &EvaluationContext{
		fs:       afero.NewOsFs(),
		sections: make(map[string][]RawLine),
		vars:     newRegistry(),
		defines:  newDefineSet(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Variables returns the variable registry.
func (c *EvaluationContext) Variables() *Registry { return c.vars }

// Defines returns the define set.
func (c *EvaluationContext) Defines() *DefineSet { return c.defines }

// EvaluateAll evaluates the File sections, every Script base name and the
// Dependencies section. Sections that were never loaded evaluate empty.
func (c *EvaluationContext) EvaluateAll() (*Manifest, error) {
	m := &Manifest{
		Variables: c.vars.Snapshot(),
		Defines:   c.defines.Names(),
	}

	for _, name := range FileSections {
		s, err := c.EvaluateSection(name)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, s.Files...)
		m.Directories = append(m.Directories, s.Directories...)
		m.Links = append(m.Links, s.Links...)
	}

	for _, name := range ScriptSections {
		s, err := c.EvaluateSection(name)
		if err != nil {
			return nil, err
		}
		m.Scripts = append(m.Scripts, Script{Name: name, Lines: s.Lines})
	}

	for _, name := range DependencySections {
		s, err := c.EvaluateSection(name)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, s.Lines...)
	}
	return m, nil
}

// Script returns the evaluated script with the given base name.
func (m *Manifest) Script(name string) (Script, bool) {
	for _, s := range m.Scripts {
		if s.Name == name {
			return s, true
		}
	}
	return Script{}, false
}

// Defined reports whether name is in the manifest's define set.
func (m *Manifest) Defined(name string) bool {
	for _, d := range m.Defines {
		if d == name {
			return true
		}
	}
	return false
}
