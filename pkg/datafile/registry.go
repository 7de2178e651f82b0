// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"regexp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Registry maps variable names to their final string values.
	Registry struct {
		values map[string]string
	}

	// DefineSet is the set of declared define names.
	DefineSet struct {
		names map[string]struct{}
	}
)

var referencePattern = regexp.MustCompile(`\$\{\{(\w+)\}\}`)

func newRegistry() *Registry {
	return &Registry{values: make(map[string]string)}
}

// Set stores value under name and reports whether name was already set.
func (r *Registry) Set(name, value string) (redefined bool) {
	_, redefined = r.values[name]
	r.values[name] = value
	return redefined
}

// Get returns the value of name.
func (r *Registry) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is set.
func (r *Registry) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Names returns the variable names in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.values)
	slices.Sort(names)
	return names
}

// Snapshot returns a copy of the registry contents.
func (r *Registry) Snapshot() map[string]string {
	return maps.Clone(r.values)
}

// Expand replaces every ${{NAME}} placeholder in text. It returns the name
// of the first undefined reference, if any.
func (r *Registry) Expand(text string) (string, string) {
	var missing string
	out := referencePattern.ReplaceAllStringFunc(text, func(m string) string {
		name := m[3 : len(m)-2]
		v, ok := r.values[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	return out, missing
}

func newDefineSet() *DefineSet {
	return &DefineSet{names: make(map[string]struct{})}
}

// Add adds name and reports whether it was already present.
func (d *DefineSet) Add(name string) (redefined bool) {
	_, redefined = d.names[name]
	d.names[name] = struct{}{}
	return redefined
}

// Has reports whether name is defined.
func (d *DefineSet) Has(name string) bool {
	_, ok := d.names[name]
	return ok
}

// Names returns the define names in sorted order.
func (d *DefineSet) Names() []string {
	names := maps.Keys(d.names)
	slices.Sort(names)
	return names
}
