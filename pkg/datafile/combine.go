// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"cmp"
	"math"
	"regexp"
	"strconv"

	"golang.org/x/exp/slices"
)

type fragment struct {
	priority int
	name     string
}

// Combined returns the raw lines of every section named base, base_N or
// baseN (N decimal, absent meaning 0), ordered by ascending N. Fragments
// with equal N keep their discovery order.
func (c *EvaluationContext) Combined(base string) []RawLine {
	var out []RawLine
	for _, f := range c.fragments(base) {
		out = append(out, c.sections[f.name]...)
	}
	return out
}

func (c *EvaluationContext) fragments(base string) []fragment {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `_*(\d*)$`)

	var frags []fragment
	for _, name := range c.order {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		priority := 0
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				n = math.MaxInt
			}
			priority = n
		}
		frags = append(frags, fragment{priority: priority, name: name})
	}
	slices.SortStableFunc(frags, func(a, b fragment) int {
		return cmp.Compare(a.priority, b.priority)
	})
	return frags
}
