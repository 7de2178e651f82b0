// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DiffContext is the number of unchanged lines shown around each hunk.
const DiffContext = 3

// Diff returns a unified diff from a to b, labelled with the given names.
// It returns "" when the texts are equal.
func Diff(aName, bName, a, b string) (string, error) {
	if a == b {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  DiffContext,
	})
	if err != nil {
		return "", fmt.Errorf("diff manifests: %w", err)
	}
	return out, nil
}

// splitLines splits s after each newline. The empty element SplitAfter
// yields for a trailing newline is dropped so it does not show up as a line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func sortedKeys(m map[string]string) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
