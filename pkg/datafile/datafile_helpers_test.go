// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"fmt"
	"strings"
	"testing"
)

// loadDocs loads each document as "fileN.data" into a fresh context.
func loadDocs(t *testing.T, docs ...string) *EvaluationContext {
	t.Helper()
	ec := New()
	for i, doc := range docs {
		if err := ec.LoadReader(fmt.Sprintf("file%d.data", i+1), strings.NewReader(doc)); err != nil {
			t.Fatalf("LoadReader(file%d.data) error = %v", i+1, err)
		}
	}
	return ec
}

// prepare loads docs and runs the variables pass.
func prepare(t *testing.T, docs ...string) *EvaluationContext {
	t.Helper()
	ec := loadDocs(t, docs...)
	if err := ec.EvaluateVariablesAndDefines(); err != nil {
		t.Fatalf("EvaluateVariablesAndDefines() error = %v", err)
	}
	return ec
}

// lines evaluates a section and returns its text lines.
func lines(t *testing.T, ec *EvaluationContext, section string) []string {
	t.Helper()
	s, err := ec.EvaluateSection(section)
	if err != nil {
		t.Fatalf("EvaluateSection(%q) error = %v", section, err)
	}
	return s.Lines
}
