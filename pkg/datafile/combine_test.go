// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluateSection_NumericOrder(t *testing.T) {
	t.Parallel()

	ec := prepare(t,
		"%Preinstall_100\necho 100\n%Preinstall_3\necho 3\n",
		"%Preinstall_500\necho 500\n%Preinstall_10\necho 10\n",
	)

	want := []string{"echo 3", "echo 10", "echo 100", "echo 500"}
	if diff := cmp.Diff(want, lines(t, ec, "Preinstall")); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestCombined(t *testing.T) {
	t.Parallel()

	ec := loadDocs(t,
		"%Postinstall_7\necho seven\n%Postinstall\necho bare\n%Postinstall__7\necho seven again\n",
		"%Postinstall0\necho zero\n%PostinstallX\necho other\n%Postinstall_1a\necho other\n%Preinstall\necho pre\n",
	)

	var got []string
	for _, l := range ec.Combined("Postinstall") {
		got = append(got, l.Text)
	}
	// Equal priorities keep discovery order: bare (0) before Postinstall0 (0),
	// Postinstall_7 before Postinstall__7.
	want := []string{"echo bare", "echo zero", "echo seven", "echo seven again"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Combined() mismatch (-want +got):\n%s", diff)
	}

	if !ec.HasSection("Postinstall") || ec.HasSection("Preuninstall") {
		t.Error("HasSection() does not reflect combined fragments")
	}
}
