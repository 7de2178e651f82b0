// SPDX-License-Identifier: MPL-2.0

package datafile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	overrides, files, err := ParseArgs([]string{
		"--BASE_DIR=.",
		"base.data",
		"--DEBUG",
		"-",
		"--EMPTY=",
		"--EQ=a=b",
		"x",
		"app.data",
	})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}

	wantOverrides := Overrides{
		{Name: "BASE_DIR", Value: "."},
		{Name: "DEBUG", Define: true},
		{Name: "EMPTY", Value: ""},
		{Name: "EQ", Value: "a=b"},
	}
	if diff := cmp.Diff(wantOverrides, overrides); diff != "" {
		t.Errorf("overrides mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"base.data", "-", "x", "app.data"}, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgs_InvalidOverride(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"--=value", "--"} {
		if _, _, err := ParseArgs([]string{arg}); !errors.Is(err, ErrInvalidOverride) {
			t.Errorf("ParseArgs(%q) error = %v, want ErrInvalidOverride", arg, err)
		}
	}
}

func TestOverrides_GetDefault(t *testing.T) {
	t.Parallel()

	o := Overrides{{Name: "A", Value: "1"}, {Name: "A", Value: "2"}}
	if v, ok := o.Get("A"); !ok || v != "2" {
		t.Errorf("Get(A) = %q, %v, want 2, true", v, ok)
	}

	o = o.Default("A", "3").Default("B", "4")
	if v, _ := o.Get("A"); v != "2" {
		t.Errorf("Default overwrote A: %q", v)
	}
	if v, _ := o.Get("B"); v != "4" {
		t.Errorf("Get(B) = %q, want 4", v)
	}
	if got := (Override{Name: "D", Define: true}).String(); got != "--D" {
		t.Errorf("String() = %q, want --D", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	ec := prepare(t, `%Variables
VERSION: '1.0'
#ifdef FROM_CLI
SEEN_DURING_PASS: 'yes'
#endif
%Postinstall
echo ${{VERSION}}
#ifdef FROM_CLI
echo cli define
#endif
`)
	ec.ApplyOverrides(Overrides{
		{Name: "VERSION", Value: "2.0"},
		{Name: "FROM_CLI", Define: true},
	})

	// Overrides apply after the file pass, so the Variables section never saw FROM_CLI.
	if ec.Variables().Has("SEEN_DURING_PASS") {
		t.Error("SEEN_DURING_PASS should not be set")
	}
	if v, _ := ec.Variables().Get("FROM_CLI"); v != "" {
		t.Errorf("FROM_CLI = %q, want empty", v)
	}

	want := []string{"echo 2.0", "echo cli define"}
	if diff := cmp.Diff(want, lines(t, ec, "Postinstall")); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}
