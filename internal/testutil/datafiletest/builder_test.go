// SPDX-License-Identifier: MPL-2.0

package datafiletest

import (
	"os"
	"testing"
)

func TestBuilder_String(t *testing.T) {
	t.Parallel()

	got := New().
		Variables("NAME", "demo").
		Defines("DEBUG").
		Section("Postinstall", "echo hi").
		String()

	want := "%Variables\nNAME: \"demo\"\n%Defines\nDEBUG\n%Postinstall\necho hi\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuilder_Write(t *testing.T) {
	t.Parallel()

	b := New().Section("Files")
	path := b.Write(t, t.TempDir(), "x.data")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%Files\n" {
		t.Errorf("file content = %q", data)
	}
}
