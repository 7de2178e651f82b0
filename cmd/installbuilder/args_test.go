// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"installbuilder-cli/internal/issue"
	"installbuilder-cli/pkg/datafile"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSplitOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantOwn  []string
		wantRest []string
	}{
		{
			name:     "no options",
			args:     []string{"base.data", "--PF=Linux", "--DEBUG"},
			wantRest: []string{"base.data", "--PF=Linux", "--DEBUG"},
		},
		{
			name:     "value in same argument",
			args:     []string{"--ib-config=/etc/ib.cue", "base.data"},
			wantOwn:  []string{"--ib-config=/etc/ib.cue"},
			wantRest: []string{"base.data"},
		},
		{
			name:     "value in next argument",
			args:     []string{"--ib-config", "/etc/ib.cue", "base.data"},
			wantOwn:  []string{"--ib-config", "/etc/ib.cue"},
			wantRest: []string{"base.data"},
		},
		{
			name:     "bool option does not consume next argument",
			args:     []string{"--ib-verbose", "base.data"},
			wantOwn:  []string{"--ib-verbose"},
			wantRest: []string{"base.data"},
		},
		{
			name:     "unknown option is kept for the flag set to reject",
			args:     []string{"--ib-nope", "base.data"},
			wantOwn:  []string{"--ib-nope"},
			wantRest: []string{"base.data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPassThroughArgs("test")
			own, rest := splitOptions(p.flags, tt.args)
			if diff := cmp.Diff(tt.wantOwn, own, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("own mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRest, rest, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("rest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPassThroughArgs_Parse(t *testing.T) {
	t.Parallel()

	p := newPassThroughArgs("test")
	err := p.parse([]string{"base.data", "--ib-verbose", "--VERSION=1.2", "--ib-config", "my.cue", "--DEBUG", "linux.data"})
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}

	if !p.verbose {
		t.Error("verbose = false, want true")
	}
	if p.configPath != "my.cue" {
		t.Errorf("configPath = %q, want %q", p.configPath, "my.cue")
	}
	wantOverrides := datafile.Overrides{
		{Name: "VERSION", Value: "1.2"},
		{Name: "DEBUG", Define: true},
	}
	if diff := cmp.Diff(wantOverrides, p.Overrides); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"base.data", "linux.data"}, p.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestPassThroughArgs_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown option", []string{"--ib-unknown"}},
		{"empty override name", []string{"--=value"}},
		{"bad bool value", []string{"--ib-verbose=maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPassThroughArgs("test")
			wantIssue(t, p.parse(tt.args), issue.InvalidArgumentsId)
		})
	}
}
