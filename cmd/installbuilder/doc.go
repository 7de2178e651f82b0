// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for installbuilder.
//
// The build, eval, diff and script commands take datafile names and
// "--NAME=VALUE" / "--NAME" overrides as plain arguments, so cobra flag
// parsing is disabled for them and the tool's own options use the "--ib-"
// prefix. The config and completion commands are ordinary cobra commands.
package cmd
